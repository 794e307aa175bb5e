package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is one step of a crew, bound to an agent and optionally to the
// outputs of earlier tasks
type Task struct {
	ID             string
	Description    string
	ExpectedOutput string
	Agent          *Agent
	Context        []*Task

	// ToolInput is the query handed to the agent's tools. Empty means the
	// interpolated description.
	ToolInput string
}

// NewTask creates a task with a fresh ID
func NewTask(description, expectedOutput string, agent *Agent, context ...*Task) *Task {
	return &Task{
		ID:             uuid.NewString(),
		Description:    description,
		ExpectedOutput: expectedOutput,
		Agent:          agent,
		Context:        context,
	}
}

// TaskOutput is what one task produced
type TaskOutput struct {
	TaskID      string        `json:"task_id"`
	Description string        `json:"description"`
	Agent       string        `json:"agent"`
	Raw         string        `json:"raw"`
	Model       string        `json:"model,omitempty"`
	TokensUsed  int           `json:"tokens_used,omitempty"`
	ToolCalls   []ToolCall    `json:"tool_calls,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// prompt renders the task prompt given the outputs of its context tasks
func (t *Task) prompt(inputs map[string]string, contextOutputs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current Task: %s\n\n", Interpolate(t.Description, inputs))
	if t.ExpectedOutput != "" {
		fmt.Fprintf(&b, "This is the expected criteria for your final answer: %s\n", Interpolate(t.ExpectedOutput, inputs))
		b.WriteString("You MUST return the actual complete content as the final answer, not a summary.\n")
	}
	if len(contextOutputs) > 0 {
		b.WriteString("\nThis is the context you're working with:\n")
		b.WriteString(strings.Join(contextOutputs, "\n\n----------\n\n"))
		b.WriteString("\n")
	}
	b.WriteString("\nBegin! This is VERY important to you, use the tools available and give your best Final Answer, your job depends on it!")
	return b.String()
}

func (t *Task) toolInput(inputs map[string]string) string {
	if t.ToolInput != "" {
		return Interpolate(t.ToolInput, inputs)
	}
	return Interpolate(t.Description, inputs)
}
