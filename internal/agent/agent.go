// Package agent runs role-bound LLM agents through a fixed, sequential list
// of tasks. Each task sees the raw output of the tasks it lists as context.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/groundcheck/internal/llm"
)

// Tool is something an agent consults before answering, e.g. web search
type Tool interface {
	Name() string
	Description() string
	Run(ctx context.Context, query string) (string, error)
}

// Agent is a role-bound wrapper around an LLM with a fixed goal and backstory.
// Goal and Backstory may contain {placeholders} filled from kickoff inputs.
type Agent struct {
	Role      string
	Goal      string
	Backstory string
	Tools     []Tool
	LLM       llm.Provider
	Verbose   bool
}

// ToolCall records one tool invocation made while executing a task
type ToolCall struct {
	Tool   string `json:"tool"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

// execution is the result of one agent turn
type execution struct {
	text       string
	model      string
	tokensUsed int
	toolCalls  []ToolCall
}

// persona renders the system prompt for the agent
func (a *Agent) persona(inputs map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. %s\n", Interpolate(a.Role, inputs), Interpolate(a.Backstory, inputs))
	fmt.Fprintf(&b, "Your personal goal is: %s", Interpolate(a.Goal, inputs))
	if len(a.Tools) > 0 {
		b.WriteString("\n\nYou have access to the following tools, whose results are provided with the task:\n")
		for _, t := range a.Tools {
			fmt.Fprintf(&b, "- %s: %s\n", t.Name(), t.Description())
		}
	}
	return strings.TrimSpace(b.String())
}

// execute runs the agent's tools, then asks the LLM for the final answer
func (a *Agent) execute(ctx context.Context, prompt, toolInput string, inputs map[string]string) (*execution, error) {
	if a.LLM == nil {
		return nil, fmt.Errorf("agent %q has no LLM", a.Role)
	}

	exec := &execution{}
	var toolText strings.Builder
	for _, t := range a.Tools {
		out, err := t.Run(ctx, toolInput)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", t.Name(), err)
		}
		exec.toolCalls = append(exec.toolCalls, ToolCall{Tool: t.Name(), Input: toolInput, Output: out})
		fmt.Fprintf(&toolText, "Result of %s(%q):\n%s\n\n", t.Name(), toolInput, out)
	}

	if toolText.Len() > 0 {
		prompt = prompt + "\n\nTool results:\n" + strings.TrimSpace(toolText.String())
	}

	resp, err := a.LLM.Complete(ctx, llm.CompletionRequest{
		System: a.persona(inputs),
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}

	exec.text = resp.Text
	exec.model = resp.Model
	exec.tokensUsed = resp.TokensUsed
	return exec, nil
}

// Interpolate replaces {key} placeholders with values from inputs.
// Unknown placeholders are left as they are.
func Interpolate(s string, inputs map[string]string) string {
	if len(inputs) == 0 || !strings.Contains(s, "{") {
		return s
	}
	pairs := make([]string, 0, len(inputs)*2)
	for k, v := range inputs {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
