package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrContextNotReady is returned when a task depends on a task that has not run yet
var ErrContextNotReady = errors.New("context task has not run")

// Crew runs its tasks one after another in declaration order
type Crew struct {
	Agents  []*Agent
	Tasks   []*Task
	Verbose bool
	Logger  *zap.Logger
}

// CrewOutput collects every task's output of one kickoff
type CrewOutput struct {
	// Raw is the output of the last task
	Raw string `json:"raw"`

	// TaskOutputs is keyed by task ID
	TaskOutputs map[string]*TaskOutput `json:"task_outputs"`

	// Order lists task IDs in execution order
	Order []string `json:"order"`
}

// Get returns the raw output of a task, or "" if the task is unknown
func (o *CrewOutput) Get(taskID string) string {
	if o == nil {
		return ""
	}
	if out, ok := o.TaskOutputs[taskID]; ok {
		return out.Raw
	}
	return ""
}

// Model returns the first model reported by a task, in execution order
func (o *CrewOutput) Model() string {
	if o == nil {
		return ""
	}
	for _, id := range o.Order {
		if out, ok := o.TaskOutputs[id]; ok && out.Model != "" {
			return out.Model
		}
	}
	return ""
}

// TokensUsed sums token usage across tasks
func (o *CrewOutput) TokensUsed() int {
	total := 0
	for _, out := range o.TaskOutputs {
		total += out.TokensUsed
	}
	return total
}

// Kickoff runs all tasks with the given inputs. The first failing task
// aborts the run.
func (c *Crew) Kickoff(ctx context.Context, inputs map[string]string) (*CrewOutput, error) {
	if len(c.Tasks) == 0 {
		return nil, fmt.Errorf("crew has no tasks")
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	out := &CrewOutput{TaskOutputs: make(map[string]*TaskOutput, len(c.Tasks))}

	for i, task := range c.Tasks {
		if task.Agent == nil {
			return nil, fmt.Errorf("task %d (%s) has no agent", i+1, task.ID)
		}
		if !c.hasAgent(task.Agent) {
			return nil, fmt.Errorf("task %d (%s): agent %q is not part of the crew", i+1, task.ID, task.Agent.Role)
		}

		var contextOutputs []string
		for _, dep := range task.Context {
			depOut, ok := out.TaskOutputs[dep.ID]
			if !ok {
				return nil, fmt.Errorf("task %d (%s) depends on %s: %w", i+1, task.ID, dep.ID, ErrContextNotReady)
			}
			contextOutputs = append(contextOutputs, depOut.Raw)
		}

		log := logger.With(
			zap.Int("step", i+1),
			zap.String("task_id", task.ID),
			zap.String("agent", task.Agent.Role),
		)
		c.logf(log, task.Agent, "task started")

		start := time.Now()
		exec, err := task.Agent.execute(ctx, task.prompt(inputs, contextOutputs), task.toolInput(inputs), inputs)
		if err != nil {
			log.Error("task failed", zap.Error(err))
			return nil, fmt.Errorf("task %d (%s): %w", i+1, task.Agent.Role, err)
		}

		taskOut := &TaskOutput{
			TaskID:      task.ID,
			Description: Interpolate(task.Description, inputs),
			Agent:       task.Agent.Role,
			Raw:         exec.text,
			Model:       exec.model,
			TokensUsed:  exec.tokensUsed,
			ToolCalls:   exec.toolCalls,
			Duration:    time.Since(start),
		}
		out.TaskOutputs[task.ID] = taskOut
		out.Order = append(out.Order, task.ID)
		out.Raw = exec.text

		for _, call := range exec.toolCalls {
			c.logf(log, task.Agent, "tool used", zap.String("tool", call.Tool), zap.Int("output_chars", len(call.Output)))
		}
		c.logf(log, task.Agent, "task finished",
			zap.Int("output_chars", len(exec.text)),
			zap.Int("tokens", exec.tokensUsed),
			zap.Duration("duration", taskOut.Duration),
		)
	}

	return out, nil
}

// hasAgent reports whether a belongs to the crew. An empty roster accepts any agent.
func (c *Crew) hasAgent(a *Agent) bool {
	if len(c.Agents) == 0 {
		return true
	}
	for _, member := range c.Agents {
		if member == a {
			return true
		}
	}
	return false
}

// logf logs at info level when the crew or agent is verbose, debug otherwise
func (c *Crew) logf(log *zap.Logger, a *Agent, msg string, fields ...zap.Field) {
	if c.Verbose || a.Verbose {
		log.Info(msg, fields...)
		return
	}
	log.Debug(msg, fields...)
}
