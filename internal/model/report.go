package model

import "time"

// EvalPayload is the input/output pair sent to every evaluation template.
// Input carries the research facts, Output the writer's summary. Both are
// forwarded verbatim, including empty strings.
type EvalPayload struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// NewEvalPayload pairs research facts with the summary written from them
func NewEvalPayload(researchFacts, summary string) EvalPayload {
	return EvalPayload{
		Input:  researchFacts,
		Output: summary,
	}
}

// Map returns the payload in the key/value shape the evaluation service expects
func (p EvalPayload) Map() map[string]string {
	return map[string]string{
		"input":  p.Input,
		"output": p.Output,
	}
}

// CheckResult holds the verdict of one evaluation template.
// Output keeps whatever the service returned ("Passed", "Failed", a score).
type CheckResult struct {
	Output any    `json:"output"`
	Reason string `json:"reason"`
}

// EvalReport is the structured report printed at the end of a run
type EvalReport struct {
	Factual       CheckResult `json:"factual"`
	Hallucination CheckResult `json:"hallucination"`
	Groundedness  CheckResult `json:"groundedness"`
}

// RunResult is everything one pipeline run produced
type RunResult struct {
	Topic      string    `json:"topic"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Research     string `json:"research"`      // Raw output of the research task
	Summary      string `json:"summary"`       // Raw output of the writer task
	AgentVerdict string `json:"agent_verdict"` // Narrative written by the evaluation agent

	LLM   LLMInfo    `json:"llm"`
	Evals EvalReport `json:"evals"`
}

// LLMInfo records which model produced the agent outputs
type LLMInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
