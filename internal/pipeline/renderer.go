package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/groundcheck/internal/model"
)

// EvalsHeader precedes the evaluation report on stdout
const EvalsHeader = "== FUTURE AGI EVALS =="

// Renderer writes run results to stdout and report files
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing console output to out
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderEvals prints the header and the report as 2-space-indented JSON
func (r *Renderer) RenderEvals(report model.EvalReport) error {
	data, err := marshalIndent(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if _, err := fmt.Fprintf(r.out, "%s\n%s\n", EvalsHeader, data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderJSON writes the full run result to path
func (r *Renderer) RenderJSON(result *model.RunResult, path string) error {
	data, err := marshalIndent(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes a human-readable report to path
func (r *Renderer) RenderMarkdown(result *model.RunResult, path string) error {
	return writeFile(path, []byte(Markdown(result)))
}

// Markdown renders a run result as a Markdown document
func Markdown(result *model.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# groundcheck: %s\n\n", result.Topic)
	fmt.Fprintf(&b, "- Started: %s\n", result.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Finished: %s\n", result.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	if result.LLM.Provider != "" {
		fmt.Fprintf(&b, "- LLM: %s", result.LLM.Provider)
		if result.LLM.Model != "" {
			fmt.Fprintf(&b, " (%s)", result.LLM.Model)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Evaluations\n\n")
	b.WriteString("| Check | Output | Reason |\n")
	b.WriteString("|---|---|---|\n")
	for _, row := range []struct {
		name  string
		check model.CheckResult
	}{
		{"Factual accuracy", result.Evals.Factual},
		{"Hallucination", result.Evals.Hallucination},
		{"Groundedness", result.Evals.Groundedness},
	} {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", row.name, cell(fmt.Sprint(row.check.Output)), cell(row.check.Reason))
	}

	section(&b, "Research", result.Research)
	section(&b, "Summary", result.Summary)
	section(&b, "Evaluation agent", result.AgentVerdict)

	return b.String()
}

func section(b *strings.Builder, title, body string) {
	fmt.Fprintf(b, "\n## %s\n\n", title)
	if strings.TrimSpace(body) == "" {
		b.WriteString("_(empty)_\n")
		return
	}
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
}

// cell keeps a value on one table row
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
