package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/groundcheck/internal/pipeline"
	"github.com/ppiankov/groundcheck/internal/worker"
)

var (
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run the pipeline for every topic in a file",
	Long: `Batch runs the full pipeline for multiple topics, one after another:
- Read topics from the input file (one per line, # for comments)
- Run research, writing and evaluation for each topic in turn
- Write a JSON and a Markdown report per topic

A failing topic is reported and the batch moves on.

Example:
  groundcheck batch topics.txt
  groundcheck batch topics.txt --output-dir ./reports --timeout 1h`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./groundcheck-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", time.Hour, "total timeout for batch processing")
	addPipelineFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyPipelineFlags(cmd, cfg)

	topics, err := worker.ReadTopicsFromFile(file)
	if err != nil {
		return fmt.Errorf("read topics: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  groundcheck batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Topics:       %d\n", len(topics))
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(ctx, cfg, pipeline.WithLogger(logger))
	if err != nil {
		return credentialHint(cfg, err)
	}

	renderer := pipeline.NewRenderer(cmd.OutOrStdout())
	successCount := 0
	failureCount := 0
	names := make(reportNames)

	processor := worker.NewBatchProcessor(p, func(res *worker.TopicResult) {
		if res.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Topic, res.Error)
			return
		}

		slug := names.next(res.Topic)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(res.Result, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", res.Topic, err)
			return
		}
		if err := renderer.RenderMarkdown(res.Result, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", res.Topic, err)
			return
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (factual: %v, hallucination: %v, groundedness: %v)\n", res.Topic,
			res.Result.Evals.Factual.Output, res.Result.Evals.Hallucination.Output, res.Result.Evals.Groundedness.Output)
	})

	processor.ProcessTopics(ctx, topics)

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d topics\n", len(topics))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d topics failed", failureCount)
	}
	return nil
}

// sanitizeFilename turns a topic into a safe, lowercase file name
func sanitizeFilename(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	out := strings.TrimSuffix(b.String(), "-")
	if runes := []rune(out); len(runes) > 100 {
		out = strings.TrimSuffix(string(runes[:100]), "-")
	}
	if out == "" {
		return "topic"
	}
	return out
}

// reportNames hands out a distinct file name per topic within one batch
type reportNames map[string]bool

// next returns the topic's slug, suffixed with -2, -3, ... once taken
func (n reportNames) next(topic string) string {
	base := sanitizeFilename(topic)
	slug := base
	for i := 2; n[slug]; i++ {
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	n[slug] = true
	return slug
}
