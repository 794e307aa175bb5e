package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/groundcheck/internal/model"
	"github.com/ppiankov/groundcheck/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	diskCache   bool
	llmProvider string
	llmModel    string
	evalModel   string
	enrichPages int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [topic]",
	Short: "Research a topic, summarize it, and score the summary",
	Long: `Run executes the full pipeline for one topic:
- The research agent searches the web and lists 3-5 recent facts
- The writer agent writes a 100-word summary from those facts
- The evaluation agent reviews the summary
- Future AGI scores the summary for factual accuracy, hallucination
  and groundedness against the research

The evaluation report is printed as JSON.

Required environment:
  FI_API_KEY, FI_SECRET_KEY   Future AGI credentials
  SERPER_API_KEY              web search
  GEMINI_API_KEY              or the key for --llm-provider

Example:
  groundcheck run
  groundcheck run "Solar power in Africa" --json run.json --md run.md
  groundcheck run "Quantum computing" --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Output flags
	runCmd.Flags().StringVar(&outJSON, "json", "", "write the full run result as JSON to this path")
	runCmd.Flags().StringVar(&outMD, "md", "", "write a Markdown report to this path")

	addPipelineFlags(runCmd)
	runCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall run timeout")
}

// addPipelineFlags registers the flags shared by run and batch
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable search result cache")
	cmd.Flags().BoolVar(&diskCache, "disk-cache", false, "keep search results on disk between runs")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (gemini, openai, anthropic, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	cmd.Flags().StringVar(&evalModel, "eval-model", "", "Future AGI evaluation model (default turing_flash)")
	cmd.Flags().IntVar(&enrichPages, "enrich", 0, "fetch and excerpt the top N result pages")
}

// applyPipelineFlags overrides cfg with flags the user set explicitly
func applyPipelineFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("disk-cache") {
		cfg.Cache.Disk = diskCache
	}
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
		if !flags.Changed("llm-model") {
			// The configured model belongs to the previous provider
			cfg.LLM.Model = ""
		}
		applySecrets(cfg)
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	if flags.Changed("eval-model") {
		cfg.Eval.Model = evalModel
	}
	if flags.Changed("enrich") {
		cfg.Search.EnrichPages = enrichPages
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyPipelineFlags(cmd, cfg)

	topic := cfg.Topic
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		topic = args[0]
	}

	p, err := pipeline.NewPipeline(ctx, cfg, pipeline.WithLogger(logger))
	if err != nil {
		return credentialHint(cfg, err)
	}

	logger.Info("run started",
		zap.String("topic", topic),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Bool("disk_cache", cfg.Cache.Disk),
	)

	result, err := p.Run(ctx, topic)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	return renderResult(cmd, result, outJSON, outMD)
}

func renderResult(cmd *cobra.Command, result *model.RunResult, jsonPath, mdPath string) error {
	renderer := pipeline.NewRenderer(cmd.OutOrStdout())

	if err := renderer.RenderEvals(result.Evals); err != nil {
		return err
	}

	if jsonPath != "" {
		if err := renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := renderer.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	return nil
}
