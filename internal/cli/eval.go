package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/groundcheck/internal/evals"
	"github.com/ppiankov/groundcheck/internal/model"
)

var (
	researchFile    string
	summaryFile     string
	evalOnlyModel   string
	evalOnlyJSON    string
	evalOnlyTimeout time.Duration
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score an existing summary against existing research",
	Long: `Eval skips the agents and sends research facts and a summary straight to
the Future AGI evaluation service. The research file becomes the evaluation
input and the summary file its output.

Example:
  groundcheck eval --research facts.txt --summary summary.txt
  groundcheck eval --research facts.txt --summary summary.txt --json evals.json`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&researchFile, "research", "", "file with the research facts (required)")
	evalCmd.Flags().StringVar(&summaryFile, "summary", "", "file with the summary (required)")
	evalCmd.Flags().StringVar(&evalOnlyModel, "eval-model", "", "Future AGI evaluation model (default turing_flash)")
	evalCmd.Flags().StringVar(&evalOnlyJSON, "json", "", "also write the report as JSON to this path")
	evalCmd.Flags().DurationVar(&evalOnlyTimeout, "timeout", 5*time.Minute, "overall timeout")
	_ = evalCmd.MarkFlagRequired("research")
	_ = evalCmd.MarkFlagRequired("summary")
}

func runEval(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), evalOnlyTimeout)
	defer cancel()

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("eval-model") {
		cfg.Eval.Model = evalOnlyModel
	}

	research, err := os.ReadFile(researchFile)
	if err != nil {
		return fmt.Errorf("read research: %w", err)
	}
	summary, err := os.ReadFile(summaryFile)
	if err != nil {
		return fmt.Errorf("read summary: %w", err)
	}

	client, err := evals.NewEvaluator(evals.Config{
		APIKey:    cfg.Eval.APIKey,
		SecretKey: cfg.Eval.SecretKey,
		BaseURL:   cfg.Eval.BaseURL,
		Timeout:   cfg.Eval.Timeout,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	payload := model.NewEvalPayload(string(research), string(summary))
	report, err := evals.RunChecksWithModel(ctx, client, payload, cfg.Eval.Model)
	if err != nil {
		return fmt.Errorf("evals failed: %w", err)
	}

	result := &model.RunResult{
		Research: payload.Input,
		Summary:  payload.Output,
		Evals:    *report,
	}
	return renderResult(cmd, result, evalOnlyJSON, "")
}
