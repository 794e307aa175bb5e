package evals

import (
	"context"
	"fmt"

	"github.com/ppiankov/groundcheck/internal/model"
)

// Templates checked on every summary
const (
	TemplateFactualAccuracy     = "factual_accuracy"
	TemplateDetectHallucination = "detect_hallucination"
	TemplateGroundedness        = "groundedness"
)

// RunChecks scores a summary against its research with the default model
func RunChecks(ctx context.Context, client Client, payload model.EvalPayload) (*model.EvalReport, error) {
	return RunChecksWithModel(ctx, client, payload, DefaultModel)
}

// RunChecksWithModel runs factual accuracy, hallucination and groundedness
// in that order. The first failing call aborts the whole report.
func RunChecksWithModel(ctx context.Context, client Client, payload model.EvalPayload, modelName string) (*model.EvalReport, error) {
	inputs := payload.Map()

	factual, err := check(ctx, client, TemplateFactualAccuracy, inputs, modelName)
	if err != nil {
		return nil, err
	}
	hallucination, err := check(ctx, client, TemplateDetectHallucination, inputs, modelName)
	if err != nil {
		return nil, err
	}
	groundedness, err := check(ctx, client, TemplateGroundedness, inputs, modelName)
	if err != nil {
		return nil, err
	}

	return &model.EvalReport{
		Factual:       factual,
		Hallucination: hallucination,
		Groundedness:  groundedness,
	}, nil
}

func check(ctx context.Context, client Client, template string, inputs map[string]string, modelName string) (model.CheckResult, error) {
	res, err := client.Evaluate(ctx, EvaluateRequest{
		Template:  template,
		Inputs:    inputs,
		ModelName: modelName,
	})
	if err != nil {
		return model.CheckResult{}, fmt.Errorf("%s: %w", template, err)
	}
	if res == nil || len(res.EvalResults) == 0 {
		return model.CheckResult{}, fmt.Errorf("%s: %w", template, ErrNoEvalResults)
	}

	first := res.EvalResults[0]
	return model.CheckResult{Output: first.Output, Reason: first.Reason}, nil
}
