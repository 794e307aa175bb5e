package evals

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/groundcheck/internal/model"
)

type recordingClient struct {
	calls   []EvaluateRequest
	results map[string]*BatchRunResult
	errs    map[string]error
}

func (c *recordingClient) Evaluate(_ context.Context, req EvaluateRequest) (*BatchRunResult, error) {
	c.calls = append(c.calls, req)
	if err := c.errs[req.Template]; err != nil {
		return nil, err
	}
	if res, ok := c.results[req.Template]; ok {
		return res, nil
	}
	return &BatchRunResult{EvalResults: []EvalResult{{Output: "Passed", Reason: req.Template + " ok"}}}, nil
}

func TestRunChecks_OrderAndPayload(t *testing.T) {
	client := &recordingClient{}
	payload := model.NewEvalPayload("- fact one\n- fact two", "A short summary.")

	report, err := RunChecks(context.Background(), client, payload)
	require.NoError(t, err)

	require.Len(t, client.calls, 3)
	assert.Equal(t, TemplateFactualAccuracy, client.calls[0].Template)
	assert.Equal(t, TemplateDetectHallucination, client.calls[1].Template)
	assert.Equal(t, TemplateGroundedness, client.calls[2].Template)
	for _, call := range client.calls {
		assert.Equal(t, "turing_flash", call.ModelName)
		assert.Equal(t, map[string]string{"input": "- fact one\n- fact two", "output": "A short summary."}, call.Inputs)
	}

	assert.Equal(t, "factual_accuracy ok", report.Factual.Reason)
	assert.Equal(t, "detect_hallucination ok", report.Hallucination.Reason)
	assert.Equal(t, "groundedness ok", report.Groundedness.Reason)
}

func TestRunChecks_EmptyTextForwarded(t *testing.T) {
	client := &recordingClient{}

	_, err := RunChecks(context.Background(), client, model.NewEvalPayload("", ""))
	require.NoError(t, err)

	for _, call := range client.calls {
		input, ok := call.Inputs["input"]
		assert.True(t, ok)
		assert.Equal(t, "", input)
		output, ok := call.Inputs["output"]
		assert.True(t, ok)
		assert.Equal(t, "", output)
	}
}

func TestRunChecks_UsesFirstResult(t *testing.T) {
	client := &recordingClient{results: map[string]*BatchRunResult{
		TemplateDetectHallucination: {EvalResults: []EvalResult{
			{Output: "Failed", Reason: "invented statistic"},
			{Output: "Passed", Reason: "ignored"},
		}},
		TemplateGroundedness: {EvalResults: []EvalResult{{Output: 0.8, Reason: "mostly grounded"}}},
	}}

	report, err := RunChecks(context.Background(), client, model.NewEvalPayload("r", "s"))
	require.NoError(t, err)

	assert.Equal(t, model.CheckResult{Output: "Failed", Reason: "invented statistic"}, report.Hallucination)
	assert.Equal(t, 0.8, report.Groundedness.Output)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	var keys map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.Len(t, keys, 3)
	for _, k := range []string{"factual", "hallucination", "groundedness"} {
		assert.Contains(t, keys[k], "output")
		assert.Contains(t, keys[k], "reason")
	}
}

func TestRunChecks_EmptyResultAborts(t *testing.T) {
	client := &recordingClient{results: map[string]*BatchRunResult{
		TemplateFactualAccuracy: {},
	}}

	report, err := RunChecks(context.Background(), client, model.NewEvalPayload("r", "s"))
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrNoEvalResults)
	assert.Contains(t, err.Error(), "factual_accuracy")
	assert.Len(t, client.calls, 1)
}

func TestRunChecks_ErrorStopsLaterCalls(t *testing.T) {
	boom := errors.New("service unavailable")
	client := &recordingClient{errs: map[string]error{TemplateDetectHallucination: boom}}

	_, err := RunChecks(context.Background(), client, model.NewEvalPayload("r", "s"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "detect_hallucination: service unavailable", err.Error())
	assert.Len(t, client.calls, 2)
}

func TestRunChecksWithModel(t *testing.T) {
	client := &recordingClient{}

	_, err := RunChecksWithModel(context.Background(), client, model.NewEvalPayload("r", "s"), "protect_flash")
	require.NoError(t, err)
	for _, call := range client.calls {
		assert.Equal(t, "protect_flash", call.ModelName)
	}
}
