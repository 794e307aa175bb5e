// Package evals is a client for the Future AGI evaluation service.
package evals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrMissingCredentials is returned when FI_API_KEY or FI_SECRET_KEY is unset
	ErrMissingCredentials = errors.New("FI_API_KEY and FI_SECRET_KEY are required")
	// ErrNoEvalResults is returned when an evaluation call yields an empty result list
	ErrNoEvalResults = errors.New("evaluation returned no results")
)

const (
	DefaultBaseURL = "https://api.futureagi.com"
	DefaultModel   = "turing_flash"

	evaluatePath = "/sdk/api/v1/new-eval/"
)

// Client runs evaluation templates
type Client interface {
	Evaluate(ctx context.Context, req EvaluateRequest) (*BatchRunResult, error)
}

// EvaluateRequest is one evaluation call
type EvaluateRequest struct {
	Template  string
	Inputs    map[string]string
	ModelName string
}

// EvalResult is a single evaluation outcome
type EvalResult struct {
	Name       string  `json:"name"`
	Output     any     `json:"output"`
	Reason     string  `json:"reason"`
	Runtime    float64 `json:"runtime,omitempty"`
	OutputType string  `json:"output_type,omitempty"`
	EvalID     string  `json:"eval_id,omitempty"`
}

// BatchRunResult holds every evaluation returned by one call, in order
type BatchRunResult struct {
	EvalResults []EvalResult
}

// Config configures the Evaluator
type Config struct {
	APIKey     string
	SecretKey  string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Evaluator talks to the Future AGI evaluation API
type Evaluator struct {
	apiKey     string
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type evaluateBody struct {
	EvalName string            `json:"eval_name"`
	Inputs   map[string]string `json:"inputs"`
	Model    string            `json:"model"`
}

type evaluateResponse struct {
	Result []struct {
		Evaluations []EvalResult `json:"evaluations"`
	} `json:"result"`
}

type errorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// NewEvaluator creates an evaluation client. Both keys are required.
func NewEvaluator(cfg Config) (*Evaluator, error) {
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		return nil, ErrMissingCredentials
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 2 * time.Minute
		}
		client = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{
		apiKey:     cfg.APIKey,
		secretKey:  cfg.SecretKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
		logger:     logger,
	}, nil
}

// Evaluate runs one template against the inputs
func (e *Evaluator) Evaluate(ctx context.Context, req EvaluateRequest) (*BatchRunResult, error) {
	modelName := req.ModelName
	if modelName == "" {
		modelName = DefaultModel
	}

	body, err := json.Marshal(evaluateBody{
		EvalName: req.Template,
		Inputs:   req.Inputs,
		Model:    modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+evaluatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", e.apiKey)
	httpReq.Header.Set("X-Secret-Key", e.secretKey)

	start := time.Now()
	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	e.logger.Debug("evaluation call",
		zap.String("template", req.Template),
		zap.String("model", modelName),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp.StatusCode, respBody)
	}

	var parsed evaluateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	result := &BatchRunResult{}
	for _, r := range parsed.Result {
		result.EvalResults = append(result.EvalResults, r.Evaluations...)
	}
	return result, nil
}

func apiError(status int, body []byte) error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		msg := er.Message
		if msg == "" {
			msg = er.Detail
		}
		if msg != "" {
			return fmt.Errorf("evaluation API error (%d): %s", status, msg)
		}
	}
	return fmt.Errorf("evaluation API error (%d): %s", status, strings.TrimSpace(string(body)))
}
