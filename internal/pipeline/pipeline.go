package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/groundcheck/internal/agent"
	"github.com/ppiankov/groundcheck/internal/cache"
	"github.com/ppiankov/groundcheck/internal/evals"
	"github.com/ppiankov/groundcheck/internal/llm"
	"github.com/ppiankov/groundcheck/internal/model"
	"github.com/ppiankov/groundcheck/internal/search"
	"github.com/ppiankov/groundcheck/internal/util"
	"github.com/ppiankov/groundcheck/internal/worker"
)

// Pipeline orchestrates one research → write → evaluate run
type Pipeline struct {
	config    *model.Config
	provider  llm.Provider
	search    agent.Tool
	evaluator evals.Client
	logger    *zap.Logger
}

// Option overrides a pipeline collaborator
type Option func(*Pipeline)

// WithProvider sets the LLM used by every agent
func WithProvider(p llm.Provider) Option {
	return func(pl *Pipeline) { pl.provider = p }
}

// WithSearchTool sets the research agent's search tool
func WithSearchTool(t agent.Tool) Option {
	return func(pl *Pipeline) { pl.search = t }
}

// WithEvaluator sets the evaluation service client
func WithEvaluator(c evals.Client) Option {
	return func(pl *Pipeline) { pl.evaluator = c }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(pl *Pipeline) { pl.logger = l }
}

// NewPipeline creates a pipeline from configuration. Collaborators not
// supplied as options are built from cfg; missing credentials fail here,
// before any network call.
func NewPipeline(ctx context.Context, cfg *model.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{config: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}

	if p.provider == nil {
		provider, err := llm.NewProvider(ctx, llm.ConfigFromModel(cfg))
		if err != nil {
			return nil, fmt.Errorf("llm provider: %w", err)
		}
		p.provider = provider
	}

	if p.search == nil {
		tool, err := newSearchTool(cfg, p.logger)
		if err != nil {
			return nil, fmt.Errorf("search tool: %w", err)
		}
		p.search = tool
	}

	if p.evaluator == nil {
		ev, err := evals.NewEvaluator(evals.Config{
			APIKey:    cfg.Eval.APIKey,
			SecretKey: cfg.Eval.SecretKey,
			BaseURL:   cfg.Eval.BaseURL,
			Timeout:   cfg.Eval.Timeout,
			Logger:    p.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("evaluator: %w", err)
		}
		p.evaluator = ev
	}

	return p, nil
}

func newSearchTool(cfg *model.Config, logger *zap.Logger) (*search.Tool, error) {
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	httpClient := &http.Client{
		Timeout:   cfg.HTTP.Timeout,
		Transport: &http.Transport{Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)},
	}

	client, err := search.NewSerperClient(search.SerperConfig{
		APIKey:     cfg.Search.APIKey,
		BaseURL:    cfg.Search.BaseURL,
		Results:    cfg.Search.Results,
		HTTPClient: httpClient,
		Limiter:    limiter,
		Cache:      cache.New(cfg.Cache),
		CacheTTL:   cache.TTL(cfg.Cache),
	})
	if err != nil {
		return nil, err
	}

	var fetcher *search.Fetcher
	if cfg.Search.EnrichPages > 0 {
		fetcher = search.NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, true,
			cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy).WithLimiter(limiter)
	}

	tool := search.NewTool(client, fetcher, cfg.Search.EnrichPages, cfg.Search.MaxPageChars, logger).
		WithAuthority(search.NewAuthorityClassifier(cfg.Search.Authority))
	return tool, nil
}

// Run executes the crew for topic and scores the summary against the research
func (p *Pipeline) Run(ctx context.Context, topic string) (*model.RunResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = p.config.Topic
	}

	result := &model.RunResult{
		Topic:     topic,
		StartedAt: time.Now().UTC(),
		LLM: model.LLMInfo{
			Provider: p.provider.Name(),
			Model:    p.config.LLM.Model,
		},
	}

	// 1. Research, write and narrate with the crew
	rc := NewResearchCrew(p.provider, p.search, p.config.Output.Verbose, p.logger)
	out, err := rc.Crew.Kickoff(ctx, map[string]string{
		"topic": topic,
		"year":  strconv.Itoa(p.config.Year),
	})
	if err != nil {
		return nil, fmt.Errorf("crew: %w", err)
	}

	// 2. Pull the texts to score; a missing output is scored as ""
	result.Research = out.Get(rc.Research.ID)
	result.Summary = out.Get(rc.Write.ID)
	result.AgentVerdict = out.Get(rc.Evaluate.ID)
	if m := out.Model(); m != "" {
		result.LLM.Model = m
	}

	p.logger.Info("crew finished",
		zap.String("topic", topic),
		zap.Int("research_chars", len(result.Research)),
		zap.Int("summary_chars", len(result.Summary)),
		zap.String("model", result.LLM.Model),
		zap.Int("tokens", out.TokensUsed()),
	)

	// 3. Remote evaluations
	report, err := evals.RunChecksWithModel(ctx, p.evaluator, model.NewEvalPayload(result.Research, result.Summary), p.config.Eval.Model)
	if err != nil {
		return nil, fmt.Errorf("evals: %w", err)
	}
	result.Evals = *report
	result.FinishedAt = time.Now().UTC()

	return result, nil
}
