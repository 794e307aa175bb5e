package search

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

	"github.com/ppiankov/groundcheck/internal/cache"
	"github.com/ppiankov/groundcheck/internal/worker"
)

// ErrMissingAPIKey is returned when the search client has no Serper key
var ErrMissingAPIKey = errors.New("SERPER_API_KEY is required")

// SerperConfig configures the Serper client
type SerperConfig struct {
	APIKey     string
	BaseURL    string
	Results    int
	HTTPClient *http.Client
	Limiter    *worker.Limiter
	Cache      cache.Cache
	CacheTTL   time.Duration
}

// SerperClient queries the Serper Google search API
type SerperClient struct {
	apiKey     string
	baseURL    string
	results    int
	httpClient *http.Client
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
}

// Response is the subset of a Serper search response we use
type Response struct {
	KnowledgeGraph *KnowledgeGraph `json:"knowledgeGraph,omitempty"`
	AnswerBox      *AnswerBox      `json:"answerBox,omitempty"`
	Organic        []OrganicResult `json:"organic"`
}

// OrganicResult is one regular search hit
type OrganicResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Date     string `json:"date,omitempty"`
	Position int    `json:"position,omitempty"`
}

// AnswerBox is Google's direct answer block
type AnswerBox struct {
	Title   string `json:"title,omitempty"`
	Answer  string `json:"answer,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// KnowledgeGraph is Google's entity panel
type KnowledgeGraph struct {
	Title       string `json:"title,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

// NewSerperClient creates a new Serper client
func NewSerperClient(cfg SerperConfig) (*SerperClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://google.serper.dev"
	}
	results := cfg.Results
	if results <= 0 {
		results = 10
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	c := cfg.Cache
	if c == nil {
		c = cache.Nop{}
	}

	return &SerperClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		results:    results,
		httpClient: client,
		limiter:    cfg.Limiter,
		cache:      c,
		cacheTTL:   cfg.CacheTTL,
	}, nil
}

// Search runs a web search. Identical queries are served from cache.
func (c *SerperClient) Search(ctx context.Context, query string) (*Response, error) {
	key := cache.Key("serper", query, fmt.Sprint(c.results))
	if data, ok := c.cache.Get(key); ok {
		var cached Response
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	body, err := json.Marshal(serperRequest{Q: query, Num: c.results})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/search"
	if err := c.limiter.Wait(ctx, url); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result Response
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	// Cache failures only cost a repeat query later
	_ = c.cache.Set(key, respBody, c.cacheTTL)

	return &result, nil
}
