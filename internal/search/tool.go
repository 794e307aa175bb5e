package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ToolName is the name the research agent sees for web search
const ToolName = "search_the_internet_with_serper"

// Searcher runs one web search query
type Searcher interface {
	Search(ctx context.Context, query string) (*Response, error)
}

// Tool exposes web search to an agent
type Tool struct {
	searcher     Searcher
	fetcher      *Fetcher
	enrichPages  int
	maxPageChars int
	authority    *AuthorityClassifier
	logger       *zap.Logger
}

// NewTool creates a search tool. With a nil fetcher or enrichPages <= 0
// result pages are not fetched.
func NewTool(searcher Searcher, fetcher *Fetcher, enrichPages, maxPageChars int, logger *zap.Logger) *Tool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tool{
		searcher:     searcher,
		fetcher:      fetcher,
		enrichPages:  enrichPages,
		maxPageChars: maxPageChars,
		logger:       logger,
	}
}

// WithAuthority labels each result with its source tier
func (t *Tool) WithAuthority(a *AuthorityClassifier) *Tool {
	t.authority = a
	return t
}

func (t *Tool) Name() string { return ToolName }

func (t *Tool) Description() string {
	return "Search the internet for recent information on a query and return titles, links and snippets."
}

// Run searches for query and renders the results as plain text
func (t *Tool) Run(ctx context.Context, query string) (string, error) {
	resp, err := t.searcher.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", query, err)
	}

	excerpts := t.enrich(ctx, resp.Organic)
	return Render(resp, excerpts, t.authority), nil
}

// enrich fetches the top result pages; failures only drop the excerpt
func (t *Tool) enrich(ctx context.Context, results []OrganicResult) map[string]string {
	if t.fetcher == nil || t.enrichPages <= 0 {
		return nil
	}

	excerpts := make(map[string]string)
	for i, r := range results {
		if i >= t.enrichPages {
			break
		}
		text, err := t.fetcher.PageText(ctx, r.Link)
		if err != nil {
			t.logger.Debug("page skipped", zap.String("url", r.Link), zap.Error(err))
			continue
		}
		if text = Excerpt(text, t.maxPageChars); text != "" {
			excerpts[r.Link] = text
		}
	}
	return excerpts
}

// Render formats a search response as the text block handed to the agent.
// authority may be nil.
func Render(resp *Response, excerpts map[string]string, authority *AuthorityClassifier) string {
	var b strings.Builder

	if kg := resp.KnowledgeGraph; kg != nil && kg.Title != "" {
		fmt.Fprintf(&b, "Knowledge Graph: %s", kg.Title)
		if kg.Type != "" {
			fmt.Fprintf(&b, " (%s)", kg.Type)
		}
		b.WriteString("\n")
		if kg.Description != "" {
			fmt.Fprintf(&b, "%s\n", kg.Description)
		}
		b.WriteString("\n")
	}

	if ab := resp.AnswerBox; ab != nil {
		answer := ab.Answer
		if answer == "" {
			answer = ab.Snippet
		}
		if answer != "" {
			fmt.Fprintf(&b, "Answer: %s\n\n", answer)
		}
	}

	if len(resp.Organic) == 0 {
		b.WriteString("No results found.\n")
		return b.String()
	}

	b.WriteString("Search results:\n")
	for _, r := range resp.Organic {
		b.WriteString("---\n")
		fmt.Fprintf(&b, "Title: %s\n", r.Title)
		fmt.Fprintf(&b, "Link: %s\n", r.Link)
		if authority != nil {
			fmt.Fprintf(&b, "Source: %s\n", authority.Classify(r.Link))
		}
		if r.Date != "" {
			fmt.Fprintf(&b, "Date: %s\n", r.Date)
		}
		fmt.Fprintf(&b, "Snippet: %s\n", r.Snippet)
		if excerpt := excerpts[r.Link]; excerpt != "" {
			fmt.Fprintf(&b, "Page excerpt: %s\n", excerpt)
		}
	}
	return b.String()
}
