// Package search is the gateway between the report workflow and the web
// search provider: it fans queries out, drops failures, and renders results
// as bounded LLM context.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mohammad-safakhou/deepresearch/internal/agent/telemetry"
	"github.com/mohammad-safakhou/deepresearch/internal/tokenizer"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
	"github.com/mohammad-safakhou/deepresearch/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultNumResults = 5
	DefaultMaxTokens  = 2000
	NoResults         = "No search results found."
)

// Options configures a Gateway.
type Options struct {
	// Provider names the backend in logs and metrics.
	Provider string
	// Depth is passed through to providers that support it.
	Depth   string
	Logger  *zap.Logger
	Metrics *telemetry.Metrics
}

type Gateway struct {
	searcher  web_search.WebSearcher
	tokenizer tokenizer.Tokenizer
	provider  string
	depth     string
	logger    *zap.Logger
	metrics   *telemetry.Metrics
}

func NewGateway(searcher web_search.WebSearcher, tok tokenizer.Tokenizer, opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	depth := opts.Depth
	if depth == "" {
		depth = "advanced"
	}
	return &Gateway{
		searcher:  searcher,
		tokenizer: tok,
		provider:  opts.Provider,
		depth:     depth,
		logger:    logger,
		metrics:   opts.Metrics,
	}
}

// RunSearchQueries issues every query concurrently. Failed queries are logged
// and dropped; the surviving documents keep query order.
func (g *Gateway) RunSearchQueries(ctx context.Context, queries []string, numResults int, includeRaw bool) []models.Document {
	if len(queries) == 0 {
		return nil
	}
	if numResults <= 0 {
		numResults = DefaultNumResults
	}
	opts := models.Options{MaxResults: numResults, Depth: g.depth, IncludeRawContent: includeRaw}

	slots := make([]models.Document, len(queries))
	var eg errgroup.Group
	for i, q := range queries {
		eg.Go(func() error {
			t0 := time.Now()
			doc, err := g.searcher.Search(ctx, q, opts)
			if err != nil {
				g.logger.Error("search query failed",
					zap.String("provider", g.provider),
					zap.String("query", q),
					zap.Error(err))
				g.metrics.SearchFailed(g.provider)
				return nil
			}
			g.logger.Debug("search query done",
				zap.String("query", q),
				zap.Duration("took", time.Since(t0)))
			slots[i] = doc
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]models.Document, 0, len(slots))
	for _, doc := range slots {
		if doc != nil {
			out = append(out, doc)
		}
	}
	return out
}

// FormatSearchQueryResults renders provider output as LLM context. docs may
// be a single document, a document wrapping "results", or any nesting of
// lists of those. Sources are deduplicated by URL in first-seen order. Raw
// page content is included only when includeRaw is set and is cut to
// maxTokens tokens.
func (g *Gateway) FormatSearchQueryResults(docs any, maxTokens int, includeRaw bool) string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	sources := uniqueSources(flattenSources(docs, nil))
	if len(sources) == 0 {
		return NoResults
	}

	var b strings.Builder
	b.WriteString("Content from web search:\n\n")
	for _, src := range sources {
		fmt.Fprintf(&b, "Source %s:\n===\n", field(src, "title", "Untitled"))
		fmt.Fprintf(&b, "URL: %s\n===\n", utils.Str(src["url"]))
		fmt.Fprintf(&b, "Most relevant content from source: %s\n===\n", field(src, "content", "No content available"))

		if includeRaw {
			if raw := utils.Str(src["raw_content"]); raw != "" {
				fmt.Fprintf(&b, "Raw Content: %s\n\n", tokenizer.Truncate(g.tokenizer, raw, maxTokens))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func flattenSources(v any, out []map[string]any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		if results, ok := t["results"]; ok {
			return flattenSources(results, out)
		}
		return append(out, t)
	case []map[string]any:
		for _, item := range t {
			out = flattenSources(item, out)
		}
	case []any:
		for _, item := range t {
			out = flattenSources(item, out)
		}
	}
	return out
}

func uniqueSources(sources []map[string]any) []map[string]any {
	seen := make(map[string]struct{}, len(sources))
	out := make([]map[string]any, 0, len(sources))
	for _, src := range sources {
		url := utils.Str(src["url"])
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, src)
	}
	return out
}

// field falls back to def only when key is absent; a present empty value
// renders empty.
func field(src map[string]any, key, def string) string {
	v, ok := src[key]
	if !ok {
		return def
	}
	return utils.Str(v)
}
