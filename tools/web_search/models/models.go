package models

import "context"

// Document is one provider response. Shapes differ between providers; the
// normalized form is {"query": ..., "results": [{"title", "url", "content",
// "raw_content"}]}.
type Document = map[string]any

// Options are the per-query knobs passed to a provider.
type Options struct {
	MaxResults        int    `json:"max_results"`
	Depth             string `json:"depth"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

// Result is one hit of a snippet-only provider before normalization.
type Result struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Content    string `json:"content"`
	RawContent string `json:"raw_content,omitempty"`
}

// ContentFetcher fills in page text for providers that only return snippets.
// The returned slice is aligned with urls; failures yield "".
type ContentFetcher interface {
	FetchAll(ctx context.Context, urls []string) []string
}

// NewDocument builds the normalized document for query.
func NewDocument(query string, results []Result) Document {
	items := make([]any, 0, len(results))
	for _, r := range results {
		item := map[string]any{"title": r.Title, "url": r.URL, "content": r.Content}
		if r.RawContent != "" {
			item["raw_content"] = r.RawContent
		}
		items = append(items, item)
	}
	return Document{"query": query, "results": items}
}

// AttachRawContent fetches page text for every result when requested.
func AttachRawContent(ctx context.Context, fetcher ContentFetcher, opts Options, results []Result) {
	if !opts.IncludeRawContent || fetcher == nil || len(results) == 0 {
		return
	}
	urls := make([]string, len(results))
	for i, r := range results {
		urls[i] = r.URL
	}
	for i, text := range fetcher.FetchAll(ctx, urls) {
		results[i].RawContent = text
	}
}
