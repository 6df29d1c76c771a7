package tavily

import (
	"context"
	"errors"
	"net/http"

	"github.com/mohammad-safakhou/deepresearch/internal/httpclient"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
)

const endpoint = "https://api.tavily.com/search"

type Search struct {
	ApiKey   string
	Endpoint string
	HTTP     *httpclient.HTTPClient
}

// Search returns Tavily's response as-is; it already carries a results list
// with content and raw_content.
func (s Search) Search(ctx context.Context, q string, opts models.Options) (models.Document, error) {
	if s.ApiKey == "" {
		return nil, errors.New("tavily api key not set")
	}
	// https://docs.tavily.com/documentation/api-reference/endpoint/search
	payload := map[string]any{
		"query":               q,
		"max_results":         opts.MaxResults,
		"search_depth":        opts.Depth,
		"include_answer":      false,
		"include_raw_content": opts.IncludeRawContent,
	}
	url := s.Endpoint
	if url == "" {
		url = endpoint
	}
	var out models.Document
	headers := map[string]string{"Authorization": "Bearer " + s.ApiKey}
	if err := s.HTTP.DoJSON(ctx, http.MethodPost, url, headers, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}
