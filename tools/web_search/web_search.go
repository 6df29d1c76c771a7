package web_search

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/deepresearch/config"
	"github.com/mohammad-safakhou/deepresearch/internal/httpclient"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/brave"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/serper"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/tavily"
)

// WebSearcher runs one query against a search provider.
type WebSearcher interface {
	Search(ctx context.Context, q string, opts models.Options) (models.Document, error)
}

type Provider string

const (
	TavilyProvider Provider = "tavily"
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

var ErrUnsupportedProvider = errors.New("unsupported search provider")

// NewWebSearcher builds the configured provider. fetcher supplies raw page
// content for snippet-only providers and may be nil.
func NewWebSearcher(cfg config.SearchConfig, fetcher models.ContentFetcher) (WebSearcher, error) {
	hc := httpclient.NewHTTPClient(cfg.Timeout, cfg.MaxRetries, 0)
	switch Provider(cfg.Provider) {
	case TavilyProvider:
		return tavily.Search{ApiKey: cfg.TavilyAPIKey, HTTP: hc}, nil
	case SerperProvider:
		return serper.Search{ApiKey: cfg.SerperAPIKey, HTTP: hc, Fetcher: fetcher}, nil
	case BraveProvider:
		return brave.Search{ApiKey: cfg.BraveAPIKey, HTTP: hc, Fetcher: fetcher}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}
