package serper

import (
	"context"
	"errors"
	"net/http"

	"github.com/mohammad-safakhou/deepresearch/internal/httpclient"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
	"github.com/mohammad-safakhou/deepresearch/utils"
)

const endpoint = "https://google.serper.dev/search"

type Search struct {
	ApiKey   string
	Endpoint string
	HTTP     *httpclient.HTTPClient
	Fetcher  models.ContentFetcher
}

func (s Search) Search(ctx context.Context, q string, opts models.Options) (models.Document, error) {
	if s.ApiKey == "" {
		return nil, errors.New("serper api key not set")
	}
	// https://serper.dev/ docs
	payload := map[string]any{"q": q, "num": opts.MaxResults}
	url := s.Endpoint
	if url == "" {
		url = endpoint
	}

	var raw map[string]any
	if err := s.HTTP.DoJSON(ctx, http.MethodPost, url, map[string]string{"X-API-KEY": s.ApiKey}, payload, &raw); err != nil {
		return nil, err
	}

	var out []models.Result
	if items, ok := raw["organic"].([]any); ok {
		for _, it := range items {
			if len(out) >= opts.MaxResults {
				break
			}
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, models.Result{
				Title: utils.Str(m["title"]), URL: utils.Str(m["link"]), Content: utils.Str(m["snippet"]),
			})
		}
	}
	models.AttachRawContent(ctx, s.Fetcher, opts, out)
	return models.NewDocument(q, out), nil
}
