package brave

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mohammad-safakhou/deepresearch/internal/httpclient"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
	"github.com/mohammad-safakhou/deepresearch/utils"
)

const endpoint = "https://api.search.brave.com/res/v1/web/search"

type Search struct {
	ApiKey   string
	Endpoint string
	HTTP     *httpclient.HTTPClient
	Fetcher  models.ContentFetcher
}

func (s Search) Search(ctx context.Context, q string, opts models.Options) (models.Document, error) {
	if s.ApiKey == "" {
		return nil, errors.New("brave api key not set")
	}
	// https://api.search.brave.com/app/documentation/web-search
	base := s.Endpoint
	if base == "" {
		base = endpoint
	}
	url := fmt.Sprintf("%s?q=%s&count=%d", base, utils.UrlQuery(q), opts.MaxResults)
	headers := map[string]string{
		"Accept":               "application/json",
		"X-Subscription-Token": s.ApiKey,
	}
	var raw struct {
		Web struct {
			Results []struct {
				Title   string `json:"title"`
				URL     string `json:"url"`
				Snippet string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := s.HTTP.DoJSON(ctx, http.MethodGet, url, headers, nil, &raw); err != nil {
		return nil, err
	}
	var out []models.Result
	for i, r := range raw.Web.Results {
		if i >= opts.MaxResults {
			break
		}
		out = append(out, models.Result{Title: r.Title, URL: r.URL, Content: r.Snippet})
	}
	models.AttachRawContent(ctx, s.Fetcher, opts, out)
	return models.NewDocument(q, out), nil
}
