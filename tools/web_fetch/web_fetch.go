package web_fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout     = 15 * time.Second
	DefaultConcurrency = 4
	MaxBodyBytes       = 5 << 20
	userAgent          = "deepresearch/1.0 (+https://github.com/mohammad-safakhou/deepresearch)"
)

// Fetch downloads pages and extracts their main text with readability.
type Fetch struct {
	Client      *http.Client
	Concurrency int
	Logger      *zap.Logger
}

func NewWebFetcher(timeout time.Duration, concurrency int, logger *zap.Logger) *Fetch {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetch{Client: &http.Client{Timeout: timeout}, Concurrency: concurrency, Logger: logger}
}

// Exec fetches one page. Non-2xx responses are errors.
func (f *Fetch) Exec(ctx context.Context, link string) (models.Result, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return models.Result{}, errors.New("invalid url")
	}
	t0 := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Result{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.Client.Do(req)
	if err != nil {
		return models.Result{URL: link}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Result{URL: link, Status: resp.StatusCode}, fmt.Errorf("fetch %s: %s", link, resp.Status)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, MaxBodyBytes), u)
	if err != nil {
		return models.Result{URL: link, Status: resp.StatusCode}, fmt.Errorf("extract %s: %w", link, err)
	}

	return models.Result{
		URL:      link,
		Title:    strings.TrimSpace(article.Title),
		Byline:   strings.TrimSpace(article.Byline),
		SiteName: article.SiteName,
		Text:     strings.TrimSpace(article.TextContent),
		Status:   resp.StatusCode,
		FetchMS:  int(time.Since(t0) / time.Millisecond),
	}, nil
}

// FetchAll returns the extracted text of every url, index-aligned. Pages that
// fail to load or parse come back empty.
func (f *Fetch) FetchAll(ctx context.Context, urls []string) []string {
	out := make([]string, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.Concurrency)
	for i, link := range urls {
		g.Go(func() error {
			res, err := f.Exec(gctx, link)
			if err != nil {
				f.Logger.Debug("raw content fetch failed", zap.String("url", link), zap.Error(err))
				return nil
			}
			out[i] = res.Text
			return nil
		})
	}
	_ = g.Wait()
	return out
}
