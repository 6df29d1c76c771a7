package web_fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const articleHTML = `<!doctype html><html><head><title>Gophers at work</title></head><body>
<nav>home | about</nav>
<article><h1>Gophers at work</h1>
<p>Gophers build concurrent programs with goroutines and channels. This paragraph is long enough to be
considered the main content of the page by the readability extractor, which prefers dense text blocks.</p>
<p>Errgroup coordinates fan-out work and returns the first error that any branch produced, cancelling the rest.</p>
</article></body></html>`

func TestExecExtractsArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	f := NewWebFetcher(time.Second, 2, zaptest.NewLogger(t))
	res, err := f.Exec(context.Background(), srv.URL+"/post")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Text, "goroutines and channels")
}

func TestExecRejectsBadInput(t *testing.T) {
	f := NewWebFetcher(0, 0, nil)
	_, err := f.Exec(context.Background(), "not a url")
	require.Error(t, err)
}

func TestFetchAllAlignsAndSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	f := NewWebFetcher(time.Second, 2, zaptest.NewLogger(t))
	out := f.FetchAll(context.Background(), []string{srv.URL + "/a", srv.URL + "/missing", "", srv.URL + "/b"})
	require.Len(t, out, 4)
	assert.Contains(t, out[0], "Errgroup")
	assert.Empty(t, out[1])
	assert.Empty(t, out[2])
	assert.Contains(t, out[3], "Errgroup")
}
