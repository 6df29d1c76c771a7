package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/deepresearch/internal/agent/core"
	"github.com/mohammad-safakhou/deepresearch/internal/agent/stream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeRunner struct {
	got    core.Input
	report string
	err    error
}

func (f *fakeRunner) RunStreaming(ctx context.Context, in core.Input, w *stream.Writer) (core.Result, error) {
	f.got = in
	w.Emit(stream.Event{Level: "INFO", Message: "--- Generating Report Plan ---"})
	if f.err != nil {
		w.Emit(stream.Event{Level: "ERROR", Message: f.err.Error()})
		w.Finish("", false)
		return core.Result{RunID: "r1"}, f.err
	}
	w.Finish(f.report, f.report != "")
	return core.Result{RunID: "r1", FinalReport: f.report, HasReport: f.report != ""}, nil
}

func newTestServer(t *testing.T, r ReportRunner) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return New(r, Defaults{RecursionLimit: 50, PlanDepth: 8}, reg, zaptest.NewLogger(t))
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestReportStreamsReport(t *testing.T) {
	runner := &fakeRunner{report: "# Report"}
	rec := post(t, newTestServer(t, runner), `{"inputs":"quantum batteries"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "INFO: --- Generating Report Plan ---\nINFO: Final Report\n# Report", rec.Body.String())
	assert.Equal(t, core.Input{Topic: "quantum batteries", RecursionLimit: 50, PlanDepth: 8}, runner.got)
}

func TestReportHonoursRequestLimits(t *testing.T) {
	runner := &fakeRunner{report: "r"}
	rec := post(t, newTestServer(t, runner), `{"inputs":"x","recursion_limit":12,"report_plan_depth":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 12, runner.got.RecursionLimit)
	assert.Equal(t, 3, runner.got.PlanDepth)
}

func TestReportRunErrorEndsWithSentinel(t *testing.T) {
	runner := &fakeRunner{err: errors.New("write_section \"A\": llm down")}
	rec := post(t, newTestServer(t, runner), `{"inputs":"x"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ERROR: write_section \"A\": llm down\n")
	assert.True(t, strings.HasSuffix(body, stream.NoReportSentinel))
}

func TestReportValidation(t *testing.T) {
	h := newTestServer(t, &fakeRunner{})
	cases := map[string]string{
		"missing inputs": `{"recursion_limit":5}`,
		"blank inputs":   `{"inputs":"  "}`,
		"bad limit":      `{"inputs":"x","recursion_limit":0}`,
		"bad depth":      `{"inputs":"x","report_plan_depth":-1}`,
		"not json":       `{"inputs":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := post(t, h, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t, &fakeRunner{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
