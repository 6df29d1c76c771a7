package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/deepresearch/internal/agent/core"
	"github.com/mohammad-safakhou/deepresearch/internal/agent/stream"
	"go.uber.org/zap"
)

// ReportRunner runs one report and frames it on w.
type ReportRunner interface {
	RunStreaming(ctx context.Context, in core.Input, w *stream.Writer) (core.Result, error)
}

// Defaults fill request fields the client left out.
type Defaults struct {
	RecursionLimit int
	PlanDepth      int
}

type ReportHandler struct {
	Runner   ReportRunner
	Defaults Defaults
	Logger   *zap.Logger
}

type reportRequest struct {
	Inputs          *string `json:"inputs"`
	RecursionLimit  *int    `json:"recursion_limit"`
	ReportPlanDepth *int    `json:"report_plan_depth"`
}

func (h *ReportHandler) Register(g *echo.Group) {
	g.POST("/", h.create)
}

// create streams a report run as text/event-stream: progress lines, then
// the report or the no-report sentinel.
func (h *ReportHandler) create(c echo.Context) error {
	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if req.Inputs == nil || strings.TrimSpace(*req.Inputs) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "inputs is required")
	}
	in := core.Input{
		Topic:          *req.Inputs,
		RecursionLimit: h.Defaults.RecursionLimit,
		PlanDepth:      h.Defaults.PlanDepth,
	}
	if req.RecursionLimit != nil {
		if *req.RecursionLimit <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "recursion_limit must be > 0")
		}
		in.RecursionLimit = *req.RecursionLimit
	}
	if req.ReportPlanDepth != nil {
		if *req.ReportPlanDepth <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "report_plan_depth must be > 0")
		}
		in.PlanDepth = *req.ReportPlanDepth
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	w := stream.NewWriter(resp, resp.Flush)
	res, err := h.Runner.RunStreaming(c.Request().Context(), in, w)
	if err != nil {
		h.Logger.Error("report run failed", zap.String("run_id", res.RunID), zap.Error(err))
	}
	if werr := w.Err(); werr != nil {
		h.Logger.Warn("client stream broken", zap.String("run_id", res.RunID), zap.Error(werr))
	}
	return nil
}
