package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/deepresearch/config"
	"github.com/mohammad-safakhou/deepresearch/internal/agent/graph"
	"github.com/mohammad-safakhou/deepresearch/internal/agent/stream"
	"github.com/mohammad-safakhou/deepresearch/internal/agent/telemetry"
	"github.com/mohammad-safakhou/deepresearch/provider"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var tracer trace.Tracer = otel.Tracer("deepresearch/internal/agent/core")

// SearchGateway is the search surface the workflow needs.
type SearchGateway interface {
	RunSearchQueries(ctx context.Context, queries []string, numResults int, includeRaw bool) []models.Document
	FormatSearchQueryResults(docs any, maxTokens int, includeRaw bool) string
}

// Deps are the collaborators shared by every run of an Orchestrator.
type Deps struct {
	LLM     provider.LLM
	Search  SearchGateway
	Logger  *zap.Logger
	Metrics *telemetry.Metrics
	Report  config.ReportConfig
	// MaxConcurrentBranches bounds each fan-out; 0 means unbounded.
	MaxConcurrentBranches int
	// StreamLevel is the lowest level mirrored to a run's stream.
	StreamLevel zapcore.LevelEnabler
}

// Orchestrator runs the report workflow: plan, research fan-out, join,
// final-section fan-out, compile.
type Orchestrator struct {
	deps Deps
}

// NewOrchestrator validates deps and fills in defaults.
func NewOrchestrator(deps Deps) (*Orchestrator, error) {
	if deps.LLM == nil {
		return nil, errors.New("orchestrator: LLM is required")
	}
	if deps.Search == nil {
		return nil, errors.New("orchestrator: search gateway is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.StreamLevel == nil {
		deps.StreamLevel = zapcore.InfoLevel
	}
	r := &deps.Report
	if r.RecursionLimit <= 0 {
		r.RecursionLimit = 50
	}
	if r.PlanDepth <= 0 {
		r.PlanDepth = 8
	}
	if r.PlanResultsPerQuery <= 0 {
		r.PlanResultsPerQuery = 5
	}
	if r.SectionQueries <= 0 {
		r.SectionQueries = 5
	}
	if r.SectionResultsPerQuery <= 0 {
		r.SectionResultsPerQuery = 6
	}
	if r.SectionMaxTokens <= 0 {
		r.SectionMaxTokens = 4000
	}
	return &Orchestrator{deps: deps}, nil
}

// runner carries the per-run logger and step budget through the stages.
// steps counts the main flow only; each research branch gets its own
// budget of limit steps.
type runner struct {
	deps   *Deps
	logger *zap.Logger
	limit  int
	steps  *graph.StepLimiter
}

// GenerateReportPlan runs the planning stage on its own. It never fails; an
// empty slice means no report can be produced.
func (o *Orchestrator) GenerateReportPlan(ctx context.Context, topic string, depth int) []Section {
	r := &runner{deps: &o.deps, logger: o.deps.Logger, steps: graph.NewStepLimiter(0)}
	return r.generateReportPlan(ctx, topic, depth)
}

// Run executes one report. Stage logs are mirrored to sink when it is not
// nil. An empty plan is not an error: the result has HasReport false.
func (o *Orchestrator) Run(ctx context.Context, in Input, sink stream.Sink) (Result, error) {
	in.Topic = strings.TrimSpace(in.Topic)
	if in.Topic == "" {
		return Result{}, ErrEmptyTopic
	}
	if in.RecursionLimit <= 0 {
		in.RecursionLimit = o.deps.Report.RecursionLimit
	}
	if in.PlanDepth <= 0 {
		in.PlanDepth = o.deps.Report.PlanDepth
	}

	runID := uuid.NewString()
	logger := o.deps.Logger
	if sink != nil {
		logger = zap.New(zapcore.NewTee(logger.Core(), stream.NewCore(sink, o.deps.StreamLevel)))
	}
	logger = logger.With(zap.String("run_id", runID))
	r := &runner{deps: &o.deps, logger: logger, limit: in.RecursionLimit, steps: graph.NewStepLimiter(in.RecursionLimit)}

	ctx, span := tracer.Start(ctx, "report.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.Int("report.plan_depth", in.PlanDepth),
		attribute.Int("report.recursion_limit", in.RecursionLimit),
	))
	defer span.End()

	start := time.Now()
	o.deps.Metrics.RunStarted()

	res, err := r.run(ctx, in.Topic, in.PlanDepth)
	res.RunID = runID
	status := "report"
	switch {
	case err != nil:
		status = "error"
		logger.Error("report run failed: "+err.Error(), zap.Error(err))
		_ = endSpan(span, err)
	case !res.HasReport:
		status = "empty"
	}
	o.deps.Metrics.RunFinished(status, time.Since(start))
	return res, err
}

func (r *runner) run(ctx context.Context, topic string, depth int) (Result, error) {
	state := &ReportState{Topic: topic}

	if err := r.steps.Step("generate_report_plan"); err != nil {
		return Result{}, err
	}
	planCtx, span := tracer.Start(ctx, "report.plan")
	state.Sections = r.generateReportPlan(planCtx, topic, depth)
	span.SetAttributes(attribute.Int("report.sections", len(state.Sections)))
	span.End()

	if len(state.Sections) == 0 {
		r.logger.Warn("No sections were planned, nothing to write")
		return Result{}, nil
	}

	var research, final []Section
	for _, s := range state.Sections {
		if s.Research {
			research = append(research, s)
		} else {
			final = append(final, s)
		}
	}

	if err := r.steps.Step("section_builder_with_web_search"); err != nil {
		return Result{}, err
	}
	err := graph.Dispatch(ctx, research, r.deps.MaxConcurrentBranches, func(ctx context.Context, s Section) error {
		done, err := r.buildSection(ctx, s)
		if err != nil {
			return err
		}
		state.CompletedSections.Add(done)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if err := r.steps.Step("format_completed_sections"); err != nil {
		return Result{}, err
	}
	r.logger.Info("--- Formatting Completed Sections ---")
	state.ReportSectionsFromResearch = FormatSections(state.CompletedSections.Snapshot())
	r.logger.Info("--- Formatting Completed Sections is Done ---")

	if err := r.steps.Step("write_final_sections"); err != nil {
		return Result{}, err
	}
	inputs := make([]FinalSectionInput, len(final))
	for i, s := range final {
		inputs[i] = FinalSectionInput{Section: s, ReportSectionsFromResearch: state.ReportSectionsFromResearch}
	}
	err = graph.Dispatch(ctx, inputs, r.deps.MaxConcurrentBranches, func(ctx context.Context, in FinalSectionInput) error {
		done, err := r.writeFinalSection(ctx, in)
		if err != nil {
			return err
		}
		state.CompletedSections.Add(done)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if err := r.steps.Step("compile_final_report"); err != nil {
		return Result{}, err
	}
	r.logger.Info("--- Compiling Final Report ---")
	report, err := CompileFinalReport(state.Sections, state.CompletedSections.Snapshot())
	if err != nil {
		return Result{}, fmt.Errorf("compile final report: %w", err)
	}
	state.FinalReport = report
	r.logger.Info("--- Compiling Final Report Done ---")

	return Result{Sections: state.Sections, FinalReport: state.FinalReport, HasReport: true}, nil
}

// RunStreaming runs a report and frames it on w: log lines while running,
// then the report or the no-report sentinel. The run error, if any, has
// already been written to w as an ERROR line when it is returned.
func (o *Orchestrator) RunStreaming(ctx context.Context, in Input, w *stream.Writer) (Result, error) {
	res, err := o.Run(ctx, in, w)
	if errors.Is(err, ErrEmptyTopic) {
		w.Emit(stream.Event{Level: "ERROR", Message: err.Error()})
	}
	w.Finish(res.FinalReport, err == nil && res.HasReport)
	return res, err
}

func endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
