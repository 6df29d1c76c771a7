package core

import (
	"context"
	"time"

	"github.com/mohammad-safakhou/deepresearch/provider"
)

// LLM call kinds, used as metric labels.
const (
	kindPlanQueries    = "plan_queries"
	kindPlanSections   = "plan_sections"
	kindSectionQueries = "section_queries"
	kindWriteSection   = "write_section"
	kindFinalSection   = "final_section"
)

func (r *runner) invoke(ctx context.Context, kind, system, user string) (string, error) {
	t0 := time.Now()
	out, err := r.deps.LLM.Invoke(ctx, system, user)
	r.deps.Metrics.LLMCall(kind, err, time.Since(t0))
	return out, err
}

func invokeStructured[T any](ctx context.Context, r *runner, kind, name, system, user string) (T, error) {
	t0 := time.Now()
	out, err := provider.Structured[T](ctx, r.deps.LLM, system, user, name)
	r.deps.Metrics.LLMCall(kind, err, time.Since(t0))
	return out, err
}
