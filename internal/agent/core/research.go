package core

import (
	"context"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/deepresearch/internal/agent/graph"
	"go.uber.org/zap"
)

// buildSection is the research pipeline of one section: generate queries,
// search the web, write. Errors abort the branch. The branch counts its
// steps against its own budget, so the width of a fan-out never uses up the
// run's limit.
func (r *runner) buildSection(ctx context.Context, section Section) (Section, error) {
	t0 := time.Now()
	defer func() { r.deps.Metrics.BranchFinished("research", time.Since(t0)) }()

	ctx, span := tracer.Start(ctx, "report.research_section")
	defer span.End()

	budget := graph.NewStepLimiter(r.limit)
	state := SectionState{Section: section}
	steps := []struct {
		node string
		fn   func(context.Context, *SectionState) error
	}{
		{"generate_queries", r.generateQueries},
		{"search_web", r.searchWeb},
		{"write_section", r.writeSection},
	}
	for _, st := range steps {
		if err := budget.Step(st.node); err != nil {
			return Section{}, endSpan(span, err)
		}
		if err := st.fn(ctx, &state); err != nil {
			return Section{}, endSpan(span, fmt.Errorf("%s %q: %w", st.node, section.Name, err))
		}
	}
	return state.Section, nil
}

func (r *runner) generateQueries(ctx context.Context, st *SectionState) error {
	r.logger.Info("--- Generating Search Queries for Section: " + st.Section.Name + " ---")

	system := fmt.Sprintf(sectionQueryPrompt, st.Section.Description, r.deps.Report.SectionQueries)
	queries, err := invokeStructured[Queries](ctx, r, kindSectionQueries, "Queries", system, sectionQueryUser)
	if err != nil {
		return err
	}
	st.SearchQueries = queries.Strings()

	r.logger.Info("--- Generating Search Queries for Section: "+st.Section.Name+" Completed ---",
		zap.Strings("queries", st.SearchQueries))
	return nil
}

func (r *runner) searchWeb(ctx context.Context, st *SectionState) error {
	r.logger.Info("--- Searching Web for Queries ---", zap.String("section", st.Section.Name))

	docs := r.deps.Search.RunSearchQueries(ctx, st.SearchQueries, r.deps.Report.SectionResultsPerQuery, true)
	st.SourceStr = r.deps.Search.FormatSearchQueryResults(docs, r.deps.Report.SectionMaxTokens, true)

	r.logger.Info("--- Searching Web for Queries Completed ---", zap.String("section", st.Section.Name))
	return ctx.Err()
}

func (r *runner) writeSection(ctx context.Context, st *SectionState) error {
	r.logger.Info("--- Writing Section : " + st.Section.Name + " ---")

	system := fmt.Sprintf(sectionWriterPrompt, st.Section.Name, st.Section.Description, st.SourceStr)
	content, err := r.invoke(ctx, kindWriteSection, system, sectionWriterUser)
	if err != nil {
		return err
	}
	st.Section.Content = content

	r.logger.Info("--- Writing Section : " + st.Section.Name + " Completed ---")
	return nil
}
