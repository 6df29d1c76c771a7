package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// generateReportPlan asks the model for planning queries, searches them and
// asks for the section outline. Any failure yields an empty plan.
func (r *runner) generateReportPlan(ctx context.Context, topic string, depth int) []Section {
	r.logger.Info(fmt.Sprintf("--- Generating Report Plan, report_plan_depth: %d ---", depth))

	sections, err := r.planSections(ctx, topic, depth)
	if err != nil {
		r.logger.Error("Error in generate_report_plan: "+err.Error(), zap.Error(err))
		return nil
	}

	r.logger.Info("--- Generating Report Plan Completed ---", zap.Int("sections", len(sections)))
	return sections
}

func (r *runner) planSections(ctx context.Context, topic string, depth int) ([]Section, error) {
	system := fmt.Sprintf(reportPlanQueryPrompt, topic, DefaultReportStructure, depth)
	queries, err := invokeStructured[Queries](ctx, r, kindPlanQueries, "Queries", system, reportPlanQueryUser)
	if err != nil {
		return nil, fmt.Errorf("plan queries: %w", err)
	}

	docs := r.deps.Search.RunSearchQueries(ctx, queries.Strings(), r.deps.Report.PlanResultsPerQuery, false)
	searchContext := noSearchResults
	if len(docs) == 0 {
		r.logger.Warn("Warning: No search results returned")
	} else {
		searchContext = r.deps.Search.FormatSearchQueryResults(docs, 0, false)
	}

	system = fmt.Sprintf(reportPlanSectionsPrompt, topic, DefaultReportStructure, searchContext)
	out, err := invokeStructured[Sections](ctx, r, kindPlanSections, "Sections", system, reportPlanSectionsUser)
	if err != nil {
		return nil, fmt.Errorf("plan sections: %w", err)
	}
	if err := ValidatePlan(out.Sections); err != nil {
		return nil, err
	}

	sections := make([]Section, len(out.Sections))
	for i, s := range out.Sections {
		s.Content = ""
		sections[i] = s
	}
	return sections, nil
}

// ValidatePlan checks that every section has a unique, non-empty name.
func ValidatePlan(sections []Section) error {
	seen := make(map[string]struct{}, len(sections))
	for i, s := range sections {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return &PlanValidationError{Reason: fmt.Sprintf("section %d has no name", i+1)}
		}
		if _, dup := seen[s.Name]; dup {
			return &PlanValidationError{Reason: fmt.Sprintf("duplicate section name %q", s.Name)}
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}
