package core

import (
	"context"
	"fmt"
	"time"
)

// writeFinalSection drafts a section that needs no research, using the
// formatted research sections as context.
func (r *runner) writeFinalSection(ctx context.Context, in FinalSectionInput) (Section, error) {
	t0 := time.Now()
	defer func() { r.deps.Metrics.BranchFinished("final", time.Since(t0)) }()

	ctx, span := tracer.Start(ctx, "report.final_section")
	defer span.End()

	section := in.Section
	r.logger.Info("--- Writing Final Section: " + section.Name + " ---")

	system := fmt.Sprintf(finalSectionWriterPrompt, section.Name, section.Description, in.ReportSectionsFromResearch)
	content, err := r.invoke(ctx, kindFinalSection, system, finalSectionWriterUser)
	if err != nil {
		return Section{}, endSpan(span, fmt.Errorf("write final section %q: %w", section.Name, err))
	}
	section.Content = content

	r.logger.Info("--- Writing Final Section: " + section.Name + " Completed ---")
	return section, nil
}
