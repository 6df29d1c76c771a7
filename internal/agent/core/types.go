package core

import (
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/deepresearch/internal/agent/graph"
)

// ErrEmptyTopic is returned when a run is started without a topic.
var ErrEmptyTopic = errors.New("topic is required")

// Section is one titled part of the report. Name identifies it within a run.
type Section struct {
	Name        string `json:"name" jsonschema:"Name for this section of the report"`
	Description string `json:"description" jsonschema:"Brief overview of the main topics and concepts covered in this section"`
	Plan        string `json:"plan" jsonschema:"Brief plan of how the section will be written"`
	Research    bool   `json:"research" jsonschema:"Whether web research is needed for this section"`
	Content     string `json:"content" jsonschema:"The content of the section; leave empty when planning"`
}

// Sections is the structured output of the section planner.
type Sections struct {
	Sections []Section `json:"sections" jsonschema:"Sections of the report in reading order"`
}

// SearchQuery wraps one web search query as the model returns it.
type SearchQuery struct {
	SearchQuery string `json:"search_query" jsonschema:"Query for web search"`
}

// Queries is the structured output of the query generators.
type Queries struct {
	Queries []SearchQuery `json:"queries" jsonschema:"List of search queries"`
}

// Strings projects the wrapped queries to their text, skipping blanks.
func (q Queries) Strings() []string {
	out := make([]string, 0, len(q.Queries))
	for _, sq := range q.Queries {
		if sq.SearchQuery != "" {
			out = append(out, sq.SearchQuery)
		}
	}
	return out
}

// ReportState is the state of one run. Topic and Sections are fixed once
// planning is done; CompletedSections is the only field written by
// concurrent branches.
type ReportState struct {
	Topic                      string
	Sections                   []Section
	CompletedSections          graph.Accumulator[Section]
	ReportSectionsFromResearch string
	FinalReport                string
}

// SectionState is the private scope of one research pipeline.
type SectionState struct {
	Section       Section
	SearchQueries []string
	SourceStr     string
}

// FinalSectionInput is the scope of one final writer.
type FinalSectionInput struct {
	Section                    Section
	ReportSectionsFromResearch string
}

// Input starts a run. Zero limits fall back to the configured defaults.
type Input struct {
	Topic          string `json:"inputs"`
	RecursionLimit int    `json:"recursion_limit"`
	PlanDepth      int    `json:"report_plan_depth"`
}

// Result is what a run produced. HasReport is false when planning yielded
// no sections.
type Result struct {
	RunID       string
	Sections    []Section
	FinalReport string
	HasReport   bool
}

// PlanValidationError describes a plan the workflow cannot execute.
type PlanValidationError struct {
	Reason string
}

func (e *PlanValidationError) Error() string {
	return "invalid report plan: " + e.Reason
}

// MissingSectionError is returned by the compiler when a planned section has
// no completed entry.
type MissingSectionError struct {
	Name string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("section %q was planned but never completed", e.Name)
}

// DuplicateSectionError is returned by the compiler when a section was
// completed more than once.
type DuplicateSectionError struct {
	Name string
}

func (e *DuplicateSectionError) Error() string {
	return fmt.Sprintf("section %q was completed more than once", e.Name)
}
