package critique

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/umlreview/pkg/ai"
)

// StructuredReview is the machine readable form of a critique.
type StructuredReview struct {
	Summary       string               `json:"summary" jsonschema_description:"Overall assessment of the diagram in two or three sentences"`
	Classes       []ClassReview        `json:"classes" jsonschema_description:"One entry per class of the diagram"`
	Relationships []RelationshipReview `json:"relationships" jsonschema_description:"One entry per relationship of the diagram"`
	Issues        []Issue              `json:"issues" jsonschema_description:"Concrete problems found in the diagram"`
	Improvements  []string             `json:"improvements" jsonschema_description:"Changes that can be applied directly to the diagram"`
}

type ClassReview struct {
	Name       string `json:"name" jsonschema_description:"Class name as it appears in the diagram"`
	Assessment string `json:"assessment" jsonschema_description:"Completeness, naming and responsibilities of the class"`
}

type RelationshipReview struct {
	Type       string `json:"type" jsonschema:"enum=inheritance,enum=aggregation,enum=composition,enum=dependency,enum=association"`
	From       string `json:"from"`
	To         string `json:"to"`
	Assessment string `json:"assessment" jsonschema_description:"Whether type and multiplicities fit the domain"`
}

type Issue struct {
	Category    string `json:"category" jsonschema:"enum=naming,enum=design,enum=completeness,enum=domain"`
	Severity    string `json:"severity" jsonschema:"enum=low,enum=medium,enum=high"`
	Description string `json:"description"`
}

// ReviewReport pairs a structured review with the pipeline output it was
// generated from.
type ReviewReport struct {
	*Report
	Review *StructuredReview `json:"review"`
}

// Review runs the pipeline and asks the completion service for a
// StructuredReview instead of free text.
func (a *Analyzer) Review(ctx context.Context, raw []byte) (*ReviewReport, error) {
	report := a.Prepare(ctx, raw)
	out := &ReviewReport{Report: report}
	if a.client == nil {
		return out, ErrNoClient
	}

	prompt := buildFrom(ai.StructuredReviewPrompt, report.Simplified, report.Matches)

	var review StructuredReview
	err := a.client.GenerateCompletionWithFormat(
		ctx,
		"uml_review",
		"Structured review of a UML class diagram",
		prompt,
		&review,
		a.options...,
	)
	if err != nil {
		requestLogger(ctx).Error("Structured review failed", "err", err)
		if se, ok := ai.AsServiceError(err); ok {
			out.Feedback = se.Error()
			return out, err
		}
		return out, fmt.Errorf("structured review: %w", err)
	}

	out.Review = &review
	out.Feedback = review.Summary
	return out, nil
}
