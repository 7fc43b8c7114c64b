package api

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/vk/karelgrid/internal/config"
	"github.com/vk/karelgrid/internal/grader"
)

// ExerciseSummary is one entry of the exercise list.
type ExerciseSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Cases       int    `json:"cases"`
}

func newExerciseSummary(ex *config.Exercise) ExerciseSummary {
	return ExerciseSummary{
		ID:          ex.ID,
		Title:       ex.Title,
		Description: ex.Description,
		Cases:       len(ex.Cases),
	}
}

// GradeResponse is the body returned by the grade endpoint.
type GradeResponse struct {
	ExerciseID string           `json:"exercise_id"`
	Program    string           `json:"program"`
	AllPassed  bool             `json:"all_passed"`
	Passes     []bool           `json:"passes"`
	Outcomes   []grader.Outcome `json:"outcomes"`
}

// Diagnostic is an HCL diagnostic flattened for JSON.
type Diagnostic struct {
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
	Detail   string `json:"detail,omitempty"`
	Range    string `json:"range,omitempty"`
}

// ErrorResponse is the body of every 4xx and 5xx answer.
type ErrorResponse struct {
	Error       string       `json:"error"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

func newDiagnostics(diags hcl.Diagnostics) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		dto := Diagnostic{
			Severity: "error",
			Summary:  d.Summary,
			Detail:   d.Detail,
		}
		if d.Severity == hcl.DiagWarning {
			dto.Severity = "warning"
		}
		if d.Subject != nil {
			dto.Range = d.Subject.String()
		}
		out = append(out, dto)
	}
	return out
}
