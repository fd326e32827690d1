package harness

import (
	"github.com/roach88/disaster-etl/internal/ir"
	"github.com/roach88/disaster-etl/internal/pipeline"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Summary is the pipeline summary. Nil when the run failed.
	Summary *pipeline.Summary `json:"summary,omitempty"`

	// Table is the persisted table as read back from the database.
	// Nil when the run failed.
	Table *ir.Table `json:"table,omitempty"`

	// Tables lists every table in the database after the run.
	Tables []string `json:"tables,omitempty"`

	// Progress holds the progress lines the run printed.
	Progress string `json:"progress"`

	// FailedStage is set when the run failed.
	FailedStage pipeline.Stage `json:"failed_stage,omitempty"`

	// Err is the run error, if any.
	Err error `json:"-"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
