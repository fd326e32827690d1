package pipeline

import (
	"errors"
	"fmt"
)

// Stage names a pipeline stage.
type Stage string

const (
	StageLoad  Stage = "load"
	StageClean Stage = "clean"
	StageSave  Stage = "save"
)

// StageError reports which stage of a run failed.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

// Unwrap returns the stage's error for errors.Is/As.
func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage that produced err.
// Returns false if err did not come from a stage.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
