package pipeline

import "time"

// Step names the five pipeline steps in execution order.
type Step string

const (
	StepExtractNodes  Step = "extract_nodes"
	StepLoadNodes     Step = "load_nodes"
	StepExtractMatrix Step = "extract_matrix"
	StepTransform     Step = "transform"
	StepLoadEdges     Step = "load_edges"
)

// Status is the terminal state of a run.
type Status string

const (
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// StepResult records one executed step. Steps after a failure never
// execute and have no record.
type StepResult struct {
	Step     Step
	Rows     int
	Duration time.Duration
	Err      error
}

// Result is the per-run record handed to the scheduler: terminal
// status, the step trail, row counts loaded, and total elapsed time.
type Result struct {
	Status      Status
	Steps       []StepResult
	NodesLoaded int
	EdgesLoaded int
	Started     time.Time
	Elapsed     time.Duration
}

// Err returns the error that terminated the run, or nil if it
// completed.
func (r *Result) Err() error {
	if len(r.Steps) == 0 {
		return nil
	}
	return r.Steps[len(r.Steps)-1].Err
}

// FailedStep returns the step at which the run failed, or "" if it
// completed.
func (r *Result) FailedStep() Step {
	if r.Status != StatusFailed || len(r.Steps) == 0 {
		return ""
	}
	return r.Steps[len(r.Steps)-1].Step
}
