// Package pipeline sequences one full extract-transform-load pass over
// the spreadsheet: extract nodes, load nodes, extract matrix, transform
// to edges, load edges.
//
// The steps run strictly in that order because the edge load must not
// begin before the node load has committed. Any step failure aborts the
// run; the unit of retry is the whole run, which is always safe to
// repeat since both loads are full replacements.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"graphfeed/internal/domain"
	"graphfeed/internal/repository"
	"graphfeed/internal/source"
	"graphfeed/internal/transform"
)

// Options fixes where the two sheets live inside the workbook and
// which rows/columns are headers.
type Options struct {
	NodesSheet      string
	MatrixSheet     string
	NodesSkipRows   int // banner rows above the node roster
	MatrixHeaderRow int // 0-based row holding the column labels
	MatrixLabelCols int // leading label columns (ordinal, identifier)
}

// Runner executes the pipeline once per call. It holds no state between
// runs; everything is recomputed from the spreadsheet each time.
type Runner struct {
	src    source.Source
	loader repository.Loader
	opts   Options
	log    *slog.Logger
}

// New assembles a runner from its collaborators.
func New(src source.Source, loader repository.Loader, opts Options, log *slog.Logger) *Runner {
	return &Runner{src: src, loader: loader, opts: opts, log: log}
}

// runState carries each step's output to the next within one run.
type runState struct {
	nodeRows   [][]string
	matrixRows [][]string
	nodes      []domain.Node
	edges      []domain.Edge
}

// Run executes one full pipeline pass and returns its record. The
// returned Result is always non-nil; check Result.Err for failure.
func (r *Runner) Run(ctx context.Context) *Result {
	result := &Result{Started: time.Now()}
	state := &runState{}

	steps := []struct {
		step Step
		fn   func(context.Context, *runState) (int, error)
	}{
		{StepExtractNodes, r.extractNodes},
		{StepLoadNodes, r.loadNodes},
		{StepExtractMatrix, r.extractMatrix},
		{StepTransform, r.transformMatrix},
		{StepLoadEdges, r.loadEdges},
	}

	for _, s := range steps {
		started := time.Now()
		rows, err := s.fn(ctx, state)
		sr := StepResult{Step: s.step, Rows: rows, Duration: time.Since(started), Err: err}
		result.Steps = append(result.Steps, sr)

		if err != nil {
			result.Status = StatusFailed
			result.Elapsed = time.Since(result.Started)
			r.log.Error("pipeline step failed",
				"step", s.step, "error", err, "elapsed", result.Elapsed)
			return result
		}
		r.log.Info("pipeline step complete",
			"step", s.step, "rows", rows, "duration", sr.Duration)
	}

	result.Status = StatusComplete
	result.NodesLoaded = len(state.nodes)
	result.EdgesLoaded = len(state.edges)
	result.Elapsed = time.Since(result.Started)
	r.log.Info("pipeline run complete",
		"nodes", result.NodesLoaded, "edges", result.EdgesLoaded, "elapsed", result.Elapsed)
	return result
}

// extractNodes reads and validates the node roster. Validation happens
// here, before loadNodes, so a malformed roster never touches the
// destination.
func (r *Runner) extractNodes(_ context.Context, state *runState) (int, error) {
	rows, err := r.src.Rows(r.opts.NodesSheet)
	if err != nil {
		return 0, err
	}
	state.nodeRows = rows

	nodes, err := transform.BuildNodes(rows, r.opts.NodesSkipRows)
	if err != nil {
		return 0, err
	}
	state.nodes = nodes
	return len(nodes), nil
}

func (r *Runner) loadNodes(ctx context.Context, state *runState) (int, error) {
	return r.loader.ReplaceNodes(ctx, state.nodes)
}

func (r *Runner) extractMatrix(_ context.Context, state *runState) (int, error) {
	rows, err := r.src.Rows(r.opts.MatrixSheet)
	if err != nil {
		return 0, err
	}
	state.matrixRows = rows
	return len(rows), nil
}

func (r *Runner) transformMatrix(_ context.Context, state *runState) (int, error) {
	edges, err := transform.NormalizeMatrix(
		state.matrixRows, r.opts.MatrixHeaderRow, r.opts.MatrixLabelCols,
		domain.NewNodeSet(state.nodes))
	if err != nil {
		return 0, err
	}
	state.edges = edges
	return len(edges), nil
}

func (r *Runner) loadEdges(ctx context.Context, state *runState) (int, error) {
	return r.loader.ReplaceEdges(ctx, state.edges)
}
