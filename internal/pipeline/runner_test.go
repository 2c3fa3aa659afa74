package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"graphfeed/internal/domain"
	"graphfeed/internal/repository/sqldb"
	"graphfeed/internal/transform"
)

// fakeSource serves sheets from memory.
type fakeSource map[string][][]string

func (s fakeSource) Rows(sheet string) ([][]string, error) {
	rows, ok := s[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q does not exist", sheet)
	}
	return rows, nil
}

// recordingLoader captures what the runner loads and can fail on
// demand.
type recordingLoader struct {
	nodes     []domain.Node
	edges     []domain.Edge
	nodeCalls int
	edgeCalls int
	failNodes error
	failEdges error
}

func (l *recordingLoader) ReplaceNodes(_ context.Context, nodes []domain.Node) (int, error) {
	l.nodeCalls++
	if l.failNodes != nil {
		return 0, l.failNodes
	}
	l.nodes = nodes
	return len(nodes), nil
}

func (l *recordingLoader) ReplaceEdges(_ context.Context, edges []domain.Edge) (int, error) {
	l.edgeCalls++
	if l.failEdges != nil {
		return 0, l.failEdges
	}
	l.edges = edges
	return len(edges), nil
}

func (l *recordingLoader) Close() error { return nil }

var testOpts = Options{
	NodesSheet:      "Nodes",
	MatrixSheet:     "Matrix",
	NodesSkipRows:   1,
	MatrixHeaderRow: 0,
	MatrixLabelCols: 2,
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// twoNodeSource is the reference scenario: N1->N2 weight 5, N2->N1
// zero, diagonal absent.
func twoNodeSource() fakeSource {
	return fakeSource{
		"Nodes": {
			{"ordinal", "id", "name"},
			{"1", "N1", "Alpha"},
			{"2", "N2", "Beta"},
		},
		"Matrix": {
			{"", "", "N1", "N2"},
			{"1", "N1", "", "5"},
			{"2", "N2", "0", ""},
		},
	}
}

func TestRunComplete(t *testing.T) {
	loader := &recordingLoader{}
	result := New(twoNodeSource(), loader, testOpts, testLogger()).Run(context.Background())

	require.NoError(t, result.Err())
	assert.Equal(t, StatusComplete, result.Status)
	assert.Equal(t, 2, result.NodesLoaded)
	assert.Equal(t, 1, result.EdgesLoaded)
	assert.Len(t, result.Steps, 5)

	assert.Equal(t, []domain.Node{
		{ID: "N1", Ordinal: 1, Name: "Alpha"},
		{ID: "N2", Ordinal: 2, Name: "Beta"},
	}, loader.nodes)
	assert.Equal(t, []domain.Edge{{From: "N1", To: "N2", Weight: 5}}, loader.edges)
}

func TestRunStepOrder(t *testing.T) {
	result := New(twoNodeSource(), &recordingLoader{}, testOpts, testLogger()).Run(context.Background())

	var steps []Step
	for _, sr := range result.Steps {
		steps = append(steps, sr.Step)
	}
	assert.Equal(t, []Step{
		StepExtractNodes, StepLoadNodes, StepExtractMatrix, StepTransform, StepLoadEdges,
	}, steps)
}

func TestRunValidationFailureLoadsNothing(t *testing.T) {
	src := twoNodeSource()
	src["Nodes"] = [][]string{
		{"ordinal", "id", "name"},
		{"1", "N1", "Alpha"},
		{"2", "N1", "Beta"}, // duplicate identifier
	}

	loader := &recordingLoader{}
	result := New(src, loader, testOpts, testLogger()).Run(context.Background())

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, StepExtractNodes, result.FailedStep())
	assert.ErrorIs(t, result.Err(), transform.ErrValidation)
	assert.Zero(t, loader.nodeCalls)
	assert.Zero(t, loader.edgeCalls)
}

func TestRunSchemaMismatchSkipsEdgeLoad(t *testing.T) {
	src := twoNodeSource()
	src["Matrix"] = [][]string{
		{"", "", "N1", "N3"}, // N3 is not a known node
		{"1", "N1", "", ""},
		{"2", "N2", "", ""},
	}

	loader := &recordingLoader{}
	result := New(src, loader, testOpts, testLogger()).Run(context.Background())

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, StepTransform, result.FailedStep())
	assert.ErrorIs(t, result.Err(), transform.ErrSchemaMismatch)

	// Nodes committed before the transform failed; edges untouched.
	assert.Equal(t, 1, loader.nodeCalls)
	assert.Zero(t, loader.edgeCalls)
}

func TestRunBadWeightSkipsEdgeLoad(t *testing.T) {
	src := twoNodeSource()
	src["Matrix"] = [][]string{
		{"", "", "N1", "N2"},
		{"1", "N1", "", "high"},
		{"2", "N2", "", ""},
	}

	loader := &recordingLoader{}
	result := New(src, loader, testOpts, testLogger()).Run(context.Background())

	assert.Equal(t, StatusFailed, result.Status)
	assert.ErrorIs(t, result.Err(), transform.ErrValueRange)
	assert.Equal(t, 1, loader.nodeCalls)
	assert.Zero(t, loader.edgeCalls)
}

func TestRunNodeLoadFailureAbortsRun(t *testing.T) {
	loader := &recordingLoader{failNodes: fmt.Errorf("destination gone")}
	result := New(twoNodeSource(), loader, testOpts, testLogger()).Run(context.Background())

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, StepLoadNodes, result.FailedStep())
	assert.Len(t, result.Steps, 2)
	assert.Zero(t, loader.edgeCalls)
}

func TestRunMissingSheet(t *testing.T) {
	loader := &recordingLoader{}
	result := New(fakeSource{}, loader, testOpts, testLogger()).Run(context.Background())

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, StepExtractNodes, result.FailedStep())
	assert.Zero(t, loader.nodeCalls)
}

// TestRunTwiceIsIdempotent runs the full pipeline twice against a real
// SQLite destination and verifies the second pass leaves identical
// contents.
func TestRunTwiceIsIdempotent(t *testing.T) {
	loader, err := sqldb.New("sqlite", filepath.Join(t.TempDir(), "dest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { loader.Close() })

	runner := New(twoNodeSource(), loader, testOpts, testLogger())

	first := runner.Run(context.Background())
	require.NoError(t, first.Err())
	second := runner.Run(context.Background())
	require.NoError(t, second.Err())

	assert.Equal(t, first.NodesLoaded, second.NodesLoaded)
	assert.Equal(t, first.EdgesLoaded, second.EdgesLoaded)
	assert.Equal(t, StatusComplete, second.Status)
}
