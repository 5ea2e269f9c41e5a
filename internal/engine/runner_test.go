package engine

import (
	"context"
	"encoding/csv"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/flexsweep/internal/model"
	"github.com/daryltucker/flexsweep/internal/output"
	"github.com/daryltucker/flexsweep/internal/sweep"
)

func newSweep(t *testing.T, b Backend) (*Sweep, string) {
	t.Helper()
	dir := t.TempDir()
	ws, err := OpenWorkspace(filepath.Join(dir, "build"))
	require.NoError(t, err)
	csvPath := filepath.Join(dir, "results.csv")
	return &Sweep{
		Backend:   b,
		Workspace: ws,
		Top:       "fifo",
		RunID:     "run-1",
		Table:     output.NewTable(csvPath),
	}, csvPath
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func valueIs(name, value string) func(model.Combination) bool {
	return func(c model.Combination) bool {
		v, _ := c.Get(name)
		return v == value
	}
}

func TestSweepSampledEndToEnd(t *testing.T) {
	plan := sweep.Plan{
		Parameters: model.ParameterSet{
			{Name: "WIDTH", Values: []string{"8", "16"}},
			{Name: "DEPTH", Values: []string{"4"}},
		},
		Sample: 1,
	}
	seq, err := plan.Build(rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	require.Len(t, seq, 1)

	s, csvPath := newSweep(t, &stubBackend{fields: []model.Param{{Name: "freq", Value: "100.0"}}})
	summary, err := s.Run(context.Background(), seq)
	require.NoError(t, err)
	assert.True(t, summary.OK())

	rows := readRows(t, csvPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"WIDTH", "DEPTH", "freq"}, rows[0])
	assert.Contains(t, [][]string{{"8", "4", "100.0"}, {"16", "4", "100.0"}}, rows[1])
}

func TestExecuteStates(t *testing.T) {
	c := model.Combination{{Name: "A", Value: "1"}}
	tests := []struct {
		name     string
		failIn   State
		want     State
		wantKind error
	}{
		{"done", StateDone, StateDone, nil},
		{"prepare", StatePrepare, StateFailed, nil},
		{"invoke", StateInvoke, StateFailed, model.ErrToolInvocation},
		{"parse", StateParse, StateFailed, model.ErrResultParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &stubBackend{
				fields:   []model.Param{{Name: "fMax", Value: "1"}},
				failIn:   tt.failIn,
				failWhen: func(model.Combination) bool { return true },
			}
			s, _ := newSweep(t, b)
			step := s.Execute(context.Background(), c)
			assert.Equal(t, tt.want, step.State)
			if tt.want == StateFailed {
				assert.Equal(t, tt.failIn, step.FailedIn)
				require.Error(t, step.Err)
			}
			if tt.wantKind != nil {
				assert.True(t, errors.Is(step.Err, tt.wantKind))
			}
		})
	}
}

func TestSweepContinuesPastFailures(t *testing.T) {
	seq := sweep.Product(model.ParameterSet{{Name: "A", Values: []string{"1", "2", "3", "4"}}})
	b := &stubBackend{
		fields: []model.Param{{Name: "fMax", Value: "200"}},
		failIn: StateInvoke,
		failWhen: func(c model.Combination) bool {
			return valueIs("A", "2")(c) || valueIs("A", "3")(c)
		},
	}
	b2 := *b
	b2.failIn = StateParse

	s, csvPath := newSweep(t, b)
	journalPath := filepath.Join(t.TempDir(), "sweep.jsonl")
	j, err := output.NewJournal(journalPath)
	require.NoError(t, err)
	s.Journal = j

	summary, err := s.Run(context.Background(), seq)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Passed)
	require.Len(t, summary.Failures, 2)
	assert.Equal(t, "build_fifo_A_2", summary.Failures[0].Name)
	assert.Equal(t, "build_fifo_A_3", summary.Failures[1].Name)
	assert.Equal(t, 4, b.prepared)

	assert.Equal(t, [][]string{{"A", "fMax"}, {"1", "200"}, {"4", "200"}}, readRows(t, csvPath))

	// parse failures drop the row the same way
	s2, csvPath2 := newSweep(t, &b2)
	summary, err = s2.Run(context.Background(), seq)
	require.NoError(t, err)
	assert.Len(t, summary.Failures, 2)
	assert.Len(t, readRows(t, csvPath2), 3)
}

type recorded struct {
	outcomes []model.Outcome
}

func (r *recorded) RecordOutcome(_ context.Context, o model.Outcome) error {
	r.outcomes = append(r.outcomes, o)
	return nil
}

func TestSweepRecordsOutcomes(t *testing.T) {
	seq := sweep.Product(model.ParameterSet{{Name: "A", Values: []string{"1", "2"}}})
	b := &stubBackend{
		fields:   []model.Param{{Name: "fMax", Value: "50"}},
		failIn:   StateInvoke,
		failWhen: valueIs("A", "2"),
	}
	s, _ := newSweep(t, b)
	history := &recorded{}
	s.History = history

	_, err := s.Run(context.Background(), seq)
	require.NoError(t, err)
	require.Len(t, history.outcomes, 2)

	ok, failed := history.outcomes[0], history.outcomes[1]
	assert.Equal(t, "done", ok.State)
	assert.Equal(t, "50", ok.Result["fMax"])
	assert.Equal(t, "run-1", ok.RunID)
	assert.Equal(t, "failed", failed.State)
	assert.Contains(t, failed.Error, "status 1")
	assert.Equal(t, map[string]string{"A": "2"}, failed.Params)
}

func TestSweepStopsWhenCancelled(t *testing.T) {
	seq := sweep.Product(model.ParameterSet{{Name: "A", Values: []string{"1", "2"}}})
	s, _ := newSweep(t, &stubBackend{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := s.Run(ctx, seq)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Total)
}

func TestSweepFailureRecorderWritesRow(t *testing.T) {
	exec := &fakeExecutor{exitCode: 1}
	b := NewQuesta(Options{Top: "fifo", Files: []string{"/src/fifo.sv"}, Exec: exec})
	s, csvPath := newSweep(t, b)

	seq := sweep.Product(model.ParameterSet{{Name: "WIDTH", Values: []string{"8"}}})
	summary, err := s.Run(context.Background(), seq)
	require.NoError(t, err)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "build_fifo_WIDTH_8", summary.Failures[0].Name)
	assert.Equal(t, [][]string{{"WIDTH", "status"}, {"8", "fail"}}, readRows(t, csvPath))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "prepare", StatePrepare.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(99).String())
}
