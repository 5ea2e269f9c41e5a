package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/flexsweep/internal/model"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer st.Close()

	id := uuid.NewString()
	require.NoError(t, st.BeginRun(ctx, Run{
		ID: id, StartedAt: time.Now(), Mode: "synth", Tool: "vivado", Top: "fifo", Config: "fifo.yaml",
	}))

	var summary model.Summary
	summary.RunID = id
	for _, o := range []model.Outcome{
		{RunID: id, Name: "build_fifo_WIDTH_8", State: "done",
			Params: map[string]string{"WIDTH": "8"}, Result: map[string]string{"WIDTH": "8", "fMax": "300"},
			Timestamp: time.Now(), Duration: 1500 * time.Millisecond},
		{RunID: id, Name: "build_fifo_WIDTH_16", State: "failed",
			Params: map[string]string{"WIDTH": "16"}, Error: "vivado exited with status 1",
			Timestamp: time.Now()},
	} {
		require.NoError(t, st.RecordOutcome(ctx, o))
		summary.Add(o)
	}
	require.NoError(t, st.FinishRun(ctx, summary))

	runs, err := st.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "vivado", runs[0].Tool)
	assert.Equal(t, 2, runs[0].Total)
	assert.Equal(t, 1, runs[0].Failed)
	assert.NotNil(t, runs[0].FinishedAt)

	outcomes, err := st.Outcomes(ctx, id)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "300", outcomes[0].Result["fMax"])
	assert.Equal(t, 1500*time.Millisecond, outcomes[0].Duration)
	assert.Nil(t, outcomes[1].Result)
	assert.Equal(t, "vivado exited with status 1", outcomes[1].Error)
	assert.True(t, outcomes[1].Failed())
}

func TestStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.BeginRun(ctx, Run{ID: "a", StartedAt: time.Now(), Mode: "sim", Tool: "questa", Top: "t", Config: "c"}))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.Runs(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Nil(t, runs[0].FinishedAt)
}
