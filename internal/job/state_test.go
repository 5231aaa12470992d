package job

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvertner/Leonne.net/internal/common"
	"github.com/tvertner/Leonne.net/internal/pipeline"
)

func TestBeginRejectsWhileInFlight(t *testing.T) {
	state := NewState()

	first, err := state.Begin(time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ID)

	_, err = state.Begin(time.Now())
	require.Error(t, err)
	assert.Equal(t, common.GenerationBusy, common.ConvertErr(err).ErrCode)

	// the rejected start left the in-flight run untouched
	snapshot, ok := state.Snapshot()
	require.True(t, ok)
	assert.Equal(t, int64(1), snapshot.ID)
	assert.Equal(t, StatusRunning, snapshot.Status)
}

func TestBeginAfterFinishAllocatesNextID(t *testing.T) {
	state := NewState()

	first, err := state.Begin(time.Now())
	require.NoError(t, err)
	state.Finish(pipeline.Outcome{Success: true}, time.Now())

	second, err := state.Begin(time.Now())
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
	assert.NotEqual(t, first.UUID, second.UUID)
}

func TestConcurrentBeginSingleFlight(t *testing.T) {
	state := NewState()

	const attempts = 50
	var accepted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := state.Begin(time.Now()); err == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), accepted.Load(), "exactly one start wins")
}

func TestFinishFlipsTerminalState(t *testing.T) {
	state := NewState()
	_, err := state.Begin(time.Now())
	require.NoError(t, err)

	state.AppendStage(pipeline.StageResult{Name: "fetch", Status: pipeline.StageSuccess})
	state.AppendStage(pipeline.StageResult{Name: "generate", Status: pipeline.StageFailed, Cause: pipeline.CauseNonzeroExit, Fatal: true})
	state.Finish(pipeline.Outcome{Success: false, Cause: "generate-failed", Summary: "generate-failed"}, time.Now())

	assert.False(t, state.InFlight())
	snapshot, ok := state.Snapshot()
	require.True(t, ok)
	assert.Equal(t, StatusFailed, snapshot.Status)
	assert.Equal(t, "generate-failed", snapshot.Cause)
	require.Len(t, snapshot.Stages, 2)
	assert.Equal(t, "fetch", snapshot.Stages[0].Name)
}

func TestTerminalRecordIsImmutable(t *testing.T) {
	state := NewState()
	_, err := state.Begin(time.Now())
	require.NoError(t, err)
	state.Finish(pipeline.Outcome{Success: true}, time.Now())

	// late appends and finishes from a stale goroutine are no-ops
	state.AppendStage(pipeline.StageResult{Name: "ghost"})
	state.Finish(pipeline.Outcome{Success: false, Cause: "ghost-failed"}, time.Now())

	snapshot, _ := state.Snapshot()
	assert.Empty(t, snapshot.Stages)
	assert.Equal(t, StatusSuccess, snapshot.Status)
}

func TestSnapshotBeforeFirstRun(t *testing.T) {
	state := NewState()
	_, ok := state.Snapshot()
	assert.False(t, ok)
}

func TestSnapshotIsACopy(t *testing.T) {
	state := NewState()
	_, err := state.Begin(time.Now())
	require.NoError(t, err)
	state.AppendStage(pipeline.StageResult{Name: "fetch", Status: pipeline.StageSuccess})

	snapshot, ok := state.Snapshot()
	require.True(t, ok)
	snapshot.Stages[0].Name = "mutated"

	fresh, _ := state.Snapshot()
	assert.Equal(t, "fetch", fresh.Stages[0].Name)
}
