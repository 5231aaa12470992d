package job

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tvertner/Leonne.net/internal/common"
	"github.com/tvertner/Leonne.net/internal/pipeline"
)

func newTestService(t *testing.T, stages []pipeline.Stage) (*Service, common.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := common.Config{
		ArtifactDir:   filepath.Join(dir, "artifacts"),
		RunLogDir:     filepath.Join(dir, "logs"),
		WorkDir:       dir,
		StageTimeout:  10,
		LookbackHours: 24,
	}
	provider := pipeline.NewProvider(stages, zap.NewNop())
	return NewService(cfg, provider, zap.NewNop()), cfg
}

func waitTerminal(t *testing.T, svc *Service) RunRecord {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if record, ok := svc.Status(); ok && record.Terminal() {
			return record
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("run never reached a terminal state")
	return RunRecord{}
}

func TestStartReturnsImmediately(t *testing.T) {
	svc, _ := newTestService(t, []pipeline.Stage{
		{Name: "fetch", Command: []string{"sh", "-c", "sleep 1; echo ok > {{articles.json}}"}, Outputs: []string{"articles.json"}, OnFailure: pipeline.FailAbort},
	})

	began := time.Now()
	record, err := svc.Start()
	require.NoError(t, err)
	assert.Less(t, time.Since(began), 200*time.Millisecond, "start must not wait for the pipeline")
	assert.Equal(t, int64(1), record.ID)
	assert.Equal(t, StatusRunning, record.Status)

	status, ok := svc.Status()
	require.True(t, ok)
	assert.Equal(t, StatusRunning, status.Status)

	// second start while in flight is rejected, run unaffected
	_, err = svc.Start()
	require.Error(t, err)
	assert.Equal(t, common.GenerationBusy, common.ConvertErr(err).ErrCode)

	final := waitTerminal(t, svc)
	assert.Equal(t, StatusSuccess, final.Status)
	assert.True(t, final.Success)
}

func TestRunFailureRecordsCause(t *testing.T) {
	svc, _ := newTestService(t, []pipeline.Stage{
		{Name: "fetch", Command: []string{"sh", "-c", "exit 1"}, OnFailure: pipeline.FailAbort},
		{Name: "generate", Command: []string{"sh", "-c", "true"}, OnFailure: pipeline.FailAbort},
	})

	_, err := svc.Start()
	require.NoError(t, err)

	final := waitTerminal(t, svc)
	assert.Equal(t, StatusFailed, final.Status)
	assert.False(t, final.Success)
	assert.Equal(t, "fetch-failed", final.Cause)
	require.Len(t, final.Stages, 1)
}

func TestRunWritesLogFile(t *testing.T) {
	svc, cfg := newTestService(t, []pipeline.Stage{
		{Name: "fetch", Command: []string{"sh", "-c", "echo fetched > {{articles.json}}"}, Outputs: []string{"articles.json"}, OnFailure: pipeline.FailAbort},
	})

	_, err := svc.Start()
	require.NoError(t, err)
	waitTerminal(t, svc)

	entries, err := os.ReadDir(cfg.RunLogDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "run_")

	logged, err := os.ReadFile(filepath.Join(cfg.RunLogDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "finished")
}

func TestNewRunSupersedesOldRecord(t *testing.T) {
	svc, _ := newTestService(t, []pipeline.Stage{
		{Name: "fetch", Command: []string{"sh", "-c", "echo ok > {{articles.json}}"}, Outputs: []string{"articles.json"}, OnFailure: pipeline.FailAbort},
	})

	first, err := svc.Start()
	require.NoError(t, err)
	waitTerminal(t, svc)

	second, err := svc.Start()
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	final := waitTerminal(t, svc)
	assert.Equal(t, second.ID, final.ID, "status always reflects the newest run")
}

func TestLogStorePrune(t *testing.T) {
	dir := t.TempDir()
	logs := NewLogStore(dir, zap.NewNop())

	fresh, err := logs.Create(time.Now(), "aaaaaaaa-1111")
	require.NoError(t, err)
	fresh.Close()

	stale := filepath.Join(dir, "run_2020-01-01_000000_deadbeef.log")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
	old := time.Now().Add(-15 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	logs.Prune()

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "stale log pruned")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "fresh log retained")
}

func TestStartCronRejectsBadSpec(t *testing.T) {
	svc, _ := newTestService(t, []pipeline.Stage{
		{Name: "fetch", Command: []string{"true"}, OnFailure: pipeline.FailAbort},
	})

	_, err := StartCron("not a cron spec", svc, zap.NewNop())
	assert.Error(t, err)
}

func TestStartCronTriggersRuns(t *testing.T) {
	svc, _ := newTestService(t, []pipeline.Stage{
		{Name: "fetch", Command: []string{"sh", "-c", "echo ok > {{articles.json}}"}, Outputs: []string{"articles.json"}, OnFailure: pipeline.FailAbort},
	})

	c, err := StartCron("@every 100ms", svc, zap.NewNop())
	require.NoError(t, err)
	defer c.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := svc.Status(); ok {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("cron never started a run")
}
