package pipeline

import "time"

type StageStatus string

const (
	StageSuccess StageStatus = "success"
	StageFailed  StageStatus = "failed"
	StageSkipped StageStatus = "skipped"
)

// Failure and skip causes reported upward. "<stage>-failed" run causes are
// derived from the stage name by the orchestrator.
const (
	CauseNonzeroExit  = "nonzero-exit"
	CauseEmptyOutput  = "empty-output"
	CauseMissingInput = "missing-input"
	CauseTimeout      = "timeout"
	CauseEmptyInput   = "empty-input"
	CauseSpawnFailed  = "spawn-failed"
)

// StageResult is one entry of a run's ordered stage log.
type StageResult struct {
	Name       string
	Status     StageStatus
	Cause      string // set when Status is failed or skipped
	Fatal      bool   // abort-policy stage failed
	OutputTail string // last chunk of combined stdout/stderr
	Duration   time.Duration
}

func (r StageResult) Failed() bool {
	return r.Status == StageFailed
}
