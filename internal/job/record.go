package job

import (
	"time"

	"github.com/tvertner/Leonne.net/internal/pipeline"
)

const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// RunRecord describes one pipeline invocation from acceptance to terminal
// outcome. It is mutated only by the goroutine executing the run and
// becomes immutable once Status leaves "running"; the next accepted start
// supersedes it without deleting it.
type RunRecord struct {
	ID         int64
	UUID       string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Stages     []pipeline.StageResult
	Success    bool
	Cause      string
	Warning    string
	Summary    string
}

func (r *RunRecord) Terminal() bool {
	return r.Status != StatusRunning
}
