package job

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tvertner/Leonne.net/internal/common"
	"github.com/tvertner/Leonne.net/internal/pipeline"
)

// State is the process-wide job record: at most one run in flight, and a
// reference to the newest RunRecord. One mutex covers both the start
// check-and-set and the terminal flip, so two concurrent starts can never
// both observe "not in flight".
type State struct {
	mu       sync.Mutex
	nextID   int64
	inFlight bool
	current  *RunRecord
}

func NewState() *State {
	return &State{nextID: 1}
}

// Begin accepts a new run, or rejects with GenerationBusy while one is in
// flight. No record is created on rejection and the in-flight run is
// untouched.
func (s *State) Begin(now time.Time) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return nil, common.NewErrNo(common.GenerationBusy)
	}
	record := &RunRecord{
		ID:        s.nextID,
		UUID:      uuid.NewString(),
		StartedAt: now,
		Status:    StatusRunning,
	}
	s.nextID++
	s.inFlight = true
	s.current = record
	return record, nil
}

// AppendStage adds one result to the in-flight record's ordered log.
func (s *State) AppendStage(res pipeline.StageResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.Terminal() {
		return
	}
	s.current.Stages = append(s.current.Stages, res)
}

// Finish flips the in-flight record to its terminal state and releases
// the single-flight slot.
func (s *State) Finish(outcome pipeline.Outcome, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.Terminal() {
		return
	}
	s.current.FinishedAt = now
	s.current.Success = outcome.Success
	s.current.Cause = outcome.Cause
	s.current.Warning = outcome.Warning
	s.current.Summary = outcome.Summary
	if outcome.Success {
		s.current.Status = StatusSuccess
	} else {
		s.current.Status = StatusFailed
	}
	s.inFlight = false
}

// Snapshot returns a copy of the newest RunRecord. ok is false before the
// first accepted start.
func (s *State) Snapshot() (RunRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return RunRecord{}, false
	}
	record := *s.current
	record.Stages = make([]pipeline.StageResult, len(s.current.Stages))
	copy(record.Stages, s.current.Stages)
	return record, true
}

// InFlight reports whether a run is currently executing.
func (s *State) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
