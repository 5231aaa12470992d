package job

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tvertner/Leonne.net/internal/common"
	"github.com/tvertner/Leonne.net/internal/pipeline"
)

// Service owns the current job record and runs the orchestrator
// asynchronously, so a start call returns in microseconds no matter how
// long the pipeline takes.
type Service struct {
	state   *State
	stages  *pipeline.Provider
	store   *pipeline.Store
	logs    *LogStore
	workDir string
	timeout time.Duration
	vars    map[string]string
	logger  *zap.Logger
}

func NewService(cfg common.Config, stages *pipeline.Provider, logger *zap.Logger) *Service {
	return &Service{
		state:   NewState(),
		stages:  stages,
		store:   pipeline.NewStore(cfg.ArtifactDir),
		logs:    NewLogStore(cfg.RunLogDir, logger),
		workDir: cfg.WorkDir,
		timeout: time.Duration(cfg.StageTimeout) * time.Second,
		vars: map[string]string{
			"hours":      strconv.Itoa(cfg.LookbackHours),
			"deploy_url": fmt.Sprintf("http://127.0.0.1:%d/deploy", cfg.Port),
		},
		logger: logger,
	}
}

// Start accepts a run and launches it in the background, or rejects with
// GenerationBusy. The returned record is the caller's copy of the freshly
// accepted run.
func (s *Service) Start() (RunRecord, error) {
	record, err := s.state.Begin(time.Now())
	if err != nil {
		return RunRecord{}, err
	}
	accepted := *record
	go s.execute(accepted)
	s.logger.Info("run started", zap.Int64("run_id", accepted.ID), zap.String("uuid", accepted.UUID))
	return accepted, nil
}

// Status returns a snapshot of the newest run. ok is false before the
// first start.
func (s *Service) Status() (RunRecord, bool) {
	return s.state.Snapshot()
}

func (s *Service) execute(record RunRecord) {
	var sink io.Writer
	logFile, err := s.logs.Create(record.StartedAt, record.UUID)
	if err != nil {
		s.logger.Warn("run log unavailable", zap.Error(err))
	} else {
		sink = logFile
		defer logFile.Close()
	}

	// snapshot the stage list once; a config reload never changes a run
	// mid-flight
	stages := s.stages.Stages()
	runner := pipeline.NewRunner(s.store, s.workDir, s.timeout, s.vars, sink, s.logger)
	orchestrator := pipeline.NewOrchestrator(runner, stages, s.logger)

	outcome := orchestrator.Execute(context.Background(), s.state.AppendStage)
	s.state.Finish(outcome, time.Now())

	if sink != nil {
		fmt.Fprintf(sink, "=== run %d finished: %s ===\n", record.ID, outcome.Summary)
	}
	s.logger.Info("run finished",
		zap.Int64("run_id", record.ID),
		zap.Bool("success", outcome.Success),
		zap.String("summary", outcome.Summary))

	s.logs.Prune()
}
