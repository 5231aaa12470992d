package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Outcome is the terminal verdict of one pipeline run. Success tracks only
// abort-policy stages; warn-policy failures surface as Warning with the
// overall flag still true.
type Outcome struct {
	Success bool
	Cause   string // "<stage>-failed" for the first fatal stage
	Warning string
	Summary string
	Stages  []StageResult
}

// Orchestrator walks an ordered stage list strictly sequentially; stage
// N's input is stage N-1's output, so nothing runs in parallel.
type Orchestrator struct {
	runner *Runner
	stages []Stage
	logger *zap.Logger
}

func NewOrchestrator(runner *Runner, stages []Stage, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		runner: runner,
		stages: stages,
		logger: logger,
	}
}

// Execute runs the pipeline to a terminal outcome. onStage, when non-nil,
// observes every StageResult in pipeline order as it is produced.
func (o *Orchestrator) Execute(ctx context.Context, onStage func(StageResult)) Outcome {
	outcome := Outcome{Success: true}

	for _, stage := range o.stages {
		res := o.runner.Run(ctx, stage)
		outcome.Stages = append(outcome.Stages, res)
		if onStage != nil {
			onStage(res)
		}
		o.logger.Info("stage finished",
			zap.String("stage", stage.Name),
			zap.String("status", string(res.Status)),
			zap.String("cause", res.Cause))

		if !res.Failed() {
			continue
		}
		switch stage.OnFailure {
		case FailAbort:
			outcome.Success = false
			outcome.Cause = stage.Name + "-failed"
		case FailWarn:
			outcome.Warning = fmt.Sprintf("%s failed (%s); edition already live", stage.Name, res.Cause)
		}
		if res.Fatal {
			break
		}
	}

	outcome.Summary = summarize(outcome)
	return outcome
}

func summarize(outcome Outcome) string {
	var ok, skipped, failed int
	for _, res := range outcome.Stages {
		switch res.Status {
		case StageSuccess:
			ok++
		case StageSkipped:
			skipped++
		case StageFailed:
			failed++
		}
	}
	s := fmt.Sprintf("%d succeeded, %d skipped, %d failed", ok, skipped, failed)
	if outcome.Cause != "" {
		s = outcome.Cause + ": " + s
	}
	if outcome.Warning != "" {
		s += "; warning: " + outcome.Warning
	}
	return s
}
