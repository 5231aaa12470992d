package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// outputTailLimit bounds how much combined output is carried in a
// StageResult. The full stream still lands in the run log.
const outputTailLimit = 500

// Runner executes one stage as a host subprocess, streams its combined
// output into the run log, and maps the termination condition to a
// StageResult. No retries happen at this layer.
type Runner struct {
	store   *Store
	workDir string
	timeout time.Duration
	vars    map[string]string
	log     io.Writer
	logger  *zap.Logger
}

// NewRunner builds a runner for one pipeline execution. vars are the
// non-artifact placeholders available to stage commands (hours,
// deploy_url). logSink may be nil when no run log is kept.
func NewRunner(store *Store, workDir string, timeout time.Duration, vars map[string]string, logSink io.Writer, logger *zap.Logger) *Runner {
	return &Runner{
		store:   store,
		workDir: workDir,
		timeout: timeout,
		vars:    vars,
		log:     logSink,
		logger:  logger,
	}
}

func (r *Runner) Run(ctx context.Context, stage Stage) StageResult {
	start := time.Now()
	res := StageResult{Name: stage.Name}

	// Inputs that may legitimately be empty skip the stage instead of
	// failing it. "Nothing to merge" is not an error.
	for _, name := range stage.SkipWhenEmpty {
		if !r.store.ExistsAndNonEmpty(name) {
			res.Status = StageSkipped
			res.Cause = CauseEmptyInput
			res.Duration = time.Since(start)
			r.banner("skipping %s: input %s absent or empty", stage.Name, name)
			return res
		}
	}
	for _, name := range stage.Inputs {
		if contains(stage.SkipWhenEmpty, name) {
			continue
		}
		if !r.store.ExistsAndNonEmpty(name) {
			res.Status = StageFailed
			res.Cause = CauseMissingInput
			res.Fatal = stage.OnFailure == FailAbort
			res.Duration = time.Since(start)
			return res
		}
	}

	timeout := r.timeout
	if stage.TimeoutSeconds > 0 {
		timeout = time.Duration(stage.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := make([]string, len(stage.Command))
	for i, arg := range stage.Command {
		argv[i] = r.expand(stage, arg)
	}

	var tail bytes.Buffer
	sink := io.Writer(&tail)
	if r.log != nil {
		sink = io.MultiWriter(r.log, &tail)
	}
	r.banner("=== %s: %s ===", stage.Name, strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.workDir
	cmd.Stdout = sink
	cmd.Stderr = sink
	// stage credentials are passed through, never inspected
	cmd.Env = os.Environ()

	err := cmd.Run()
	res.Duration = time.Since(start)
	res.OutputTail = lastChunk(&tail)

	switch {
	case ctx.Err() == context.DeadlineExceeded:
		res.Status = StageFailed
		res.Cause = CauseTimeout
	case err != nil:
		res.Status = StageFailed
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.Cause = CauseNonzeroExit
		} else {
			res.Cause = CauseSpawnFailed
		}
	default:
		res.Status = StageSuccess
		for _, name := range stage.Outputs {
			if r.store.ExistsAndNonEmpty(name) {
				continue
			}
			// exit 0 with nothing usable behind it
			if stage.OnFailure == FailContinue {
				res.Status = StageSkipped
			} else {
				res.Status = StageFailed
			}
			res.Cause = CauseEmptyOutput
			break
		}
	}

	res.Fatal = stage.OnFailure == FailAbort && res.Status == StageFailed
	if res.Status == StageFailed {
		r.logger.Warn("stage failed",
			zap.String("stage", stage.Name),
			zap.String("cause", res.Cause),
			zap.Duration("duration", res.Duration))
	}
	return res
}

// expand substitutes {{artifact}} references with store paths, plus the
// runner's non-artifact vars.
func (r *Runner) expand(stage Stage, arg string) string {
	for _, name := range stage.Inputs {
		arg = strings.ReplaceAll(arg, "{{"+name+"}}", r.store.Path(name))
	}
	for _, name := range stage.Outputs {
		arg = strings.ReplaceAll(arg, "{{"+name+"}}", r.store.Path(name))
	}
	for key, value := range r.vars {
		arg = strings.ReplaceAll(arg, "{{"+key+"}}", value)
	}
	return arg
}

func (r *Runner) banner(format string, args ...any) {
	if r.log != nil {
		fmt.Fprintf(r.log, format+"\n", args...)
	}
}

func lastChunk(buf *bytes.Buffer) string {
	s := buf.String()
	if len(s) > outputTailLimit {
		s = s[len(s)-outputTailLimit:]
	}
	return s
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
