package inspectcode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// DefaultOutputTail is how much combined output a Result keeps.
const DefaultOutputTail = 64 * 1024

// Result describes a finished run.
type Result struct {
	ExitCode int
	Duration time.Duration
	// Output is the tail of the combined stdout and stderr.
	Output string
}

// Runner runs a command. Executor is the production implementation.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Executor runs inspectcode as a child process.
type Executor struct {
	// Log receives the command line and the outcome; nil disables logging.
	Log *zap.SugaredLogger
	// Stream, when set, also receives the process output as it is produced.
	Stream io.Writer
	// OutputTail bounds Result.Output; zero means DefaultOutputTail.
	OutputTail int
}

// Run starts cmd and waits for it. A non-zero exit status is reported in the
// result, not as an error. Exceeding the timeout kills the process and
// returns an error wrapping context.DeadlineExceeded.
func (e *Executor) Run(ctx context.Context, cmd Command) (*Result, error) {
	log := e.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	if cmd.TimeoutMinutes > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cmd.TimeoutMinutes)*time.Minute)
		defer cancel()
	}

	tailSize := e.OutputTail
	if tailSize <= 0 {
		tailSize = DefaultOutputTail
	}
	tail := newTailBuffer(tailSize)
	var out io.Writer = tail
	if e.Stream != nil {
		out = io.MultiWriter(tail, e.Stream)
	}

	log.Debugw("running inspectcode", "command", cmd.String())
	proc := exec.CommandContext(ctx, cmd.Executable, cmd.Args()...) //nolint:gosec // executable comes from trusted configuration
	proc.Stdout = out
	proc.Stderr = out

	start := time.Now()
	err := proc.Run()
	result := &Result{Duration: time.Since(start), Output: tail.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("inspectcode did not finish: %w", ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("running inspectcode: %w", err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	log.Infow("inspectcode finished", "exitCode", result.ExitCode, "duration", result.Duration)
	return result, nil
}
