package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/vk/interopqc/internal/config"
	"github.com/vk/interopqc/internal/ctxlog"
	"github.com/vk/interopqc/internal/environment"
)

// ExecutionError classifies a failed attempt: a non-zero exit, a crashed
// process, or a required output missing after a clean exit.
type ExecutionError struct {
	Attempt  int
	Argv     []string
	ExitCode int
	Missing  []string
	Err      error
}

func (e *ExecutionError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("attempt %d: task exited cleanly but did not produce required outputs: %s",
			e.Attempt, strings.Join(e.Missing, ", "))
	case e.Err != nil:
		return fmt.Sprintf("attempt %d: %v", e.Attempt, e.Err)
	default:
		return fmt.Sprintf("attempt %d: %q exited with status %d", e.Attempt, strings.Join(e.Argv, " "), e.ExitCode)
	}
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Executor runs one task to a terminal state inside the given environment.
type Executor struct {
	Env environment.Environment
}

// New creates an executor bound to an execution environment.
func New(env environment.Environment) *Executor {
	return &Executor{Env: env}
}

// Run executes the task against the staged working directory. Each attempt
// invokes every sub-command with the working directory path appended as the
// positional argument, then verifies the required outputs exist on disk.
// Failed attempts are retried with no delay up to the task's budget, reusing
// the working directory as-is; stale partial outputs are not cleaned, so the
// task must be safe to re-run in place. External cancellation aborts without
// further retries.
//
// A non-nil RunResult is returned even on failure so callers can report the
// last attempt's stderr.
func (e *Executor) Run(ctx context.Context, task *config.Task, workDir string) (*RunResult, error) {
	logger := ctxlog.FromContext(ctx)

	result := &RunResult{State: Pending}

	operation := func() error {
		result.Attempts++
		attemptLogger := logger.With("attempt", result.Attempts)

		if err := result.transition(Running); err != nil {
			return backoff.Permanent(err)
		}
		attemptLogger.Info("Task attempt started.", "subcommands", len(task.Execs))

		err := e.runAttempt(ctx, task, workDir, result)
		if err == nil {
			if err := result.transition(Succeeded); err != nil {
				return backoff.Permanent(err)
			}
			attemptLogger.Info("Task attempt succeeded.")
			return nil
		}

		if ctx.Err() != nil {
			// Cancellation is terminal, never retried.
			if terr := result.transition(Aborted); terr != nil {
				return backoff.Permanent(terr)
			}
			attemptLogger.Warn("Task attempt aborted by cancellation.")
			return backoff.Permanent(err)
		}

		if terr := result.transition(Failed); terr != nil {
			return backoff.Permanent(terr)
		}
		attemptLogger.Warn("Task attempt failed.", "error", err)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(task.Retries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		if result.State == Failed {
			// Retry budget exhausted.
			if terr := result.transition(Aborted); terr != nil {
				return result, terr
			}
		}
		logger.Error("Task run aborted.", "attempts", result.Attempts)
		return result, err
	}

	result.Produced = collectProduced(task, workDir)
	logger.Info("Task run succeeded.", "attempts", result.Attempts, "outputs", len(result.Produced))
	return result, nil
}

// runAttempt runs every sub-command once and then applies the silent-failure
// guard: exit status 0 is necessary but not sufficient, the required outputs
// must also exist.
func (e *Executor) runAttempt(ctx context.Context, task *config.Task, workDir string, result *RunResult) error {
	var stdout, stderr bytes.Buffer

	for _, argv := range task.Execs {
		res, err := e.Env.Run(ctx, environment.Command{
			Argv:     append(append([]string{}, argv...), workDir),
			Dir:      workDir,
			Image:    task.Image,
			CPUs:     task.CPUs,
			MemoryMB: task.MemoryMB,
		})
		if err != nil {
			result.Stdout = stdout.Bytes()
			result.Stderr = stderr.Bytes()
			if ctx.Err() != nil {
				return err
			}
			return &ExecutionError{Attempt: result.Attempts, Argv: argv, Err: err}
		}

		stdout.Write(res.Stdout)
		stderr.Write(res.Stderr)

		if res.ExitCode != 0 {
			result.Stdout = stdout.Bytes()
			result.Stderr = stderr.Bytes()
			return &ExecutionError{Attempt: result.Attempts, Argv: argv, ExitCode: res.ExitCode}
		}
	}

	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()

	if missing := missingRequired(task, workDir); len(missing) > 0 {
		return &ExecutionError{Attempt: result.Attempts, Missing: missing}
	}
	return nil
}

// missingRequired returns the required output names absent from the working
// directory.
func missingRequired(task *config.Task, workDir string) []string {
	var missing []string
	for _, name := range task.RequiredOutputs() {
		if _, err := os.Stat(filepath.Join(workDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// collectProduced lists the declared outputs that exist after success.
// Required outputs are guaranteed present at this point; optional ones are
// included only if the task produced them.
func collectProduced(task *config.Task, workDir string) []ProducedOutput {
	var produced []ProducedOutput
	for _, out := range task.Outputs {
		path := filepath.Join(workDir, out.Name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		produced = append(produced, ProducedOutput{
			Name:     out.Name,
			Path:     path,
			Required: !out.Optional,
		})
	}
	return produced
}

// IsCancellation reports whether err stems from external cancellation, as
// opposed to a task failure.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
