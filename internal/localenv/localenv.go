// Package localenv runs task commands as native host processes. Resource
// limits are advisory here; enforcement needs a containerized environment.
package localenv

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/vk/interopqc/internal/ctxlog"
	"github.com/vk/interopqc/internal/environment"
)

// Environment implements environment.Environment with os/exec.
type Environment struct{}

// New creates a local process environment.
func New() *Environment {
	return &Environment{}
}

// Run starts the command in its own process group, captures both streams
// and waits for completion. On context cancellation the whole process group
// is killed so spawned children do not outlive the run.
func (e *Environment) Run(ctx context.Context, command environment.Command) (*environment.Result, error) {
	logger := ctxlog.FromContext(ctx)

	if len(command.Argv) == 0 {
		return nil, fmt.Errorf("localenv: empty argv")
	}
	if command.CPUs > 0 || command.MemoryMB > 0 {
		logger.Debug("Resource limits are advisory in the local environment.",
			"cpus", command.CPUs, "memory_mb", command.MemoryMB)
	}

	cmd := exec.Command(command.Argv[0], command.Argv[1:]...)
	cmd.Dir = command.Dir
	configureCommandProcess(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("localenv: start %q: %w", command.Argv[0], err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		terminateCommandProcess(cmd)
		<-done // Wait for the process to actually exit.
		return nil, ctx.Err()
	case err = <-done:
	}

	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("localenv: run %q: %w", command.Argv[0], err)
		}
		exitCode = exitErr.ExitCode()
		// A signal termination reports -1; fold it into a non-zero code so
		// the caller's failure handling stays uniform.
		if exitCode < 0 {
			exitCode = 128
		}
	}

	return &environment.Result{
		ExitCode: exitCode,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}
