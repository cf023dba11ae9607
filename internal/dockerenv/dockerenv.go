// Package dockerenv runs task commands inside a container via the docker
// CLI, with CPU and memory ceilings enforced by the runtime. The staged
// working directory is bind-mounted at a fixed path and workdir references
// in the argv are rewritten to the in-container mount point.
package dockerenv

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/vk/interopqc/internal/ctxlog"
	"github.com/vk/interopqc/internal/environment"
)

// mountPoint is where the working directory appears inside the container.
const mountPoint = "/work"

// Environment implements environment.Environment on top of the docker CLI.
type Environment struct {
	// Binary is the docker client binary, "docker" unless overridden.
	Binary string
}

// New creates a docker-backed environment.
func New() *Environment {
	return &Environment{Binary: "docker"}
}

// Run invokes `docker run --rm` with the configured limits. exec.CommandContext
// kills the client on cancellation and --init ensures the containerized task
// receives the termination.
func (e *Environment) Run(ctx context.Context, command environment.Command) (*environment.Result, error) {
	logger := ctxlog.FromContext(ctx)

	if len(command.Argv) == 0 {
		return nil, fmt.Errorf("dockerenv: empty argv")
	}
	if command.Image == "" {
		return nil, fmt.Errorf("dockerenv: task image is required")
	}

	args := []string{"run", "--rm", "--init",
		"-v", command.Dir + ":" + mountPoint,
		"-w", mountPoint,
	}
	if command.CPUs > 0 {
		args = append(args, "--cpus", strconv.Itoa(command.CPUs))
	}
	if command.MemoryMB > 0 {
		args = append(args, "--memory", fmt.Sprintf("%dm", command.MemoryMB))
	}
	args = append(args, command.Image)
	for _, a := range command.Argv {
		// The task addresses its input by host path; translate to the mount.
		if a == command.Dir {
			a = mountPoint
		}
		args = append(args, a)
	}

	logger.Debug("Starting containerized command.", "image", command.Image, "argv", command.Argv)

	cmd := exec.CommandContext(ctx, e.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("dockerenv: run %s: %w", e.Binary, err)
		}
		exitCode = exitErr.ExitCode()
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
