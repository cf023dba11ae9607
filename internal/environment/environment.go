// Package environment abstracts the isolated execution environment of the
// analysis task. Concrete implementations (native process, container
// runtime) are interchangeable behind a single capability: run this command
// line with these resource limits and return the exit status plus captured
// streams.
package environment

import "context"

// Command is one sub-command invocation inside the environment.
type Command struct {
	// Argv is the full command line. The working directory path has
	// already been appended as the positional argument by the executor.
	Argv []string

	// Dir is the staged working directory the command runs in.
	Dir string

	// Image is the container image for containerized environments.
	Image string

	// CPUs and MemoryMB are resource ceilings. Enforcement is up to the
	// environment; the local one treats them as advisory.
	CPUs     int
	MemoryMB int
}

// Result is the outcome of one command invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Environment runs a single command to completion. A non-zero exit status
// is reported through Result, not through the error; the error is reserved
// for infrastructure failures (command could not be started, runtime
// missing). Cancelling the context must terminate the underlying process
// or container.
type Environment interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}
