package config

import (
	"context"
	"fmt"
)

// Staging describes how source files are discovered and where they land
// inside the synthetic working directory. Subdirectory names are fixed by
// the definition, never derived from input content.
type Staging struct {
	// MetadataGlob matches metadata file basenames under the run root.
	MetadataGlob string

	// InterOpGlob matches binary metric file basenames.
	InterOpGlob string

	// InterOpDir is both the source directory name the binary files must
	// live under and the staged subdirectory they are re-rooted into.
	InterOpDir string

	// RequireInterOpFiles makes an empty binary file set fatal. This is a
	// definition-level decision, never inferred from the task.
	RequireInterOpFiles bool
}

// Output is one artifact the task is expected to produce in the working
// directory after a successful attempt.
type Output struct {
	Name     string
	Optional bool
}

// Task is the immutable descriptor for the single analysis task of a run:
// its sub-commands, execution environment, resource limits and retry budget.
type Task struct {
	// Image is the container image for containerized environments. Ignored
	// by the local environment.
	Image string

	// CPUs and MemoryMB are enforced by the execution environment, not by
	// the executor.
	CPUs     int
	MemoryMB int

	// Retries is the number of additional attempts after a failed one.
	// The default of 1 means two total attempts.
	Retries int

	// Execs are the sub-command argvs. Each is invoked once per attempt
	// with the working directory path appended as the positional argument.
	Execs [][]string

	// Outputs classify the declared artifacts as required or optional.
	Outputs []Output
}

// Pipeline is the complete, validated definition of one run.
type Pipeline struct {
	Name    string
	Staging Staging
	Task    Task
}

// Loader translates a pipeline definition file into the agnostic model.
// Implementations receive the run variables (working directory path, run id)
// so definitions can interpolate them into sub-command argvs.
type Loader interface {
	Load(ctx context.Context, path string, vars RunVars) (*Pipeline, error)
}

// RunVars are the per-run values exposed to the definition language.
type RunVars struct {
	RunID   string
	WorkDir string
}

// RequiredOutputs returns the names of all required outputs.
func (t *Task) RequiredOutputs() []string {
	var names []string
	for _, out := range t.Outputs {
		if !out.Optional {
			names = append(names, out.Name)
		}
	}
	return names
}

// Validate checks the invariants a loaded pipeline must satisfy before a
// run starts.
func (p *Pipeline) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("pipeline name is required")
	}
	if p.Staging.MetadataGlob == "" {
		return fmt.Errorf("pipeline %q: staging.metadata_glob is required", p.Name)
	}
	if p.Staging.InterOpGlob == "" {
		return fmt.Errorf("pipeline %q: staging.interop_glob is required", p.Name)
	}
	if p.Staging.InterOpDir == "" {
		return fmt.Errorf("pipeline %q: staging.interop_dir is required", p.Name)
	}
	if len(p.Task.Execs) == 0 {
		return fmt.Errorf("pipeline %q: task must declare at least one exec block", p.Name)
	}
	for i, argv := range p.Task.Execs {
		if len(argv) == 0 {
			return fmt.Errorf("pipeline %q: exec block %d has an empty argv", p.Name, i)
		}
	}
	if len(p.Task.RequiredOutputs()) == 0 {
		return fmt.Errorf("pipeline %q: task must declare at least one required output", p.Name)
	}
	seen := make(map[string]bool, len(p.Task.Outputs))
	for _, out := range p.Task.Outputs {
		if out.Name == "" {
			return fmt.Errorf("pipeline %q: output name must not be empty", p.Name)
		}
		if seen[out.Name] {
			return fmt.Errorf("pipeline %q: duplicate output %q", p.Name, out.Name)
		}
		seen[out.Name] = true
	}
	if p.Task.Retries < 0 {
		return fmt.Errorf("pipeline %q: task retries must not be negative", p.Name)
	}
	return nil
}
