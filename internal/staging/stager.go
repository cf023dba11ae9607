package staging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vk/interopqc/internal/collector"
	"github.com/vk/interopqc/internal/ctxlog"
)

// Plan maps each source file set to its fixed target subdirectory within
// the working directory. An empty subdirectory means the root itself.
// Basenames are preserved verbatim so the task sees the names it expects.
type Plan struct {
	MetadataDir string
	InterOpDir  string
}

// CollisionError reports two source files mapping to the same staged path.
// Staging aborts before any execution rather than silently overwriting.
type CollisionError struct {
	Target string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("staging collision: %s and %s both map to %s", e.First, e.Second, e.Target)
}

// IOError reports a link or copy failure while populating the working
// directory. It is an environment problem and is never retried.
type IOError struct {
	Source string
	Target string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("staging %s to %s: %v", e.Source, e.Target, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// WorkDir is the ephemeral staged directory owned by exactly one run.
type WorkDir struct {
	Root string
}

// Remove tears the working directory down after the run.
func (w *WorkDir) Remove() error {
	return os.RemoveAll(w.Root)
}

// Stage creates the working directory at root and populates it according to
// the plan. The directory must not already exist; each run uses a fresh,
// uniquely named one. Entries are hard links where the filesystem allows,
// falling back to symlinks and finally to full copies.
func Stage(ctx context.Context, root string, inputs *collector.Inputs, plan Plan) (*WorkDir, error) {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(root); err == nil {
		return nil, &IOError{Target: root, Err: fmt.Errorf("working directory already exists")}
	}

	targets, err := resolveTargets(root, inputs, plan)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &IOError{Target: root, Err: err}
	}

	wd := &WorkDir{Root: root}
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			wd.Remove()
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(t.target), 0o755); err != nil {
			wd.Remove()
			return nil, &IOError{Source: t.source, Target: t.target, Err: err}
		}
		if err := materialize(t.source, t.target); err != nil {
			wd.Remove()
			return nil, err
		}
	}

	logger.Debug("Working directory staged.", "root", root, "entries", len(targets))
	return wd, nil
}

type mapping struct {
	source string
	target string
}

// resolveTargets computes the full target mapping up front so collisions
// abort staging before anything touches the filesystem.
func resolveTargets(root string, inputs *collector.Inputs, plan Plan) ([]mapping, error) {
	var targets []mapping
	claimed := make(map[string]string)

	claim := func(set collector.FileSet, subdir string) error {
		for _, source := range set {
			target := filepath.Join(root, subdir, filepath.Base(source))
			if first, ok := claimed[target]; ok {
				return &CollisionError{Target: target, First: first, Second: source}
			}
			claimed[target] = source
			targets = append(targets, mapping{source: source, target: target})
		}
		return nil
	}

	if err := claim(inputs.Metadata, plan.MetadataDir); err != nil {
		return nil, err
	}
	if err := claim(inputs.InterOp, plan.InterOpDir); err != nil {
		return nil, err
	}
	return targets, nil
}

// materialize links source to target, preferring non-copying links to avoid
// duplicating large binary files.
func materialize(source, target string) error {
	// Symlink creation succeeds even for a missing source, so check first
	// rather than staging a dangling link.
	if _, err := os.Stat(source); err != nil {
		return &IOError{Source: source, Target: target, Err: err}
	}
	if err := os.Link(source, target); err == nil {
		return nil
	}
	if err := os.Symlink(source, target); err == nil {
		return nil
	}
	if err := copyFile(source, target); err != nil {
		return &IOError{Source: source, Target: target, Err: err}
	}
	return nil
}

func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
