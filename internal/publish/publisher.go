// Package publish copies a successful run's produced outputs into the
// caller-visible destination directory. The run only counts as done once
// its outputs are externally visible.
package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vk/interopqc/internal/ctxlog"
	"github.com/vk/interopqc/internal/executor"
)

// IOError reports a failed copy into the destination. It is fatal to the
// run even though the task itself succeeded.
type IOError struct {
	Source string
	Target string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("publish %s to %s: %v", e.Source, e.Target, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Publish copies every produced output into destDir, overwriting files of
// the same name. Files already present in the destination that are not part
// of this run's outputs are left untouched.
func Publish(ctx context.Context, produced []executor.ProducedOutput, destDir string) error {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return &IOError{Target: destDir, Err: err}
	}

	for _, out := range produced {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := filepath.Join(destDir, out.Name)
		if err := copyFile(out.Path, target); err != nil {
			return &IOError{Source: out.Path, Target: target, Err: err}
		}
		logger.Debug("Output published.", "name", out.Name, "required", out.Required)
	}

	logger.Info("Outputs published.", "destination", destDir, "count", len(produced))
	return nil
}

func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
