package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vk/interopqc/internal/collector"
	"github.com/vk/interopqc/internal/config"
	"github.com/vk/interopqc/internal/ctxlog"
	"github.com/vk/interopqc/internal/executor"
	"github.com/vk/interopqc/internal/publish"
	"github.com/vk/interopqc/internal/staging"
)

// Run executes one complete pipeline run: collect inputs, stage the working
// directory, run the analysis task to a terminal state, and publish its
// outputs. The first unrecovered error terminates the run.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Info("Pipeline run started.", "run_dir", a.config.RunDir, "output_dir", a.config.OutputDir)

	workRoot := a.config.WorkRoot
	if workRoot == "" {
		workRoot = os.TempDir()
	}
	workDir := filepath.Join(workRoot, "interopqc-"+runID)

	pipeline, err := a.loader.Load(ctx, a.config.PipelinePath, config.RunVars{
		RunID:   runID,
		WorkDir: workDir,
	})
	if err != nil {
		return fmt.Errorf("load pipeline definition: %w", err)
	}

	inputs, err := collector.Collect(ctx, a.config.RunDir, a.config.InterOpDir, pipeline.Staging)
	if err != nil {
		return fmt.Errorf("collect inputs: %w", err)
	}
	if pipeline.Staging.RequireInterOpFiles && len(inputs.InterOp) == 0 {
		root := a.config.InterOpDir
		if root == "" {
			root = a.config.RunDir
		}
		return fmt.Errorf("collect inputs: %w", &collector.NoMatchError{
			Root:    root,
			Pattern: pipeline.Staging.InterOpGlob,
		})
	}

	wd, err := staging.Stage(ctx, workDir, inputs, staging.Plan{
		MetadataDir: "",
		InterOpDir:  pipeline.Staging.InterOpDir,
	})
	if err != nil {
		return fmt.Errorf("stage working directory: %w", err)
	}
	if !a.config.KeepWorkDir {
		defer func() {
			if err := wd.Remove(); err != nil {
				logger.Warn("Failed to remove working directory.", "root", wd.Root, "error", err)
			}
		}()
	} else {
		defer logger.Info("Working directory kept for inspection.", "root", wd.Root)
	}

	exec := executor.New(a.env)
	result, err := exec.Run(ctx, &pipeline.Task, wd.Root)
	if err != nil {
		if result != nil && len(result.Stderr) > 0 {
			fmt.Fprintf(a.outW, "--- task stderr (last attempt) ---\n%s", result.Stderr)
		}
		return fmt.Errorf("task %s after %d attempt(s): %w", result.State, result.Attempts, err)
	}

	if err := publish.Publish(ctx, result.Produced, a.config.OutputDir); err != nil {
		return fmt.Errorf("publish outputs: %w", err)
	}

	logger.Info("Pipeline run finished.",
		"state", result.State.String(),
		"attempts", result.Attempts,
		"published", len(result.Produced),
	)
	return nil
}
