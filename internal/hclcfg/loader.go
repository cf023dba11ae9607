package hclcfg

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/interopqc/internal/config"
	"github.com/vk/interopqc/internal/ctxlog"
	"github.com/vk/interopqc/internal/schema"
)

//go:embed default.hcl
var defaultDefinition []byte

// Loader parses HCL pipeline definitions into the agnostic config model.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a ready-to-use HCL loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load implements config.Loader. An empty path loads the embedded
// interop_qc definition.
func (l *Loader) Load(ctx context.Context, path string, vars config.RunVars) (*config.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)

	var file *hcl.File
	var diags hcl.Diagnostics
	if path == "" {
		logger.Debug("Loading embedded pipeline definition.")
		file, diags = l.parser.ParseHCL(defaultDefinition, "default.hcl")
	} else {
		logger.Debug("Loading pipeline definition file.", "path", path)
		file, diags = l.parser.ParseHCLFile(path)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse pipeline definition: %w", diags)
	}

	var root schema.Root
	if diags := gohcl.DecodeBody(file.Body, evalContext(vars), &root); diags.HasErrors() {
		return nil, fmt.Errorf("decode pipeline definition: %w", diags)
	}

	if len(root.Pipelines) != 1 {
		return nil, fmt.Errorf("pipeline definition must contain exactly one pipeline block, found %d", len(root.Pipelines))
	}

	pipeline, err := translate(root.Pipelines[0])
	if err != nil {
		return nil, err
	}
	if err := pipeline.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Pipeline definition loaded.",
		"pipeline", pipeline.Name,
		"execs", len(pipeline.Task.Execs),
		"outputs", len(pipeline.Task.Outputs),
	)
	return pipeline, nil
}

// evalContext exposes the per-run variables to definition expressions, so an
// argv entry can reference run.dir or run.id.
func evalContext(vars config.RunVars) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"run": cty.ObjectVal(map[string]cty.Value{
				"id":  cty.StringVal(vars.RunID),
				"dir": cty.StringVal(vars.WorkDir),
			}),
		},
	}
}
