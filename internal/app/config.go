package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RunDir     string // sequencing run root (metadata files)
	InterOpDir string // optional separate root for binary metric files
	OutputDir  string // destination for published reports

	PipelinePath string // HCL definition; empty means the embedded default
	Environment  string // "local" or "docker"
	WorkRoot     string // parent for per-run working directories
	KeepWorkDir  bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RunDir == "" {
		return nil, errors.New("RunDir is a required configuration field and cannot be empty")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OutputDir is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
