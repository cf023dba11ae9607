package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/interopqc/internal/config"
	"github.com/vk/interopqc/internal/dockerenv"
	"github.com/vk/interopqc/internal/environment"
	"github.com/vk/interopqc/internal/localenv"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
	env    environment.Environment
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and the execution
// environment selected by the configuration.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	var env environment.Environment
	switch appConfig.Environment {
	case "", "local":
		env = localenv.New()
	case "docker":
		env = dockerenv.New()
	default:
		return nil, fmt.Errorf("unknown execution environment %q", appConfig.Environment)
	}
	logger.Debug("Execution environment selected.", "environment", appConfig.Environment)

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		loader: loader,
		env:    env,
	}, nil
}
