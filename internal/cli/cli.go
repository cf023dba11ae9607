package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/interopqc/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("interopqc", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
interopqc - Stages an Illumina run directory and publishes InterOp QC reports.

Usage:
  interopqc [options] RUN_DIR OUTPUT_DIR

Arguments:
  RUN_DIR
    Path to the sequencing run directory (RunInfo.xml, RunParameters.xml,
    and an InterOp/ subdirectory with binary metric files).
  OUTPUT_DIR
    Destination directory for the published reports.

Options:
`)
		flagSet.PrintDefaults()
	}

	runDirFlag := flagSet.String("run-dir", "", "Path to the sequencing run directory.")
	rFlag := flagSet.String("r", "", "Path to the sequencing run directory (shorthand).")
	outputDirFlag := flagSet.String("output-dir", "", "Destination directory for published reports.")
	oFlag := flagSet.String("o", "", "Destination directory for published reports (shorthand).")
	interopDirFlag := flagSet.String("interop-dir", "", "Optional separate root for InterOp binary files. Defaults to RUN_DIR.")
	pipelineFlag := flagSet.String("pipeline", "", "Path to an HCL pipeline definition. Defaults to the built-in interop_qc pipeline.")
	environmentFlag := flagSet.String("environment", "local", "Execution environment for the analysis task. Options: 'local' or 'docker'.")
	workRootFlag := flagSet.String("work-root", "", "Directory under which per-run working directories are created. Defaults to the system temp dir.")
	keepWorkDirFlag := flagSet.Bool("keep-workdir", false, "Keep the staged working directory after the run for inspection.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	runDir := ""
	if *runDirFlag != "" {
		runDir = *runDirFlag
	} else if *rFlag != "" {
		runDir = *rFlag
	} else if flagSet.NArg() > 0 {
		runDir = flagSet.Arg(0)
	}

	outputDir := ""
	if *outputDirFlag != "" {
		outputDir = *outputDirFlag
	} else if *oFlag != "" {
		outputDir = *oFlag
	} else if flagSet.NArg() > 1 {
		outputDir = flagSet.Arg(1)
	}
	slog.Debug("Paths determined.", "runDir", runDir, "outputDir", outputDir)

	// Missing either required path is a usage request, not an error: print
	// the help text and exit zero without doing any work.
	if runDir == "" || outputDir == "" {
		slog.Debug("Required path missing, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	environment := strings.ToLower(*environmentFlag)
	if environment != "local" && environment != "docker" {
		return nil, false, &ExitError{Code: 2, Message: "invalid environment: must be 'local' or 'docker'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		RunDir:       runDir,
		InterOpDir:   *interopDirFlag,
		OutputDir:    outputDir,
		PipelinePath: *pipelineFlag,
		Environment:  environment,
		WorkRoot:     *workRootFlag,
		KeepWorkDir:  *keepWorkDirFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
