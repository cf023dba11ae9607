// Package app wires the pipeline components together: it owns the run
// lifecycle from input collection through staging, task execution and
// publication, plus the application logger.
package app
