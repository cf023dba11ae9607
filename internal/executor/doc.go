// Package executor governs the lifecycle of the single analysis task: it
// runs the task's sub-commands against the staged working directory inside
// a configured environment, verifies the declared outputs, and retries
// failed attempts up to the task's budget before aborting the run.
package executor
