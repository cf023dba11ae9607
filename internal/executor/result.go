package executor

// ProducedOutput is one artifact found in the working directory after a
// successful run, with its declared classification.
type ProducedOutput struct {
	Name     string
	Path     string
	Required bool
}

// RunResult is the terminal record of one task run: its final state, how
// many attempts were made, which declared outputs were actually produced,
// and the captured streams of the last attempt.
type RunResult struct {
	State    State
	Attempts int
	Produced []ProducedOutput

	// Stdout and Stderr belong to the last attempt, successful or not, so
	// a failing run can surface the task's own diagnostics.
	Stdout []byte
	Stderr []byte
}
