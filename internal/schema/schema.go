package schema

// --- Pipeline Definition Structures ---

// Staging represents the `staging` block of a pipeline definition.
type Staging struct {
	MetadataGlob        string `hcl:"metadata_glob,optional"`
	InterOpGlob         string `hcl:"interop_glob,optional"`
	InterOpDir          string `hcl:"interop_dir,optional"`
	RequireInterOpFiles *bool  `hcl:"require_interop_files,optional"`
}

// Exec represents one `exec` block: a single sub-command argv. The working
// directory path is appended by the executor, not written in the definition.
type Exec struct {
	Argv []string `hcl:"argv"`
}

// Output represents one `output` block declaring an expected artifact.
type Output struct {
	Name     string `hcl:"name,label"`
	Optional bool   `hcl:"optional,optional"`
}

// Task represents the `task` block: environment, resource limits, retry
// budget, sub-commands and declared outputs.
type Task struct {
	Image    string    `hcl:"image,optional"`
	CPUs     int       `hcl:"cpus,optional"`
	MemoryMB int       `hcl:"memory_mb,optional"`
	Retries  *int      `hcl:"retries,optional"`
	Execs    []*Exec   `hcl:"exec,block"`
	Outputs  []*Output `hcl:"output,block"`
}

// Pipeline represents a `pipeline` block from a definition file.
type Pipeline struct {
	Name    string   `hcl:"name,label"`
	Staging *Staging `hcl:"staging,block"`
	Task    *Task    `hcl:"task,block"`
}

// Root represents the top-level structure of a pipeline definition file.
type Root struct {
	Pipelines []*Pipeline `hcl:"pipeline,block"`
}
