package hclcfg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vk/interopqc/internal/config"
)

var testVars = config.RunVars{RunID: "test-run", WorkDir: "/work/test-run"}

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmbeddedDefault(t *testing.T) {
	t.Parallel()

	pipeline, err := NewLoader().Load(context.Background(), "", testVars)
	require.NoError(t, err)

	require.Equal(t, "interop_qc", pipeline.Name)
	require.Equal(t, "InterOp", pipeline.Staging.InterOpDir)
	require.True(t, pipeline.Staging.RequireInterOpFiles)
	require.Equal(t, 1, pipeline.Task.Retries)
	require.Len(t, pipeline.Task.Execs, 4)

	wantRequired := []string{"run_metrics.json", "run_metrics.html", "percent_base.pdf", "max_intensity.pdf"}
	if diff := cmp.Diff(wantRequired, pipeline.Task.RequiredOutputs()); diff != "" {
		t.Errorf("required outputs mismatch (-want +got):\n%s", diff)
	}

	var optional []string
	for _, out := range pipeline.Task.Outputs {
		if out.Optional {
			optional = append(optional, out.Name)
		}
	}
	require.Equal(t, []string{"occupancy.pdf"}, optional)
}

func TestLoadFileWithRunInterpolation(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, `
pipeline "custom" {
  task {
    retries = 3
    exec { argv = ["analyze", "--run-id", run.id] }
    output "summary.json" {}
  }
}
`)

	pipeline, err := NewLoader().Load(context.Background(), path, testVars)
	require.NoError(t, err)

	require.Equal(t, "custom", pipeline.Name)
	require.Equal(t, 3, pipeline.Task.Retries)
	require.Equal(t, [][]string{{"analyze", "--run-id", "test-run"}}, pipeline.Task.Execs)

	// Omitted staging block falls back to defaults.
	require.Equal(t, "*.xml", pipeline.Staging.MetadataGlob)
	require.Equal(t, "InterOp", pipeline.Staging.InterOpDir)
	require.True(t, pipeline.Staging.RequireInterOpFiles)
}

func TestLoadStagingOverrides(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, `
pipeline "custom" {
  staging {
    metadata_glob         = "*.json"
    interop_glob          = "*.dat"
    interop_dir           = "Metrics"
    require_interop_files = false
  }
  task {
    exec { argv = ["analyze"] }
    output "summary.json" {}
  }
}
`)

	pipeline, err := NewLoader().Load(context.Background(), path, testVars)
	require.NoError(t, err)

	want := config.Staging{
		MetadataGlob:        "*.json",
		InterOpGlob:         "*.dat",
		InterOpDir:          "Metrics",
		RequireInterOpFiles: false,
	}
	if diff := cmp.Diff(want, pipeline.Staging); diff != "" {
		t.Errorf("staging mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalidDefinitions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		src  string
	}{
		{
			name: "no pipeline block",
			src:  ``,
		},
		{
			name: "two pipeline blocks",
			src: `
pipeline "one" {
  task {
    exec { argv = ["a"] }
    output "x" {}
  }
}
pipeline "two" {
  task {
    exec { argv = ["a"] }
    output "x" {}
  }
}
`,
		},
		{
			name: "missing task block",
			src:  `pipeline "p" {}`,
		},
		{
			name: "no exec blocks",
			src: `
pipeline "p" {
  task {
    output "x" {}
  }
}
`,
		},
		{
			name: "no required outputs",
			src: `
pipeline "p" {
  task {
    exec { argv = ["a"] }
    output "x" { optional = true }
  }
}
`,
		},
		{
			name: "duplicate outputs",
			src: `
pipeline "p" {
  task {
    exec { argv = ["a"] }
    output "x" {}
    output "x" {}
  }
}
`,
		},
		{
			name: "negative retries",
			src: `
pipeline "p" {
  task {
    retries = -1
    exec { argv = ["a"] }
    output "x" {}
  }
}
`,
		},
		{
			name: "malformed HCL",
			src:  `pipeline "p" {`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeDefinition(t, tc.src)
			_, err := NewLoader().Load(context.Background(), path, testVars)
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFileIsAnError(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"), testVars)
	require.Error(t, err)
}
