package collector

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vk/interopqc/internal/config"
)

var testRules = config.Staging{
	MetadataGlob: "*.xml",
	InterOpGlob:  "*.bin",
	InterOpDir:   "InterOp",
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func newRunDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "RunParameters.xml"))
	writeFile(t, filepath.Join(root, "RunInfo.xml"))
	writeFile(t, filepath.Join(root, "InterOp", "TileMetricsOut.bin"))
	writeFile(t, filepath.Join(root, "InterOp", "ExtractionMetricsOut.bin"))
	return root
}

func TestCollect(t *testing.T) {
	t.Parallel()

	t.Run("results are sorted by full path", func(t *testing.T) {
		t.Parallel()
		root := newRunDir(t)

		inputs, err := Collect(context.Background(), root, "", testRules)
		require.NoError(t, err)

		require.True(t, sort.StringsAreSorted(inputs.Metadata))
		require.True(t, sort.StringsAreSorted(inputs.InterOp))
		require.Len(t, inputs.Metadata, 2)
		require.Len(t, inputs.InterOp, 2)
	})

	t.Run("idempotent against an unchanged filesystem", func(t *testing.T) {
		t.Parallel()
		root := newRunDir(t)

		first, err := Collect(context.Background(), root, "", testRules)
		require.NoError(t, err)
		second, err := Collect(context.Background(), root, "", testRules)
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("collector not idempotent (-first +second):\n%s", diff)
		}
	})

	t.Run("binary files outside an InterOp directory are ignored", func(t *testing.T) {
		t.Parallel()
		root := newRunDir(t)
		writeFile(t, filepath.Join(root, "Logs", "stray.bin"))

		inputs, err := Collect(context.Background(), root, "", testRules)
		require.NoError(t, err)
		require.Len(t, inputs.InterOp, 2)
	})

	t.Run("separate interop root is honored", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "RunInfo.xml"))
		interopRoot := t.TempDir()
		writeFile(t, filepath.Join(interopRoot, "InterOp", "QMetricsOut.bin"))

		inputs, err := Collect(context.Background(), root, interopRoot, testRules)
		require.NoError(t, err)
		require.Len(t, inputs.Metadata, 1)
		require.Len(t, inputs.InterOp, 1)
	})

	t.Run("empty metadata set is a NoMatchError", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "InterOp", "TileMetricsOut.bin"))

		_, err := Collect(context.Background(), root, "", testRules)
		var noMatch *NoMatchError
		require.ErrorAs(t, err, &noMatch)
		require.Equal(t, "*.xml", noMatch.Pattern)
	})

	t.Run("empty interop set is not an error here", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "RunInfo.xml"))

		inputs, err := Collect(context.Background(), root, "", testRules)
		require.NoError(t, err)
		require.Empty(t, inputs.InterOp)
	})

	t.Run("cancelled context aborts the scan", func(t *testing.T) {
		t.Parallel()
		root := newRunDir(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Collect(ctx, root, "", testRules)
		require.ErrorIs(t, err, context.Canceled)
	})
}
