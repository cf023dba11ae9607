package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "RunInfo.xml"))
	writeFile(t, filepath.Join(root, "nested", "RunParameters.xml"))
	writeFile(t, filepath.Join(root, "InterOp", "ExtractionMetricsOut.bin"))
	writeFile(t, filepath.Join(root, "InterOp", "C1.1", "TileMetricsOut.bin"))
	writeFile(t, filepath.Join(root, "stray.bin"))

	t.Run("matches by basename pattern at any depth", func(t *testing.T) {
		files, err := FindFiles(root, "*.xml", "")
		require.NoError(t, err)
		require.Len(t, files, 2)
	})

	t.Run("underDir restricts matches to a named ancestor", func(t *testing.T) {
		files, err := FindFiles(root, "*.bin", "InterOp")
		require.NoError(t, err)
		require.Len(t, files, 2)
		for _, f := range files {
			require.Contains(t, f, string(filepath.Separator)+"InterOp"+string(filepath.Separator))
		}
	})

	t.Run("no matches returns empty slice", func(t *testing.T) {
		files, err := FindFiles(root, "*.csv", "")
		require.NoError(t, err)
		require.Empty(t, files)
	})

	t.Run("empty pattern is rejected", func(t *testing.T) {
		_, err := FindFiles(root, "", "")
		require.Error(t, err)
	})

	t.Run("malformed pattern is rejected", func(t *testing.T) {
		_, err := FindFiles(root, "[", "")
		require.Error(t, err)
	})

	t.Run("missing root surfaces the walk error", func(t *testing.T) {
		_, err := FindFiles(filepath.Join(root, "does-not-exist"), "*.xml", "")
		require.Error(t, err)
	})
}
