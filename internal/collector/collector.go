package collector

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vk/interopqc/internal/config"
	"github.com/vk/interopqc/internal/ctxlog"
	"github.com/vk/interopqc/internal/fsutil"
)

// FileSet is an ordered sequence of absolute file paths, deduplicated and
// sorted lexicographically by full path.
type FileSet []string

// NoMatchError reports that a required file set came up empty.
type NoMatchError struct {
	Root    string
	Pattern string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no files matching %q found under %s", e.Pattern, e.Root)
}

// Inputs are the discovered source file sets for one run.
type Inputs struct {
	Metadata FileSet
	InterOp  FileSet
}

// Collect discovers the metadata and InterOp file sets. interopRoot may be
// empty, in which case the binary scan uses runRoot as well. The metadata
// set must be non-empty; whether an empty InterOp set is fatal is decided
// by the staging configuration.
func Collect(ctx context.Context, runRoot, interopRoot string, rules config.Staging) (*Inputs, error) {
	logger := ctxlog.FromContext(ctx)

	if interopRoot == "" {
		interopRoot = runRoot
	}

	var metadata, interop []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		metadata, err = findFiles(gctx, runRoot, rules.MetadataGlob, "")
		return err
	})
	g.Go(func() error {
		var err error
		interop, err = findFiles(gctx, interopRoot, rules.InterOpGlob, rules.InterOpDir)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	inputs := &Inputs{
		Metadata: normalize(metadata),
		InterOp:  normalize(interop),
	}

	if len(inputs.Metadata) == 0 {
		return nil, &NoMatchError{Root: runRoot, Pattern: rules.MetadataGlob}
	}

	logger.Debug("Input collection complete.",
		"metadata_files", len(inputs.Metadata),
		"interop_files", len(inputs.InterOp),
	)
	return inputs, nil
}

func findFiles(ctx context.Context, root, pattern, underDir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := fsutil.FindFiles(root, pattern, underDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}

// normalize converts paths to absolute form, deduplicates and sorts them.
func normalize(paths []string) FileSet {
	seen := make(map[string]bool, len(paths))
	out := make(FileSet, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
	}
	sort.Strings(out)
	return out
}
