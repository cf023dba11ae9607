// Package collector discovers the source file sets a run needs: metadata
// files under the run root and binary metric files under an InterOp
// directory. Both scans are pure filesystem reads and run concurrently;
// results are deduplicated and sorted so staging order is reproducible.
package collector
