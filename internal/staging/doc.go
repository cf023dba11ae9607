// Package staging materializes the synthetic working directory a run's
// analysis task expects: metadata files at the root and binary metric files
// under a fixed subdirectory, re-rooted from wherever they physically live.
package staging
