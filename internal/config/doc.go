// Package config defines the format-agnostic pipeline model and the Loader
// interface that concrete definition formats (HCL today) translate into.
package config
