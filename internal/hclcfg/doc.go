// Package hclcfg loads HCL pipeline definition files and translates them
// into the format-agnostic config model. A built-in interop_qc definition
// is embedded and used when no file is supplied.
package hclcfg
