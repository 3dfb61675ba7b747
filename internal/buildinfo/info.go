// Package buildinfo carries release metadata stamped in at build time.
package buildinfo

var (
	// Version is set via -ldflags at release build.
	Version = "dev"
	// Commit is set via -ldflags at release build.
	Commit = "none"
	// Date is set via -ldflags at release build.
	Date = "unknown"
)
