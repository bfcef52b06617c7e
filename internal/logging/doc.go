// Package logging assembles structured slog loggers and formatting helpers
// used across subsync commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so command code tags log lines with
// run identifiers, filenames, and roster rows in a consistent shape. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
