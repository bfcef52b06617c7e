// Package testsupport provides helpers shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"subsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It fills the required identifiers and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Sheet.SpreadsheetID = "test-sheet"
	cfg.Sheet.Tab = "Roster"
	cfg.Sheet.FirstNameColumn = "B"
	cfg.Sheet.LastNameColumn = "C"
	cfg.Storage.FolderID = "test-folder"
	cfg.Storage.TokenFile = filepath.Join(base, "token.json")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SummaryFile = filepath.Join(base, "data", "upload_summary.txt")
	cfg.Paths.ReportFile = filepath.Join(base, "data", "matches.csv")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithoutNameColumns disables the name scan strategy on the test config.
func WithoutNameColumns() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sheet.FirstNameColumn = ""
		cfg.Sheet.LastNameColumn = ""
	}
}
