package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Sheet locates the roster inside a spreadsheet: which tab, which columns
// hold identities and links, and the first data row.
type Sheet struct {
	SpreadsheetID   string `toml:"spreadsheet_id"`
	Tab             string `toml:"tab"`
	IDColumn        string `toml:"id_column"`
	FirstNameColumn string `toml:"first_name_column"`
	LastNameColumn  string `toml:"last_name_column"`
	LinkColumn      string `toml:"link_column"`
	StartRow        int    `toml:"start_row"`
	BaseURL         string `toml:"base_url"`
}

// Storage contains configuration for the upload destination.
type Storage struct {
	FolderID             string `toml:"folder_id"`
	TokenFile            string `toml:"token_file"`
	BaseURL              string `toml:"base_url"`
	UploadBaseURL        string `toml:"upload_base_url"`
	UploadTimeoutSeconds int    `toml:"upload_timeout_seconds"`
	LinkLabel            string `toml:"link_label"`
}

// Matching contains thresholds and auxiliary source files for reconciliation.
type Matching struct {
	IDPrefixes      []string `toml:"id_prefixes"`
	UsableThreshold float64  `toml:"usable_threshold"`
	MatchCacheFile  string   `toml:"match_cache_file"`
	GroupsFile      string   `toml:"groups_file"`
}

// Paths contains directory configuration and artifact locations.
type Paths struct {
	DataDir     string `toml:"data_dir"`
	LogDir      string `toml:"log_dir"`
	SummaryFile string `toml:"summary_file"`
	ReportFile  string `toml:"report_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subsync.
//
// Configuration sections by subsystem:
//   - Sheet: roster spreadsheet coordinates (tab, columns, start row)
//   - Storage: upload folder, auth token, link formatting
//   - Matching: institutional id prefixes, similarity threshold, cache/groups files
//   - Paths: data/log directories and artifact locations
//   - Logging: log format and level
type Config struct {
	Sheet    Sheet    `toml:"sheet"`
	Storage  Storage  `toml:"storage"`
	Matching Matching `toml:"matching"`
	Paths    Paths    `toml:"paths"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subsync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for batch operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
