package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSheet()
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	if err := c.normalizeMatching(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.SummaryFile = strings.TrimSpace(c.Paths.SummaryFile)
	if c.Paths.SummaryFile == "" {
		c.Paths.SummaryFile = defaultSummaryFile
	}
	if !filepath.IsAbs(c.Paths.SummaryFile) {
		c.Paths.SummaryFile = filepath.Join(c.Paths.DataDir, c.Paths.SummaryFile)
	}
	c.Paths.ReportFile = strings.TrimSpace(c.Paths.ReportFile)
	if c.Paths.ReportFile == "" {
		c.Paths.ReportFile = defaultReportFile
	}
	if !filepath.IsAbs(c.Paths.ReportFile) {
		c.Paths.ReportFile = filepath.Join(c.Paths.DataDir, c.Paths.ReportFile)
	}
	return nil
}

func (c *Config) normalizeSheet() {
	c.Sheet.SpreadsheetID = strings.TrimSpace(c.Sheet.SpreadsheetID)
	if c.Sheet.SpreadsheetID == "" {
		if value, ok := os.LookupEnv("SUBSYNC_SPREADSHEET_ID"); ok {
			c.Sheet.SpreadsheetID = strings.TrimSpace(value)
		}
	}
	c.Sheet.Tab = strings.TrimSpace(c.Sheet.Tab)
	if c.Sheet.Tab == "" {
		c.Sheet.Tab = defaultTab
	}
	c.Sheet.IDColumn = normalizeColumn(c.Sheet.IDColumn, defaultIDColumn)
	c.Sheet.LinkColumn = normalizeColumn(c.Sheet.LinkColumn, defaultLinkColumn)
	c.Sheet.FirstNameColumn = normalizeColumn(c.Sheet.FirstNameColumn, "")
	c.Sheet.LastNameColumn = normalizeColumn(c.Sheet.LastNameColumn, "")
	c.Sheet.BaseURL = strings.TrimRight(strings.TrimSpace(c.Sheet.BaseURL), "/")
	if c.Sheet.BaseURL == "" {
		c.Sheet.BaseURL = defaultSheetsBaseURL
	}
}

func normalizeColumn(value, fallback string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}

func (c *Config) normalizeStorage() error {
	var err error
	c.Storage.FolderID = strings.TrimSpace(c.Storage.FolderID)
	if c.Storage.FolderID == "" {
		if value, ok := os.LookupEnv("SUBSYNC_FOLDER_ID"); ok {
			c.Storage.FolderID = strings.TrimSpace(value)
		}
	}
	c.Storage.TokenFile = strings.TrimSpace(c.Storage.TokenFile)
	if c.Storage.TokenFile == "" {
		if value, ok := os.LookupEnv("SUBSYNC_TOKEN_FILE"); ok {
			c.Storage.TokenFile = strings.TrimSpace(value)
		}
	}
	if c.Storage.TokenFile == "" {
		c.Storage.TokenFile = defaultTokenFile
	}
	if c.Storage.TokenFile, err = expandPath(c.Storage.TokenFile); err != nil {
		return fmt.Errorf("storage.token_file: %w", err)
	}
	c.Storage.BaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.BaseURL), "/")
	if c.Storage.BaseURL == "" {
		c.Storage.BaseURL = defaultDriveBaseURL
	}
	c.Storage.UploadBaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.UploadBaseURL), "/")
	if c.Storage.UploadBaseURL == "" {
		c.Storage.UploadBaseURL = defaultDriveUploadBaseURL
	}
	if c.Storage.UploadTimeoutSeconds <= 0 {
		c.Storage.UploadTimeoutSeconds = defaultUploadTimeoutSeconds
	}
	c.Storage.LinkLabel = strings.TrimSpace(c.Storage.LinkLabel)
	if c.Storage.LinkLabel == "" {
		c.Storage.LinkLabel = defaultLinkLabel
	}
	return nil
}

func (c *Config) normalizeMatching() error {
	prefixes := make([]string, 0, len(c.Matching.IDPrefixes))
	seen := make(map[string]struct{}, len(c.Matching.IDPrefixes))
	for _, prefix := range c.Matching.IDPrefixes {
		trimmed := strings.TrimSpace(prefix)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		prefixes = append(prefixes, trimmed)
	}
	if len(prefixes) == 0 {
		prefixes = defaultIDPrefixes()
	}
	c.Matching.IDPrefixes = prefixes

	if c.Matching.UsableThreshold == 0 {
		c.Matching.UsableThreshold = defaultUsableThreshold
	}

	// Relative auxiliary file paths stay relative; they resolve against the
	// submission folder at run time.
	var err error
	c.Matching.GroupsFile = strings.TrimSpace(c.Matching.GroupsFile)
	if strings.HasPrefix(c.Matching.GroupsFile, "~") {
		if c.Matching.GroupsFile, err = expandPath(c.Matching.GroupsFile); err != nil {
			return fmt.Errorf("matching.groups_file: %w", err)
		}
	}
	c.Matching.MatchCacheFile = strings.TrimSpace(c.Matching.MatchCacheFile)
	if strings.HasPrefix(c.Matching.MatchCacheFile, "~") {
		if c.Matching.MatchCacheFile, err = expandPath(c.Matching.MatchCacheFile); err != nil {
			return fmt.Errorf("matching.match_cache_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
