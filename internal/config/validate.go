package config

import (
	"errors"
	"fmt"
	"strings"
)

var columnPattern = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Validate ensures the configuration is usable. Roster coordinates are
// checked up front so a bad sheet layout aborts before any upload occurs.
func (c *Config) Validate() error {
	if err := c.validateSheet(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSheet() error {
	if c.Sheet.SpreadsheetID == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/subsync/config.toml"
		}
		return fmt.Errorf("sheet.spreadsheet_id is required. Set SUBSYNC_SPREADSHEET_ID env var or edit %s (create with 'subsync config init')", defaultPath)
	}
	if c.Sheet.Tab == "" {
		return errors.New("sheet.tab must be set")
	}
	for name, col := range map[string]string{
		"sheet.id_column":   c.Sheet.IDColumn,
		"sheet.link_column": c.Sheet.LinkColumn,
	} {
		if err := validateColumn(name, col, true); err != nil {
			return err
		}
	}
	for name, col := range map[string]string{
		"sheet.first_name_column": c.Sheet.FirstNameColumn,
		"sheet.last_name_column":  c.Sheet.LastNameColumn,
	} {
		if err := validateColumn(name, col, false); err != nil {
			return err
		}
	}
	if c.Sheet.IDColumn == c.Sheet.LinkColumn {
		return errors.New("sheet.id_column and sheet.link_column must differ")
	}
	if c.Sheet.StartRow < 1 {
		return fmt.Errorf("sheet.start_row must be >= 1, got %d", c.Sheet.StartRow)
	}
	return nil
}

func validateColumn(name, value string, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s must be set", name)
		}
		return nil
	}
	for _, r := range value {
		if !strings.ContainsRune(columnPattern, r) {
			return fmt.Errorf("%s must be a spreadsheet column letter, got %q", name, value)
		}
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.FolderID == "" {
		return errors.New("storage.folder_id must be set (the upload destination folder)")
	}
	if c.Storage.UploadTimeoutSeconds <= 0 {
		return errors.New("storage.upload_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.UsableThreshold < 0 || c.Matching.UsableThreshold > 1 {
		return errors.New("matching.usable_threshold must be between 0 and 1")
	}
	for _, prefix := range c.Matching.IDPrefixes {
		for _, r := range prefix {
			if r < '0' || r > '9' {
				return fmt.Errorf("matching.id_prefixes entries must be numeric, got %q", prefix)
			}
		}
	}
	return nil
}
