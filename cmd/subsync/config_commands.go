package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subsync/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set spreadsheet_id and folder_id (or export SUBSYNC_SPREADSHEET_ID and SUBSYNC_FOLDER_ID) before running subsync.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Spreadsheet:      %s (tab %q)\n", cfg.Sheet.SpreadsheetID, cfg.Sheet.Tab)
			fmt.Fprintf(out, "Columns:          id=%s link=%s", cfg.Sheet.IDColumn, cfg.Sheet.LinkColumn)
			if cfg.Sheet.FirstNameColumn != "" {
				fmt.Fprintf(out, " first=%s", cfg.Sheet.FirstNameColumn)
			}
			if cfg.Sheet.LastNameColumn != "" {
				fmt.Fprintf(out, " last=%s", cfg.Sheet.LastNameColumn)
			}
			fmt.Fprintf(out, " (rows start at %d)\n", cfg.Sheet.StartRow)
			fmt.Fprintf(out, "Storage folder:   %s\n", cfg.Storage.FolderID)
			fmt.Fprintf(out, "Token file:       %s\n", cfg.Storage.TokenFile)
			fmt.Fprintf(out, "ID prefixes:      %s\n", strings.Join(cfg.Matching.IDPrefixes, ", "))
			fmt.Fprintf(out, "Match threshold:  %.2f\n", cfg.Matching.UsableThreshold)
			fmt.Fprintf(out, "Groups file:      %s\n", cfg.Matching.GroupsFile)
			fmt.Fprintf(out, "Match cache:      %s\n", cfg.Matching.MatchCacheFile)
			fmt.Fprintf(out, "Data directory:   %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "Log directory:    %s\n", cfg.Paths.LogDir)
			return nil
		},
	}
}
