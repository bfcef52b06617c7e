package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subsync/internal/config"
	"subsync/internal/gauth"
	"subsync/internal/groups"
	"subsync/internal/report"
	"subsync/internal/sheets"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var forceGroup bool

	cmd := &cobra.Command{
		Use:   "report <folder>",
		Short: "Scan submissions and write a reviewable match report",
		Long: `Report fuzzily matches every file in the folder against the roster
without uploading anything. The resulting CSV lists the best match and a
suggested spelling per file; after review it can be placed next to the
submissions as the match cache for the next upload run.

Group mode is used when the groups file is present beside the
submissions (or when --group is set) and needs no spreadsheet access.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			folder, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			groupsPath := cfg.Matching.GroupsFile
			if groupsPath != "" && !filepath.IsAbs(groupsPath) {
				groupsPath = filepath.Join(folder, groupsPath)
			}
			entries, err := groups.LoadCSV(groupsPath)
			if err != nil {
				return err
			}
			index := groups.NewIndex(entries)

			out := cmd.OutOrStdout()
			var reporter *report.Reporter
			if forceGroup || index.Len() > 0 {
				if index.Len() == 0 {
					return fmt.Errorf("group mode requested but no memberships found in %s", groupsPath)
				}
				fmt.Fprintf(out, "Group mode: %d members across %d groups\n", index.Len(), len(index.Labels()))
				reporter = report.NewGroup(index, report.WithLogger(logger))
			} else {
				ids, err := fetchRosterIDs(cmd, ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Matching against %d roster entries\n", len(ids))
				reporter = report.NewIndividual(ids, report.WithLogger(logger))
			}

			rows, err := reporter.Scan(folder)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = cfg.Paths.ReportFile
			}
			if err := report.WriteCSV(target, rows); err != nil {
				return err
			}

			tally := report.Summarize(rows)
			fmt.Fprintf(out, "Report written to %s\n\n", target)
			fmt.Fprintf(out, "Exact matches: %d\n", tally.Exact)
			fmt.Fprintf(out, "Good matches (>= 70%%): %d\n", tally.Good)
			fmt.Fprintf(out, "Poor matches (30-69%%): %d\n", tally.Poor)
			fmt.Fprintf(out, "No matches (< 30%%): %d\n", tally.None)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Report destination (defaults to the configured report file)")
	cmd.Flags().BoolVarP(&forceGroup, "group", "g", false, "Require group mode")
	return cmd
}

func fetchRosterIDs(cmd *cobra.Command, ctx *commandContext) ([]string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	token, err := gauth.LoadToken(cfg.Storage.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("load token (run the authorization flow first): %w", err)
	}
	client, err := sheets.New(sheets.Config{
		SpreadsheetID: cfg.Sheet.SpreadsheetID,
		Tab:           cfg.Sheet.Tab,
		StartRow:      cfg.Sheet.StartRow,
		BaseURL:       cfg.Sheet.BaseURL,
		Token:         token,
	})
	if err != nil {
		return nil, err
	}
	ids, err := client.GetColumn(cmd.Context(), cfg.Sheet.IDColumn)
	if err != nil {
		return nil, err
	}
	var filtered []string
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no id entries found in column %s", cfg.Sheet.IDColumn)
	}
	return filtered, nil
}
