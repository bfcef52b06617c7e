package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subsync/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show recorded upload runs",
		Long: `Runs lists recorded upload runs, most recent first. Passing a run id
shows the per-file outcomes of that run instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runstore.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				return printOutcomes(cmd, store, args[0])
			}
			return printRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

func printRuns(cmd *cobra.Command, store *runstore.Store, limit int) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet")
		return nil
	}

	headers := []string{"Run", "Started", "Mode", "Files", "Uploaded", "Skipped", "Unmatched", "Failed"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortRunID(run.ID),
			formatRunTime(run.StartedAt),
			run.Mode,
			fmt.Sprintf("%d", run.TotalFiles),
			fmt.Sprintf("%d", run.Uploaded),
			fmt.Sprintf("%d", run.Skipped),
			fmt.Sprintf("%d", run.Unmatched),
			fmt.Sprintf("%d", run.Failed),
		})
	}

	if isTerminal(out) {
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
	} else {
		fmt.Fprintln(out, renderPlainTable(headers, rows))
	}
	return nil
}

func printOutcomes(cmd *cobra.Command, store *runstore.Store, runID string) error {
	resolved, err := resolveRunID(cmd, store, runID)
	if err != nil {
		return err
	}
	outcomes, err := store.Outcomes(cmd.Context(), resolved)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(outcomes) == 0 {
		return fmt.Errorf("no outcomes recorded for run %s", runID)
	}

	headers := []string{"File", "Row", "Method", "Status", "Error"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		row := ""
		if outcome.SheetRow > 0 {
			row = fmt.Sprintf("%d", outcome.SheetRow)
		}
		rows = append(rows, []string{
			outcome.Filename,
			row,
			outcome.Method,
			outcome.Status,
			outcome.Error,
		})
	}

	if isTerminal(out) {
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
	} else {
		fmt.Fprintln(out, renderPlainTable(headers, rows))
	}
	return nil
}

// resolveRunID accepts the truncated id shown in the run listing.
func resolveRunID(cmd *cobra.Command, store *runstore.Store, prefix string) (string, error) {
	runs, err := store.ListRuns(cmd.Context(), 1000)
	if err != nil {
		return "", err
	}
	var match string
	for _, run := range runs {
		if !strings.HasPrefix(run.ID, prefix) {
			continue
		}
		if match != "" && match != run.ID {
			return "", fmt.Errorf("run id %q is ambiguous", prefix)
		}
		match = run.ID
	}
	if match == "" {
		return "", fmt.Errorf("no run matches %q", prefix)
	}
	return match, nil
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatRunTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}
