package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subsync/internal/batch"
	"subsync/internal/drive"
	"subsync/internal/gauth"
	"subsync/internal/resolve"
	"subsync/internal/runstore"
	"subsync/internal/sheets"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var groupMode bool

	cmd := &cobra.Command{
		Use:   "upload <folder>",
		Short: "Upload submissions and write links into the roster",
		Long: `Upload reconciles every file in the folder against the roster:
each file is matched to a row, uploaded to the storage folder, shared,
and linked from the roster. Rows that already carry a link are skipped,
so re-running after a partial failure only uploads what is missing.

Group mode is used when the groups file beside the submissions yields
memberships; --group forces it.`,
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

			token, err := gauth.LoadToken(cfg.Storage.TokenFile)
			if err != nil {
				return fmt.Errorf("load token (run the authorization flow first): %w", err)
			}

			rosterSvc, err := sheets.New(sheets.Config{
				SpreadsheetID: cfg.Sheet.SpreadsheetID,
				Tab:           cfg.Sheet.Tab,
				StartRow:      cfg.Sheet.StartRow,
				BaseURL:       cfg.Sheet.BaseURL,
				Token:         token,
			})
			if err != nil {
				return err
			}
			uploader, err := drive.New(drive.Config{
				FolderID:      cfg.Storage.FolderID,
				BaseURL:       cfg.Storage.BaseURL,
				UploadBaseURL: cfg.Storage.UploadBaseURL,
				Token:         token,
			})
			if err != nil {
				return err
			}

			store, err := runstore.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var mode resolve.Mode
			if groupMode {
				mode = resolve.ModeGroup
			}

			engine, err := batch.New(batch.Options{
				Config:  cfg,
				Roster:  rosterSvc,
				Storage: uploader,
				Store:   store,
				Logger:  logger,
				Mode:    mode,
			})
			if err != nil {
				return err
			}

			summary, err := engine.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s finished (%s mode)\n", summary.RunID, summary.Mode)
			fmt.Fprintf(out, "  Total files:  %d\n", summary.TotalFiles)
			fmt.Fprintf(out, "  Uploaded:     %d\n", summary.Uploaded)
			fmt.Fprintf(out, "  Skipped:      %d\n", summary.Skipped)
			fmt.Fprintf(out, "  Unmatched:    %d\n", summary.Unmatched)
			fmt.Fprintf(out, "  Failed:       %d\n", summary.Failed)
			fmt.Fprintf(out, "Summary written to %s\n", cfg.Paths.SummaryFile)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&groupMode, "group", "g", false, "Force group mode even when the groups file is absent")
	return cmd
}
