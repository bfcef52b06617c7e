package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subsync/internal/config"
	"subsync/internal/runstore"
	"subsync/internal/textutil"
)

// Summary aggregates the outcome of one upload run for reporting.
type Summary struct {
	RunID  string
	Mode   string
	Folder string
	Config *config.Config
	Date   time.Time

	TotalFiles int
	Uploaded   int
	Skipped    int
	Unmatched  int
	Failed     int

	UploadedFiles  []runstore.FileOutcome
	SkippedFiles   []runstore.FileOutcome
	UnmatchedFiles []runstore.FileOutcome
	FailedFiles    []runstore.FileOutcome
}

func (s *Summary) record(outcome runstore.FileOutcome) {
	switch outcome.Status {
	case runstore.StatusUploaded:
		s.Uploaded++
		s.UploadedFiles = append(s.UploadedFiles, outcome)
	case runstore.StatusSkipped:
		s.Skipped++
		s.SkippedFiles = append(s.SkippedFiles, outcome)
	case runstore.StatusUnmatched:
		s.Unmatched++
		s.UnmatchedFiles = append(s.UnmatchedFiles, outcome)
	case runstore.StatusFailed:
		s.Failed++
		s.FailedFiles = append(s.FailedFiles, outcome)
	}
}

// WriteSummary renders the run summary as a plain-text artifact. Filenames
// are folded to ASCII so the file opens cleanly everywhere.
func WriteSummary(path string, s *Summary) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create summary directory: %w", err)
		}
	}

	var b strings.Builder
	b.WriteString("Upload Summary\n")
	b.WriteString("--------------\n\n")

	b.WriteString(fmt.Sprintf("Run ID: %s\n", s.RunID))
	b.WriteString(fmt.Sprintf("Mode: %s\n", s.Mode))
	b.WriteString(fmt.Sprintf("Folder path: %s\n", s.Folder))
	if cfg := s.Config; cfg != nil {
		b.WriteString(fmt.Sprintf("Sheet ID: %s\n", cfg.Sheet.SpreadsheetID))
		b.WriteString(fmt.Sprintf("Sheet Name: %s\n", cfg.Sheet.Tab))
		b.WriteString(fmt.Sprintf("ID Column: %s\n", cfg.Sheet.IDColumn))
		b.WriteString(fmt.Sprintf("Link Column: %s\n", cfg.Sheet.LinkColumn))
		b.WriteString(fmt.Sprintf("Start Row: %d\n", cfg.Sheet.StartRow))
		b.WriteString(fmt.Sprintf("Folder ID: %s\n", cfg.Storage.FolderID))
	}
	b.WriteString(fmt.Sprintf("\nDate: %s\n\n", s.Date.Format(time.RFC1123)))

	b.WriteString(fmt.Sprintf("Total files in directory: %d\n", s.TotalFiles))
	b.WriteString(fmt.Sprintf("Files uploaded successfully: %d\n", s.Uploaded))
	b.WriteString(fmt.Sprintf("Files skipped (link already present): %d\n", s.Skipped))
	b.WriteString(fmt.Sprintf("Files without a roster match: %d\n", s.Unmatched))
	b.WriteString(fmt.Sprintf("Files failed to upload: %d\n\n", s.Failed))

	for _, outcome := range s.UploadedFiles {
		b.WriteString(fmt.Sprintf("Uploaded: %s -> row %d (%s)\n",
			textutil.ASCIISafe(outcome.Filename), outcome.SheetRow, outcome.Method))
	}
	for _, outcome := range s.SkippedFiles {
		b.WriteString(fmt.Sprintf("Skipped: %s (row %d already linked)\n",
			textutil.ASCIISafe(outcome.Filename), outcome.SheetRow))
	}
	for _, outcome := range s.UnmatchedFiles {
		b.WriteString(fmt.Sprintf("No match: %s\n", textutil.ASCIISafe(outcome.Filename)))
	}
	for _, outcome := range s.FailedFiles {
		b.WriteString(fmt.Sprintf("Failed: %s - Error: %s\n",
			textutil.ASCIISafe(outcome.Filename), textutil.ASCIISafe(outcome.Error)))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
