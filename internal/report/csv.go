package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{
	"filename", "stripped_filename", "matched_id", "extracted_name",
	"similarity_score", "suggested_spelling", "match_quality", "mode",
}

// WriteCSV writes the report rows to path. The column layout is exactly
// what the match cache loader reads back, so a reviewed report can be
// dropped next to the submissions and reused on upload.
func WriteCSV(path string, rows []Row) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Filename,
			orNA(stripUnchanged(row)),
			row.MatchedID,
			orNA(row.ExtractedName),
			strconv.FormatFloat(row.Score, 'f', 2, 64),
			orNA(row.SuggestedSpelling),
			row.Quality,
			row.Mode,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

func stripUnchanged(row Row) string {
	if row.StrippedFilename == row.Filename {
		return ""
	}
	return row.StrippedFilename
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
