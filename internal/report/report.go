// Package report performs the offline reconciliation scan: every file in a
// submission folder is fuzzily matched against the roster, and the results
// are written to a CSV that doubles as the upload match cache once a human
// has reviewed it.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"subsync/internal/groups"
	"subsync/internal/identity"
	"subsync/internal/logging"
	"subsync/internal/textutil"
)

// Row is one report line. MatchedID carries the no-match sentinel when
// nothing scored above zero.
type Row struct {
	Filename          string
	StrippedFilename  string
	MatchedID         string
	ExtractedName     string
	Score             float64
	SuggestedSpelling string
	Quality           string
	Mode              string
}

// Reporter scans submissions against either roster id entries or a group
// membership index.
type Reporter struct {
	ids    []string
	index  *groups.Index
	logger *slog.Logger
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLogger attaches a logger for per-file decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) { r.logger = logger }
}

// NewIndividual builds a reporter that matches against roster id entries.
func NewIndividual(ids []string, opts ...Option) *Reporter {
	r := &Reporter{ids: ids}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "report")
	return r
}

// NewGroup builds a reporter that resolves member names through the
// membership index.
func NewGroup(index *groups.Index, opts ...Option) *Reporter {
	r := &Reporter{index: index}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "report")
	return r
}

// Mode tags match the reviewed CSV artifact format.
const (
	ModeGroup    = "GROUP"
	ModeStandard = "STANDARD"
)

func (r *Reporter) mode() string {
	if r.index != nil {
		return ModeGroup
	}
	return ModeStandard
}

// Scan matches every regular file in folder and returns one row per file
// in directory order.
func (r *Reporter) Scan(folder string) ([]Row, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read submission folder: %w", err)
	}

	var rows []Row
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if ext := strings.ToLower(filepath.Ext(name)); ext == ".csv" {
			continue
		}
		row := r.matchFile(name)
		r.logger.Debug("scanned file",
			logging.String(logging.FieldFilename, name),
			logging.String("matched_id", row.MatchedID),
			logging.Float64(logging.FieldScore, row.Score),
		)
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Reporter) matchFile(filename string) Row {
	row := Row{
		Filename:         filename,
		StrippedFilename: identity.StripSubmissionMarker(filename),
		MatchedID:        textutil.NoMatchLabel,
		Mode:             r.mode(),
	}

	if r.index != nil {
		r.matchGroup(&row)
	} else {
		r.matchIndividual(&row)
	}
	row.Quality = textutil.Quality(row.Score)
	return row
}

// matchGroup resolves the exporter-written member name through the index.
// Membership is authoritative, so a hit scores 1 and a miss scores 0.
func (r *Reporter) matchGroup(row *Row) {
	first, last := identity.ExtractPersonName(row.Filename)
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		return
	}
	row.ExtractedName = name
	if label, ok := r.index.Lookup(name); ok {
		row.MatchedID = label
		row.Score = 1.0
	}
}

// matchIndividual tries every candidate label from the filename against
// every id entry and keeps the best-scoring pair. A good-but-imperfect
// score records the roster spelling as the suggested correction.
func (r *Reporter) matchIndividual(row *Row) {
	candidates := identity.GroupCandidates(row.StrippedFilename)

	for _, candidate := range candidates {
		for _, id := range r.ids {
			if id == "" {
				continue
			}
			score := textutil.Similarity(candidate, textutil.CleanFilenameText(id))
			if score <= row.Score {
				continue
			}
			row.MatchedID = id
			row.ExtractedName = candidate
			row.Score = score
			if score >= textutil.UsableThreshold && score < textutil.ExactScore {
				row.SuggestedSpelling = id
			} else {
				row.SuggestedSpelling = ""
			}
		}
	}
}

// Tally counts rows per outcome band.
type Tally struct {
	Exact int
	Good  int
	Poor  int
	None  int
}

// Summarize buckets rows by score the way reviewers triage them: exact,
// usable, needs-attention, hopeless.
func Summarize(rows []Row) Tally {
	var t Tally
	for _, row := range rows {
		switch {
		case row.Score >= 1.0:
			t.Exact++
		case row.Score >= textutil.UsableThreshold:
			t.Good++
		case row.Score >= textutil.PoorThreshold:
			t.Poor++
		default:
			t.None++
		}
	}
	return t
}
