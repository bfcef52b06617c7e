// Package matchcache loads precomputed filename matches from the report CSV
// so upload runs can reuse decisions reviewed by a human.
package matchcache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"subsync/internal/textutil"
)

// Match is one trusted cache entry.
type Match struct {
	Filename string
	Label    string
	Score    float64
}

// Store holds trusted matches keyed by exact filename.
type Store struct {
	matches map[string]Match
}

// Load reads a match cache CSV. A missing file yields an empty store.
// Entries scoring below threshold and entries carrying the no-match
// sentinel are dropped; a stale or unreviewed row must never place a file
// on the wrong roster row.
func Load(path string, threshold float64) (*Store, error) {
	store := &Store{matches: make(map[string]Match)}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("open match cache: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return store, nil
		}
		return nil, fmt.Errorf("read match cache header: %w", err)
	}

	filenameIdx := findColumn(header, "filename")
	labelIdx := findColumn(header, "matched_id")
	scoreIdx := findColumn(header, "similarity_score")
	if filenameIdx < 0 || labelIdx < 0 || scoreIdx < 0 {
		return nil, fmt.Errorf("match cache %s missing filename/matched_id/similarity_score columns", path)
	}

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read match cache row: %w", err)
		}
		filename := field(record, filenameIdx)
		label := field(record, labelIdx)
		if filename == "" || label == "" || label == textutil.NoMatchLabel {
			continue
		}
		score, err := strconv.ParseFloat(field(record, scoreIdx), 64)
		if err != nil || score < threshold {
			continue
		}
		store.matches[filename] = Match{Filename: filename, Label: label, Score: score}
	}
	return store, nil
}

func findColumn(header []string, want string) int {
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return i
		}
	}
	return -1
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Lookup returns the trusted match for an exact filename.
func (s *Store) Lookup(filename string) (Match, bool) {
	if s == nil {
		return Match{}, false
	}
	m, ok := s.matches[filename]
	return m, ok
}

// Len reports the number of trusted entries.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.matches)
}
