// Package groups loads group membership rosters from CSV and resolves
// member names to group labels for group-mode uploads.
package groups

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"subsync/internal/textutil"
)

// Entry is one membership row from the groups file.
type Entry struct {
	FirstName string
	LastName  string
	Group     string
}

// Header spellings accepted for each column, checked in order. Exports from
// different systems disagree on capitalization and separators.
var (
	firstNameHeaders = []string{"first name", "first_name", "firstname"}
	lastNameHeaders  = []string{"last name", "last_name", "lastname"}
	groupHeaders     = []string{"group name", "group_name", "group"}
)

// LoadCSV reads membership entries from path. A missing file is not an
// error; group mode is simply unavailable without one.
func LoadCSV(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open groups file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read groups header: %w", err)
	}

	firstIdx := findColumn(header, firstNameHeaders)
	lastIdx := findColumn(header, lastNameHeaders)
	groupIdx := findColumn(header, groupHeaders)
	if groupIdx < 0 {
		return nil, fmt.Errorf("groups file %s has no group column", path)
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read groups row: %w", err)
		}
		entry := Entry{
			FirstName: field(record, firstIdx),
			LastName:  field(record, lastIdx),
			Group:     field(record, groupIdx),
		}
		if entry.Group == "" || (entry.FirstName == "" && entry.LastName == "") {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func findColumn(header []string, accepted []string) int {
	for i, name := range header {
		cleaned := strings.ToLower(strings.TrimSpace(name))
		for _, want := range accepted {
			if cleaned == want {
				return i
			}
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

// Index maps normalized member names to group labels. Each entry registers
// three keys: full name, first name, and last name. When two members share
// a key the later entry wins, matching how ambiguous single-name lookups
// behaved in spreadsheets maintained by hand.
type Index struct {
	keys   []string
	groups map[string]string
	labels []string
}

// NewIndex builds a lookup index from membership entries.
func NewIndex(entries []Entry) *Index {
	idx := &Index{groups: make(map[string]string)}
	seenLabels := make(map[string]struct{})
	for _, entry := range entries {
		full := textutil.Normalize(strings.TrimSpace(entry.FirstName + " " + entry.LastName))
		for _, key := range []string{full, textutil.Normalize(entry.FirstName), textutil.Normalize(entry.LastName)} {
			if key == "" {
				continue
			}
			if _, ok := idx.groups[key]; !ok {
				idx.keys = append(idx.keys, key)
			}
			idx.groups[key] = entry.Group
		}
		if _, ok := seenLabels[entry.Group]; !ok {
			seenLabels[entry.Group] = struct{}{}
			idx.labels = append(idx.labels, entry.Group)
		}
	}
	return idx
}

// Len reports the number of registered name keys.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.keys)
}

// Labels returns the distinct group labels in first-seen order.
func (idx *Index) Labels() []string {
	if idx == nil {
		return nil
	}
	out := make([]string, len(idx.labels))
	copy(out, idx.labels)
	return out
}

// Lookup resolves a member name to a group label. Exact key matches win;
// otherwise the first registered key that contains the name, or that the
// name contains, decides. Containment lets "anne smith" find an entry keyed
// "mary anne smith", at the cost of occasional false positives on very
// short names.
func (idx *Index) Lookup(name string) (string, bool) {
	if idx == nil {
		return "", false
	}
	normalized := textutil.Normalize(name)
	if normalized == "" {
		return "", false
	}
	if group, ok := idx.groups[normalized]; ok {
		return group, true
	}
	for _, key := range idx.keys {
		if strings.Contains(key, normalized) || strings.Contains(normalized, key) {
			return idx.groups[key], true
		}
	}
	return "", false
}
