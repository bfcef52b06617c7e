// Package identity extracts identity signals from submission filenames:
// institutional ids, person names, and candidate group labels.
//
// Bulk-exported submissions follow the pattern
// Name_ID_assignsubmission_file_OriginalName.ext, but files renamed by
// students arrive in every shape imaginable, so each extractor degrades
// gracefully when the pattern is absent.
package identity

import (
	"path/filepath"
	"regexp"
	"strings"

	"subsync/internal/textutil"
)

// Marker separates the export bookkeeping prefix from the original filename.
const Marker = "assignsubmission_file_"

var (
	markerIDPattern = regexp.MustCompile(Marker + `(\d{9})`)
	anyIDPattern    = regexp.MustCompile(`\d{9}`)
	namePrefix      = regexp.MustCompile(`^(.+?)_\d+_` + Marker)

	candidatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`[a-zA-Z]+(?:[_\-\s]*[a-zA-Z]+)*`),
		regexp.MustCompile(`[a-zA-Z]+\d*`),
		regexp.MustCompile(`(?i)team[_\-\s]*[a-zA-Z]+`),
		regexp.MustCompile(`(?i)group[_\-\s]*[a-zA-Z]+`),
	}
)

// ExtractNumericID returns the nine-digit institutional id embedded in a
// filename, or "" when none is found. The digits immediately following the
// export marker win unconditionally; the prefix constraint applies only to
// the whole-filename fallback scan. An empty prefix list accepts any
// nine-digit run.
func ExtractNumericID(filename string, prefixes []string) string {
	if m := markerIDPattern.FindStringSubmatch(filename); m != nil {
		return m[1]
	}
	for _, run := range anyIDPattern.FindAllString(filename, -1) {
		if hasKnownPrefix(run, prefixes) {
			return run
		}
	}
	return ""
}

func hasKnownPrefix(id string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// ExtractPersonName pulls the exporter-written name segment from a filename.
// Multi-word names yield the first word and the remaining words joined by a
// single space; a single token yields (token, ""). Both values are empty
// when the filename does not carry the export prefix.
func ExtractPersonName(filename string) (first, last string) {
	m := namePrefix.FindStringSubmatch(filename)
	if m == nil {
		return "", ""
	}
	parts := strings.Fields(strings.TrimSpace(m[1]))
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// StripSubmissionMarker removes the export marker from a filename, keeping
// the surrounding name and id segments intact.
func StripSubmissionMarker(filename string) string {
	return strings.ReplaceAll(filename, Marker, "")
}

// GroupCandidates derives the ordered list of potential group labels hidden
// in a filename. Fragments shorter than three characters are too ambiguous
// to act on and are dropped; the cleaned full base name always closes the
// list. Duplicates keep their first position.
func GroupCandidates(filename string) []string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	var candidates []string
	for _, pattern := range candidatePatterns {
		for _, match := range pattern.FindAllString(base, -1) {
			cleaned := textutil.CleanFilenameText(match)
			if len(cleaned) >= 3 {
				candidates = append(candidates, cleaned)
			}
		}
	}
	candidates = append(candidates, textutil.CleanFilenameText(base))

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	return unique
}
