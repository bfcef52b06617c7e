package textutil

import (
	"regexp"
	"strings"
)

var (
	separatorRuns = regexp.MustCompile(`[-_\s]+`)

	extensionSuffix = regexp.MustCompile(`(?i)\.(pdf|docx?|txt|rtf|zip|pptx?)$`)

	// assignmentIndicators matches course-assignment boilerplate that appears
	// in filenames but never in roster names.
	assignmentIndicators = regexp.MustCompile(`(?i)\b(a\d+|assignment\s*\d*|project|submission|final|draft)\b`)

	punctuation = regexp.MustCompile(`[^\w\s-]`)
)

// Normalize lowercases text and collapses every run of hyphens, underscores,
// and whitespace into a single space. Two names compare equal after Normalize
// when they differ only in case or separator style.
func Normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	return strings.TrimSpace(separatorRuns.ReplaceAllString(value, " "))
}

// CleanFilenameText strips the pieces of a filename that carry no identity:
// the extension, assignment indicators, and punctuation. Separators collapse
// to spaces before the indicator pass so underscore-delimited boilerplate is
// caught. The result is normalized and suitable for fuzzy comparison against
// roster names.
func CleanFilenameText(value string) string {
	value = extensionSuffix.ReplaceAllString(value, "")
	value = separatorRuns.ReplaceAllString(value, " ")
	value = assignmentIndicators.ReplaceAllString(value, " ")
	value = punctuation.ReplaceAllString(value, " ")
	return Normalize(value)
}
