package identity

import (
	"slices"
	"testing"
)

var defaultPrefixes = []string{"816", "320", "400"}

func TestExtractNumericID(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "id after marker",
			filename: "Jane Doe_12345_assignsubmission_file_816012345_COMP1600_A1.pdf",
			want:     "816012345",
		},
		{
			name:     "id without marker",
			filename: "320987654_project.pdf",
			want:     "320987654",
		},
		{
			name:     "unknown prefix ignored in fallback scan",
			filename: "999123456_report.pdf",
			want:     "",
		},
		{
			name:     "marker digits win regardless of prefix",
			filename: "Jane_12345_assignsubmission_file_999123456_COMP1600_A1.pdf",
			want:     "999123456",
		},
		{
			name:     "first known prefix wins",
			filename: "999111222_400555666.pdf",
			want:     "400555666",
		},
		{
			name:     "eight digits is not an id",
			filename: "81601234_report.pdf",
			want:     "",
		},
		{
			name:     "no digits at all",
			filename: "TeamRocket_final.pdf",
			want:     "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractNumericID(tc.filename, defaultPrefixes); got != tc.want {
				t.Fatalf("ExtractNumericID(%q) = %q, want %q", tc.filename, got, tc.want)
			}
		})
	}
}

func TestExtractNumericIDNoPrefixFilter(t *testing.T) {
	got := ExtractNumericID("999123456_report.pdf", nil)
	if got != "999123456" {
		t.Fatalf("empty prefix list should accept any nine-digit run, got %q", got)
	}
}

func TestExtractPersonName(t *testing.T) {
	tests := []struct {
		filename  string
		wantFirst string
		wantLast  string
	}{
		{"Jane Doe_12345_assignsubmission_file_essay.pdf", "Jane", "Doe"},
		{"Jane_12345_assignsubmission_file_essay.pdf", "Jane", ""},
		{"Mary Anne Smith_99_assignsubmission_file_a1.docx", "Mary", "Anne Smith"},
		{"random_file.pdf", "", ""},
		{"no separators here.pdf", "", ""},
	}
	for _, tc := range tests {
		first, last := ExtractPersonName(tc.filename)
		if first != tc.wantFirst || last != tc.wantLast {
			t.Errorf("ExtractPersonName(%q) = (%q, %q), want (%q, %q)",
				tc.filename, first, last, tc.wantFirst, tc.wantLast)
		}
	}
}

func TestStripSubmissionMarker(t *testing.T) {
	got := StripSubmissionMarker("Jane_12_assignsubmission_file_essay.pdf")
	if got != "Jane_12_essay.pdf" {
		t.Fatalf("StripSubmissionMarker = %q", got)
	}
	if got := StripSubmissionMarker("plain.pdf"); got != "plain.pdf" {
		t.Fatalf("filename without marker changed: %q", got)
	}
}

func TestGroupCandidates(t *testing.T) {
	candidates := GroupCandidates("Team_Rocket_A1.pdf")
	if len(candidates) == 0 {
		t.Fatal("expected candidates")
	}
	if !slices.Contains(candidates, "team rocket") {
		t.Fatalf("candidates %v missing combined word group", candidates)
	}
	if !slices.Contains(candidates, "rocket") {
		t.Fatalf("candidates %v missing single word", candidates)
	}
}

func TestGroupCandidatesDropsShortFragments(t *testing.T) {
	for _, c := range GroupCandidates("ab_cd_TeamOmega.pdf") {
		if c == "ab" || c == "cd" {
			t.Fatalf("short fragment %q should have been dropped", c)
		}
	}
}

func TestGroupCandidatesDeduplicates(t *testing.T) {
	candidates := GroupCandidates("alpha_alpha.pdf")
	seen := map[string]int{}
	for _, c := range candidates {
		seen[c]++
		if seen[c] > 1 {
			t.Fatalf("candidate %q appears more than once in %v", c, candidates)
		}
	}
}
