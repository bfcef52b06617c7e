package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Mary-Anne   Smith ", "mary anne smith"},
		{"JOHN_DOE", "john doe"},
		{"a--b__c  d", "a b c d"},
		{"", ""},
		{"   ", ""},
		{"single", "single"},
	}
	for _, tc := range tests {
		if got := Normalize(tc.input); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeEquatesSeparatorStyles(t *testing.T) {
	variants := []string{"Mary-Anne Smith", "mary_anne_smith", "MARY ANNE SMITH", "mary-anne_smith"}
	want := Normalize(variants[0])
	for _, v := range variants[1:] {
		if got := Normalize(v); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestCleanFilenameText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Jane_Doe_Assignment 1.pdf", "jane doe"},
		{"john-smith-a2.docx", "john smith"},
		{"Project_Submission_Mary.txt", "mary"},
		{"Team_Rocket_Project_Final.pdf", "team rocket"},
		{"a1_team_rocket.pdf", "team rocket"},
		{"plain", "plain"},
	}
	for _, tc := range tests {
		if got := CleanFilenameText(tc.input); got != tc.want {
			t.Errorf("CleanFilenameText(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("jane doe", "jane doe"); got != 1 {
		t.Fatalf("identical strings scored %v, want 1", got)
	}
	if got := Similarity("", ""); got != 0 {
		t.Fatalf("two empty strings scored %v, want 0", got)
	}
	if got := Similarity("jane", ""); got != 0 {
		t.Fatalf("empty comparand scored %v, want 0", got)
	}
	if a, b := Similarity("jane doe", "jane dow"), Similarity("jane dow", "jane doe"); a != b {
		t.Fatalf("similarity not symmetric: %v vs %v", a, b)
	}
	close := Similarity("jane doe", "jane dow")
	far := Similarity("jane doe", "zachary quinn")
	if close <= far {
		t.Fatalf("near miss (%v) should outscore unrelated name (%v)", close, far)
	}
	if close < UsableThreshold {
		t.Fatalf("one-letter typo scored %v, expected at least %v", close, UsableThreshold)
	}
}

func TestSimilarityRange(t *testing.T) {
	pairs := [][2]string{
		{"a", "completely different"},
		{"short", "loooooooooooooong"},
		{"abc", "xyz"},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestQuality(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1.0, "EXACT"},
		{0.85, "EXCELLENT"},
		{0.80, "EXCELLENT"},
		{0.75, "GOOD"},
		{0.70, "GOOD"},
		{0.60, "FAIR"},
		{0.35, "POOR"},
		{0.29, NoMatchLabel},
		{0, NoMatchLabel},
	}
	for _, tc := range tests {
		if got := Quality(tc.score); got != tc.want {
			t.Errorf("Quality(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestASCIISafe(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"José García", "Jose Garcia"},
		{"Zoë", "Zoe"},
		{"plain ascii", "plain ascii"},
		{"日本", "??"},
	}
	for _, tc := range tests {
		if got := ASCIISafe(tc.input); got != tc.want {
			t.Errorf("ASCIISafe(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
