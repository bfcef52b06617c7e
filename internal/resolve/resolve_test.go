package resolve

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subsync/internal/groups"
	"subsync/internal/matchcache"
	"subsync/internal/roster"
)

var prefixes = []string{"816", "320", "400"}

func emptyCache(t *testing.T) *matchcache.Store {
	t.Helper()
	store, err := matchcache.Load(filepath.Join(t.TempDir(), "absent.csv"), 0.70)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func loadCache(t *testing.T, rows string) *matchcache.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matches.csv")
	content := "filename,matched_id,similarity_score\n" + rows
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := matchcache.Load(path, 0.70)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestIndividualNumericID(t *testing.T) {
	r := &roster.Roster{IDs: []string{"816000001", "816000002"}}
	resolver := New(Options{Mode: ModeIndividual, Roster: r, Cache: emptyCache(t), IDPrefixes: prefixes})

	result := resolver.Resolve("Jane Doe_55_assignsubmission_file_816000002_a1.pdf")
	if !result.Resolved() || result.Row != 1 || result.Method != MethodNumericID {
		t.Fatalf("result = %+v", result)
	}
}

func TestIndividualCachePrecedesNumericID(t *testing.T) {
	r := &roster.Roster{IDs: []string{"816000001", "816000002"}}
	cache := loadCache(t, "816000002_a1.pdf,816000001,0.95\n")
	resolver := New(Options{Mode: ModeIndividual, Roster: r, Cache: cache, IDPrefixes: prefixes})

	result := resolver.Resolve("816000002_a1.pdf")
	if result.Row != 0 || result.Method != MethodCache {
		t.Fatalf("cache should win over the embedded id: %+v", result)
	}
}

func TestIndividualCacheNeverClaims(t *testing.T) {
	r := &roster.Roster{IDs: []string{"816000001"}}
	cache := loadCache(t, "mystery.pdf,Unknown Person,0.90\n")
	resolver := New(Options{Mode: ModeIndividual, Roster: r, Cache: cache, IDPrefixes: prefixes})

	result := resolver.Resolve("mystery.pdf")
	if result.Resolved() {
		t.Fatalf("cached label absent from roster must not resolve: %+v", result)
	}
	if len(r.IDs) != 1 {
		t.Fatal("individual mode must not grow the roster")
	}
}

func TestIndividualNameScan(t *testing.T) {
	r := &roster.Roster{
		IDs:        []string{"816000001", "816000002", "816000003"},
		FirstNames: []string{"John", "Jane", "Jane"},
		LastNames:  []string{"Smith", "Doe", "Roe"},
	}
	resolver := New(Options{Mode: ModeIndividual, Roster: r, Cache: emptyCache(t), IDPrefixes: prefixes})

	result := resolver.Resolve("Jane Roe_55_assignsubmission_file_essay.pdf")
	if result.Row != 2 || result.Method != MethodNameScan {
		t.Fatalf("result = %+v", result)
	}

	// First qualifying row wins when only the first name is present.
	result = resolver.Resolve("Jane_55_assignsubmission_file_essay.pdf")
	if result.Row != 1 || result.Method != MethodNameScan {
		t.Fatalf("result = %+v", result)
	}
}

func TestIndividualGroupGuess(t *testing.T) {
	r := &roster.Roster{IDs: []string{"Team Rocket", "Team Aqua"}}
	resolver := New(Options{Mode: ModeIndividual, Roster: r, Cache: emptyCache(t), IDPrefixes: prefixes})

	result := resolver.Resolve("team_aqua_final.pdf")
	if result.Row != 1 || result.Method != MethodGroupGuess {
		t.Fatalf("result = %+v", result)
	}
}

func TestIndividualGroupGuessShortExactLabel(t *testing.T) {
	r := &roster.Roster{IDs: []string{"ab"}}
	resolver := New(Options{Mode: ModeIndividual, Roster: r, Cache: emptyCache(t), IDPrefixes: prefixes})

	result := resolver.Resolve("ab.pdf")
	if result.Row != 0 || result.Method != MethodGroupGuess {
		t.Fatalf("two-character label should match by equality: %+v", result)
	}

	// Containment stays off for short fragments.
	r2 := &roster.Roster{IDs: []string{"abc"}}
	resolver2 := New(Options{Mode: ModeIndividual, Roster: r2, Cache: emptyCache(t), IDPrefixes: prefixes})
	if result := resolver2.Resolve("ab.pdf"); result.Resolved() {
		t.Fatalf("short fragment must not match by containment: %+v", result)
	}
}

func TestIndividualNoMatch(t *testing.T) {
	r := &roster.Roster{IDs: []string{"816000001"}}
	resolver := New(Options{Mode: ModeIndividual, Roster: r, Cache: emptyCache(t), IDPrefixes: prefixes})

	result := resolver.Resolve("unrelated.pdf")
	if result.Resolved() || result.Method != MethodNone {
		t.Fatalf("result = %+v", result)
	}
}

func TestGroupModeClaimsAndReuses(t *testing.T) {
	r := &roster.Roster{IDs: []string{"", "GroupX"}}
	idx := groups.NewIndex([]groups.Entry{
		{FirstName: "Jane", LastName: "Doe", Group: "GroupY"},
		{FirstName: "Ann", LastName: "Lee", Group: "GroupY"},
	})
	resolver := New(Options{Mode: ModeGroup, Roster: r, Cache: emptyCache(t), Groups: idx})

	first := resolver.Resolve("Jane Doe_55_assignsubmission_file_report.pdf")
	if first.Row != 0 || !first.Claimed || first.NewLabel != "GroupY" || first.Extended {
		t.Fatalf("first = %+v", first)
	}

	// A second member of the same group lands on the claimed row.
	second := resolver.Resolve("Ann Lee_56_assignsubmission_file_report.pdf")
	if second.Row != 0 || second.Claimed {
		t.Fatalf("second = %+v", second)
	}
}

func TestGroupModeAppendsWhenFull(t *testing.T) {
	r := &roster.Roster{IDs: []string{"GroupX"}}
	idx := groups.NewIndex([]groups.Entry{{FirstName: "Jane", LastName: "Doe", Group: "GroupY"}})
	resolver := New(Options{Mode: ModeGroup, Roster: r, Cache: emptyCache(t), Groups: idx})

	result := resolver.Resolve("Jane Doe_55_assignsubmission_file_report.pdf")
	if result.Row != 1 || !result.Claimed || !result.Extended {
		t.Fatalf("result = %+v", result)
	}
}

func TestGroupModeCacheClaims(t *testing.T) {
	r := &roster.Roster{IDs: []string{"GroupX"}}
	cache := loadCache(t, "rocket.pdf,Team Rocket,0.92\n")
	resolver := New(Options{Mode: ModeGroup, Roster: r, Cache: cache})

	result := resolver.Resolve("rocket.pdf")
	if result.Row != 1 || !result.Claimed || result.NewLabel != "Team Rocket" {
		t.Fatalf("result = %+v", result)
	}
}

func TestGroupModeFallbackNameSegment(t *testing.T) {
	r := &roster.Roster{IDs: []string{""}}
	idx := groups.NewIndex([]groups.Entry{{FirstName: "Jane", LastName: "Doe", Group: "GroupY"}})
	resolver := New(Options{Mode: ModeGroup, Roster: r, Cache: emptyCache(t), Groups: idx})

	// No numeric segment, so the strict name pattern fails and the first
	// underscore-delimited token is used instead.
	result := resolver.Resolve("Jane Doe_assignsubmission_file_report.pdf")
	if result.Row != 0 || result.NewLabel != "GroupY" {
		t.Fatalf("result = %+v", result)
	}
}

func TestGroupModeUnknownMember(t *testing.T) {
	r := &roster.Roster{IDs: []string{""}}
	idx := groups.NewIndex([]groups.Entry{{FirstName: "Jane", LastName: "Doe", Group: "GroupY"}})
	resolver := New(Options{Mode: ModeGroup, Roster: r, Cache: emptyCache(t), Groups: idx})

	result := resolver.Resolve("Stranger Danger_55_assignsubmission_file_report.pdf")
	if result.Resolved() {
		t.Fatalf("unknown member should not resolve: %+v", result)
	}
	if r.IDs[0] != "" {
		t.Fatal("failed resolution must not claim a row")
	}
	// The miss explains both the cache and the membership lookup.
	if !strings.Contains(result.Reason, "not in cache") || !strings.Contains(result.Reason, "not in any group") {
		t.Fatalf("reason = %q", result.Reason)
	}
}
