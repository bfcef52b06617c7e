package roster

import "testing"

func TestAccessorsTolerateShortColumns(t *testing.T) {
	r := &Roster{
		StartRow:   3,
		IDs:        []string{"816000001", "816000002", "816000003"},
		FirstNames: []string{"Jane"},
		Links:      []string{"", "=HYPERLINK(...)"},
	}

	if got := r.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}
	if got := r.First(2); got != "" {
		t.Fatalf("First beyond column end = %q, want empty", got)
	}
	if got := r.Last(0); got != "" {
		t.Fatalf("Last with nil column = %q, want empty", got)
	}
	if got := r.Link(2); got != "" {
		t.Fatalf("Link beyond column end = %q, want empty", got)
	}
	if got := r.Link(1); got == "" {
		t.Fatal("existing link should be visible")
	}
}

func TestFindIDNormalizes(t *testing.T) {
	r := &Roster{IDs: []string{"Team-Rocket", "816000002"}}
	if got := r.FindID("team rocket"); got != 0 {
		t.Fatalf("FindID = %d, want 0", got)
	}
	if got := r.FindID("816000002"); got != 1 {
		t.Fatalf("FindID = %d, want 1", got)
	}
	if got := r.FindID("missing"); got != -1 {
		t.Fatalf("FindID for absent label = %d, want -1", got)
	}
	if got := r.FindID(""); got != -1 {
		t.Fatalf("FindID for empty label = %d, want -1", got)
	}
}

func TestClaimFillsFirstEmptyCell(t *testing.T) {
	r := &Roster{IDs: []string{"816000001", "", "816000003"}}

	row, appended := r.Claim("GroupX")
	if row != 1 || appended {
		t.Fatalf("Claim = (%d, %v), want (1, false)", row, appended)
	}
	if got := r.FindID("GroupX"); got != 1 {
		t.Fatalf("claim not visible to FindID: got %d", got)
	}
}

func TestClaimAppendsWhenFull(t *testing.T) {
	r := &Roster{IDs: []string{"a", "b"}}

	row, appended := r.Claim("GroupY")
	if row != 2 || !appended {
		t.Fatalf("Claim = (%d, %v), want (2, true)", row, appended)
	}
	if got := r.ID(2); got != "GroupY" {
		t.Fatalf("ID(2) = %q", got)
	}
}

func TestSetLinkGrowsColumn(t *testing.T) {
	r := &Roster{Links: []string{"existing"}}
	r.SetLink(3, "new-link")
	if got := r.Link(3); got != "new-link" {
		t.Fatalf("Link(3) = %q", got)
	}
	if got := r.Link(0); got != "existing" {
		t.Fatalf("Link(0) clobbered: %q", got)
	}
	if got := r.Link(2); got != "" {
		t.Fatalf("intermediate cell = %q, want empty", got)
	}
}

func TestSheetRow(t *testing.T) {
	r := &Roster{StartRow: 3}
	if got := r.SheetRow(0); got != 3 {
		t.Fatalf("SheetRow(0) = %d, want 3", got)
	}
	if got := r.SheetRow(4); got != 7 {
		t.Fatalf("SheetRow(4) = %d, want 7", got)
	}
}
