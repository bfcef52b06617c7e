package resolve

import (
	"strings"

	"subsync/internal/groups"
	"subsync/internal/identity"
	"subsync/internal/matchcache"
	"subsync/internal/roster"
	"subsync/internal/textutil"
)

// cacheLookupStrategy resolves through a trusted cache entry whose label
// already occupies a roster row. Individual mode never creates rows, so a
// cached label missing from the roster is a miss.
type cacheLookupStrategy struct {
	roster *roster.Roster
	cache  *matchcache.Store
}

func (s *cacheLookupStrategy) method() Method { return MethodCache }

func (s *cacheLookupStrategy) resolve(filename string) (Result, bool) {
	match, ok := s.cache.Lookup(filename)
	if !ok {
		return Result{Row: -1, Reason: "filename not in cache"}, false
	}
	row := s.roster.FindID(match.Label)
	if row < 0 {
		return Result{Row: -1, Reason: "cached label not on roster"}, false
	}
	return Result{Row: row, Reason: "cached match"}, true
}

// numericIDStrategy matches the institutional id embedded in the filename
// against the id column.
type numericIDStrategy struct {
	roster   *roster.Roster
	prefixes []string
}

func (s *numericIDStrategy) method() Method { return MethodNumericID }

func (s *numericIDStrategy) resolve(filename string) (Result, bool) {
	id := identity.ExtractNumericID(filename, s.prefixes)
	if id == "" {
		return Result{Row: -1, Reason: "no institutional id in filename"}, false
	}
	row := s.roster.FindID(id)
	if row < 0 {
		return Result{Row: -1, Reason: "id not on roster"}, false
	}
	return Result{Row: row, Reason: "id " + id}, true
}

// nameScanStrategy matches the exporter-written name segment against the
// name columns. The first name must match exactly; the last name may match
// exactly, be absent on either side, or match by containment. The first
// qualifying row wins.
type nameScanStrategy struct {
	roster *roster.Roster
}

func (s *nameScanStrategy) method() Method { return MethodNameScan }

func (s *nameScanStrategy) resolve(filename string) (Result, bool) {
	first, last := identity.ExtractPersonName(filename)
	if first == "" {
		return Result{Row: -1, Reason: "no name segment in filename"}, false
	}
	wantFirst := textutil.Normalize(first)
	wantLast := textutil.Normalize(last)

	for i := 0; i < s.roster.Len(); i++ {
		rowFirst := textutil.Normalize(s.roster.First(i))
		if rowFirst == "" || rowFirst != wantFirst {
			continue
		}
		rowLast := textutil.Normalize(s.roster.Last(i))
		if lastNameCompatible(wantLast, rowLast) {
			return Result{Row: i, Reason: "name " + first + " " + last}, true
		}
	}
	return Result{Row: -1, Reason: "name not on roster"}, false
}

func lastNameCompatible(want, have string) bool {
	if want == "" || have == "" || want == have {
		return true
	}
	return strings.Contains(have, want) || strings.Contains(want, have)
}

// groupGuessStrategy compares candidate labels derived from the filename
// against the id column. Exact equality matches at any length; fragments
// and ids of two characters or fewer are excluded from containment only,
// where they would match almost anything.
type groupGuessStrategy struct {
	roster *roster.Roster
}

func (s *groupGuessStrategy) method() Method { return MethodGroupGuess }

func (s *groupGuessStrategy) resolve(filename string) (Result, bool) {
	candidates := identity.GroupCandidates(filename)
	if len(candidates) == 0 {
		return Result{Row: -1, Reason: "no candidate labels in filename"}, false
	}
	for _, candidate := range candidates {
		for i := 0; i < s.roster.Len(); i++ {
			id := textutil.Normalize(s.roster.ID(i))
			if id == "" {
				continue
			}
			if id == candidate {
				return Result{Row: i, Reason: "label " + candidate}, true
			}
			if len(candidate) > 2 && len(id) > 2 &&
				(strings.Contains(id, candidate) || strings.Contains(candidate, id)) {
				return Result{Row: i, Reason: "label contains " + candidate}, true
			}
		}
	}
	return Result{Row: -1, Reason: "no candidate label on roster"}, false
}

// cacheClaimStrategy is the group-mode cache strategy. A trusted cached
// label resolves to its roster row, or claims the first empty id cell when
// the group has not been written to the roster yet.
type cacheClaimStrategy struct {
	roster *roster.Roster
	cache  *matchcache.Store
}

func (s *cacheClaimStrategy) method() Method { return MethodCache }

func (s *cacheClaimStrategy) resolve(filename string) (Result, bool) {
	match, ok := s.cache.Lookup(filename)
	if !ok {
		return Result{Row: -1, Reason: "filename not in cache"}, false
	}
	return rowOrClaim(s.roster, match.Label, "cached match"), true
}

// groupIndexStrategy maps the exporter-written member name to a group
// through the membership index, then to that group's roster row.
type groupIndexStrategy struct {
	roster *roster.Roster
	index  *groups.Index
}

func (s *groupIndexStrategy) method() Method { return MethodGroupIndex }

func (s *groupIndexStrategy) resolve(filename string) (Result, bool) {
	name := memberName(filename)
	if name == "" {
		return Result{Row: -1, Reason: "no member name in filename"}, false
	}
	label, ok := s.index.Lookup(name)
	if !ok {
		return Result{Row: -1, Reason: "member " + name + " not in any group"}, false
	}
	return rowOrClaim(s.roster, label, "member "+name), true
}

func memberName(filename string) string {
	first, last := identity.ExtractPersonName(filename)
	if first != "" {
		return strings.TrimSpace(first + " " + last)
	}
	// Exports sometimes omit the numeric segment the strict pattern expects.
	if strings.Contains(filename, "assignsubmission") {
		parts := strings.Split(filename, "_")
		if len(parts) > 2 {
			return strings.TrimSpace(parts[0])
		}
	}
	return ""
}

func rowOrClaim(r *roster.Roster, label, reason string) Result {
	if row := r.FindID(label); row >= 0 {
		return Result{Row: row, Reason: reason}
	}
	row, appended := r.Claim(label)
	return Result{
		Row:      row,
		NewLabel: label,
		Claimed:  true,
		Extended: appended,
		Reason:   reason + " (claimed row)",
	}
}
