// Package roster models the spreadsheet roster as independently fetched
// columns. Columns come back from the API with differing lengths because
// trailing empty cells are omitted, so every accessor tolerates indexes
// beyond a column's end.
package roster

import "subsync/internal/textutil"

// Roster holds the fetched column snapshots for one reconciliation run.
// Index 0 corresponds to the configured start row of the sheet.
type Roster struct {
	StartRow   int
	IDs        []string
	FirstNames []string
	LastNames  []string
	Links      []string
}

// Len reports the number of logical rows, which is the longest column.
func (r *Roster) Len() int {
	n := len(r.IDs)
	for _, l := range []int{len(r.FirstNames), len(r.LastNames), len(r.Links)} {
		if l > n {
			n = l
		}
	}
	return n
}

func cell(column []string, i int) string {
	if i < 0 || i >= len(column) {
		return ""
	}
	return column[i]
}

// ID returns the identity label at row index i, or "" when absent.
func (r *Roster) ID(i int) string { return cell(r.IDs, i) }

// First returns the first name at row index i, or "" when absent.
func (r *Roster) First(i int) string { return cell(r.FirstNames, i) }

// Last returns the last name at row index i, or "" when absent.
func (r *Roster) Last(i int) string { return cell(r.LastNames, i) }

// Link returns the link cell at row index i, or "" when absent.
func (r *Roster) Link(i int) string { return cell(r.Links, i) }

// SheetRow converts a row index into the 1-based spreadsheet row number.
func (r *Roster) SheetRow(i int) int { return i + r.StartRow }

// FindID returns the index of the first row whose id cell equals label
// after normalization, or -1.
func (r *Roster) FindID(label string) int {
	want := textutil.Normalize(label)
	if want == "" {
		return -1
	}
	for i, id := range r.IDs {
		if textutil.Normalize(id) == want {
			return i
		}
	}
	return -1
}

// Claim assigns label to the first empty id cell, extending the column by
// one row when every cell is occupied. The claim is immediately visible to
// later lookups within the same run. It reports the claimed row index and
// whether the roster grew.
func (r *Roster) Claim(label string) (row int, appended bool) {
	for i, id := range r.IDs {
		if id == "" {
			r.IDs[i] = label
			return i, false
		}
	}
	r.IDs = append(r.IDs, label)
	return len(r.IDs) - 1, true
}

// SetLink records a link at row index i, growing the link column as needed
// so the idempotency check sees it on subsequent files in the same run.
func (r *Roster) SetLink(i int, value string) {
	for len(r.Links) <= i {
		r.Links = append(r.Links, "")
	}
	r.Links[i] = value
}
