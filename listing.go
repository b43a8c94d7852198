package notepress

import "sort"

// byRecency orders notes newest first. Equal dates fall back to slug
// ascending so listings are stable across reloads; undated notes sort
// after all dated ones.
func byRecency(notes []Note) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := notes[i], notes[j]
		switch {
		case a.Date.IsZero() && b.Date.IsZero():
			return a.Slug < b.Slug
		case a.Date.IsZero():
			return false
		case b.Date.IsZero():
			return true
		case !a.Date.Equal(b.Date):
			return a.Date.After(b.Date)
		default:
			return a.Slug < b.Slug
		}
	}
}

// Sorted returns a copy of notes ordered newest first.
func Sorted(notes []Note) []Note {
	out := make([]Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, byRecency(out))
	return out
}

// Recent returns at most n notes from the collection, newest first.
// The input is never mutated, so feeding the result back in yields the
// same slice again.
func Recent(notes []Note, n int) []Note {
	out := Sorted(notes)
	if n < 0 {
		n = 0
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}
