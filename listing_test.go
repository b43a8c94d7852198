package notepress

import (
	"reflect"
	"testing"
	"time"
)

func dated(slug string, date string) Note {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return Note{Slug: slug, Title: slug, Date: t, Link: "/notes/" + slug}
}

func slugs(notes []Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Slug
	}
	return out
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	notes := []Note{
		dated("spring", "2024-04-24"),
		dated("summer", "2024-06-28"),
		dated("may", "2024-05-11"),
	}

	got := slugs(Recent(notes, 5))
	want := []string{"summer", "may", "spring"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recent order = %v, want %v", got, want)
	}
}

func TestRecentTruncatesToLimit(t *testing.T) {
	notes := []Note{
		dated("a", "2024-01-01"),
		dated("b", "2024-01-02"),
		dated("c", "2024-01-03"),
		dated("d", "2024-01-04"),
		dated("e", "2024-01-05"),
		dated("f", "2024-01-06"),
		dated("g", "2024-01-07"),
	}

	got := Recent(notes, 5)
	if len(got) != 5 {
		t.Fatalf("Recent returned %d notes, want 5", len(got))
	}

	want := []string{"g", "f", "e", "d", "c"}
	if !reflect.DeepEqual(slugs(got), want) {
		t.Errorf("Recent kept %v, want the 5 newest %v", slugs(got), want)
	}
}

func TestRecentReturnsAllWhenFewerThanLimit(t *testing.T) {
	notes := []Note{
		dated("a", "2024-01-01"),
		dated("b", "2024-01-02"),
	}

	if got := len(Recent(notes, 5)); got != 2 {
		t.Errorf("Recent returned %d notes, want 2", got)
	}
}

func TestRecentEmptyInput(t *testing.T) {
	if got := Recent(nil, 5); len(got) != 0 {
		t.Errorf("Recent(nil) returned %d notes, want 0", len(got))
	}
	if got := Recent([]Note{}, 5); len(got) != 0 {
		t.Errorf("Recent(empty) returned %d notes, want 0", len(got))
	}
}

func TestRecentZeroAndNegativeLimit(t *testing.T) {
	notes := []Note{dated("a", "2024-01-01")}

	if got := len(Recent(notes, 0)); got != 0 {
		t.Errorf("Recent with limit 0 returned %d notes", got)
	}
	if got := len(Recent(notes, -1)); got != 0 {
		t.Errorf("Recent with negative limit returned %d notes", got)
	}
}

func TestSortedBreaksDateTiesBySlug(t *testing.T) {
	notes := []Note{
		dated("zebra", "2024-03-03"),
		dated("apple", "2024-03-03"),
		dated("mango", "2024-03-03"),
	}

	got := slugs(Sorted(notes))
	want := []string{"apple", "mango", "zebra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tie order = %v, want slug ascending %v", got, want)
	}
}

func TestSortedPlacesUndatedLast(t *testing.T) {
	notes := []Note{
		{Slug: "undated-b"},
		dated("old", "2020-01-01"),
		{Slug: "undated-a"},
		dated("new", "2024-01-01"),
	}

	got := slugs(Sorted(notes))
	want := []string{"new", "old", "undated-a", "undated-b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want dated first then undated by slug %v", got, want)
	}
}

func TestSortedIsIdempotent(t *testing.T) {
	notes := []Note{
		dated("b", "2024-02-02"),
		dated("a", "2024-02-02"),
		dated("c", "2024-05-05"),
		{Slug: "undated"},
	}

	once := Sorted(notes)
	twice := Sorted(once)
	if !reflect.DeepEqual(slugs(once), slugs(twice)) {
		t.Errorf("sorting a sorted slice changed order: %v then %v", slugs(once), slugs(twice))
	}
}

func TestRecentDoesNotMutateInput(t *testing.T) {
	notes := []Note{
		dated("a", "2024-01-01"),
		dated("c", "2024-03-03"),
		dated("b", "2024-02-02"),
	}
	before := slugs(notes)

	Recent(notes, 2)

	if !reflect.DeepEqual(slugs(notes), before) {
		t.Errorf("input reordered to %v, want untouched %v", slugs(notes), before)
	}
}
