package notepress

import (
	"errors"
	"testing"
	"time"
)

func TestNoteCacheServesStaleUntilInvalidated(t *testing.T) {
	s := newTestStore(t)
	writeNoteFile(t, s.Dir(), "one.md", "---\ntitle: One\ndate: 2024-01-01\n---\nbody\n")

	c := NewNoteCache(s, time.Hour)
	notes, err := c.ListNotes("")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("ListNotes returned %d notes, want 1", len(notes))
	}

	// New file on disk is invisible while the cache is warm.
	writeNoteFile(t, s.Dir(), "two.md", "---\ntitle: Two\ndate: 2024-01-02\n---\nbody\n")
	notes, err = c.ListNotes("")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("cache reloaded early, got %d notes", len(notes))
	}

	c.Invalidate()
	notes, err = c.ListNotes("")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("after invalidate got %d notes, want 2", len(notes))
	}
}

func TestNoteCacheExpiresByTTL(t *testing.T) {
	s := newTestStore(t)
	writeNoteFile(t, s.Dir(), "one.md", "---\ntitle: One\ndate: 2024-01-01\n---\nbody\n")

	c := NewNoteCache(s, 50*time.Millisecond)
	if _, err := c.ListNotes(""); err != nil {
		t.Fatalf("ListNotes: %v", err)
	}

	writeNoteFile(t, s.Dir(), "two.md", "---\ntitle: Two\ndate: 2024-01-02\n---\nbody\n")
	time.Sleep(80 * time.Millisecond)

	notes, err := c.ListNotes("")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("after TTL got %d notes, want 2", len(notes))
	}
}

func TestNoteCacheFiltersByTag(t *testing.T) {
	s := newTestStore(t)
	writeNoteFile(t, s.Dir(), "a.md", "---\ntitle: A\ndate: 2024-01-01\ntags: [go]\n---\nbody\n")
	writeNoteFile(t, s.Dir(), "b.md", "---\ntitle: B\ndate: 2024-01-02\ntags: [life]\n---\nbody\n")

	c := NewNoteCache(s, time.Hour)
	notes, err := c.ListNotes(" GO ")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 1 || notes[0].Slug != "a" {
		t.Errorf("ListNotes(go) = %v, want [a]", slugs(notes))
	}

	tags, err := c.ListTags()
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("ListTags = %v, want 2 tags", tags)
	}
}

func TestNoteCacheGetNote(t *testing.T) {
	s := newTestStore(t)
	writeNoteFile(t, s.Dir(), "present.md", "---\ntitle: Present\ndate: 2024-01-01\n---\nbody\n")

	c := NewNoteCache(s, time.Hour)
	if _, err := c.GetNote("present"); err != nil {
		t.Errorf("GetNote(present) = %v, want nil", err)
	}
	if _, err := c.GetNote("absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetNote(absent) = %v, want ErrNotFound", err)
	}
}
