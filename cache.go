package notepress

import (
	"strings"
	"sync"
	"time"
)

// NoteCache is an in-memory cache of published notes and tags with TTL.
// It saves a directory walk per request; the serve command additionally
// invalidates it when the content directory changes on disk.
type NoteCache struct {
	mu      sync.RWMutex
	notes   []Note
	tags    []string
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewNoteCache creates a NoteCache backed by the given Store.
func NewNoteCache(s *Store, ttl time.Duration) *NoteCache {
	return &NoteCache{store: s, ttl: ttl}
}

func (c *NoteCache) valid() bool {
	return c.notes != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *NoteCache) Invalidate() {
	c.mu.Lock()
	c.notes = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *NoteCache) load() error {
	if c.valid() {
		return nil
	}
	notes, err := c.store.ListNotes("")
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	c.notes = notes
	c.tags = tags
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached notes and tags after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *NoteCache) ensureLoaded() ([]Note, []string, error) {
	c.mu.RLock()
	if c.valid() {
		notes, tags := c.notes, c.tags
		c.mu.RUnlock()
		return notes, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.notes, c.tags, nil
}

// ListNotes returns published notes, optionally filtered by tag.
func (c *NoteCache) ListNotes(tag string) ([]Note, error) {
	notes, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return notes, nil
	}
	normalized := normalizeTag(tag)
	var filtered []Note
	for _, n := range notes {
		for _, t := range n.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, n)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published notes.
func (c *NoteCache) ListTags() ([]string, error) {
	_, tags, err := c.ensureLoaded()
	return tags, err
}

// GetNote returns a single published note by slug from the cache.
func (c *NoteCache) GetNote(slug string) (Note, error) {
	notes, _, err := c.ensureLoaded()
	if err != nil {
		return Note{}, err
	}
	for _, n := range notes {
		if n.Slug == slug {
			return n, nil
		}
	}
	return Note{}, ErrNotFound
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
