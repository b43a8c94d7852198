package notepress

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	yaml "gopkg.in/yaml.v2"
)

// ErrNotFound is returned when no note exists for a requested slug.
var ErrNotFound = errors.New("notepress: note not found")

// noteMatter mirrors the YAML front matter block of a note file.
type noteMatter struct {
	Title   string   `yaml:"title,omitempty"`
	Date    string   `yaml:"date,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Summary string   `yaml:"summary,omitempty"`
	Draft   bool     `yaml:"draft,omitempty"`
}

// dateFormats are tried in order when parsing front matter dates.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate tries the supported date layouts in order, returning the zero
// time when none match.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Store reads and writes notes as markdown files with YAML front matter
// under a single content directory.
type Store struct {
	dir string
}

// NewStore ensures the content directory exists and returns a Store over it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("notepress: create content dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the content directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// Load walks the content directory, parses every markdown file into a Note,
// and returns the collection ordered newest first. When two files resolve to
// the same slug the one walked last wins, matching upsert semantics.
func (s *Store) Load() ([]Note, error) {
	bySlug := make(map[string]Note)
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			if d.IsDir() && path != s.dir {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}
		note, err := s.readNote(path)
		if err != nil {
			return err
		}
		bySlug[note.Slug] = note
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("notepress: load notes: %w", err)
	}
	notes := make([]Note, 0, len(bySlug))
	for _, n := range bySlug {
		notes = append(notes, n)
	}
	sort.SliceStable(notes, byRecency(notes))
	return notes, nil
}

// readNote parses a single note file. The slug is the filename stem; a
// missing title falls back to the title-cased slug.
func (s *Store) readNote(path string) (Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return Note{}, err
	}
	defer f.Close()

	var matter noteMatter
	body, err := frontmatter.Parse(f, &matter)
	if err != nil {
		return Note{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	title := strings.TrimSpace(matter.Title)
	if title == "" {
		title = TitleFromSlug(slug)
	}
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return Note{
		Slug:       slug,
		Title:      title,
		Date:       parseDate(matter.Date),
		Tags:       normalizeTags(matter.Tags),
		Summary:    strings.TrimSpace(matter.Summary),
		Link:       "/notes/" + slug,
		Content:    strings.TrimSpace(string(body)),
		Draft:      matter.Draft,
		SourcePath: filepath.ToSlash(rel),
	}, nil
}

// ListNotes returns all published notes ordered newest first. If tag is
// non-empty, results are filtered to notes carrying that tag.
func (s *Store) ListNotes(tag string) ([]Note, error) {
	all, err := s.Load()
	if err != nil {
		return nil, err
	}
	normalized := strings.ToLower(strings.TrimSpace(tag))
	var notes []Note
	for _, n := range all {
		if n.Draft {
			continue
		}
		if normalized != "" && !hasTag(n, normalized) {
			continue
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func hasTag(n Note, tag string) bool {
	for _, t := range n.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

// ListTags returns a sorted, deduplicated slice of all tags on published notes.
func (s *Store) ListTags() ([]string, error) {
	notes, err := s.ListNotes("")
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, n := range notes {
		for _, t := range n.Tags {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetNote returns a single published note by slug.
func (s *Store) GetNote(slug string) (Note, error) {
	n, err := s.GetNoteAny(slug)
	if err != nil {
		return Note{}, err
	}
	if n.Draft {
		return Note{}, ErrNotFound
	}
	return n, nil
}

// GetNoteAny returns a note by slug regardless of draft status (for admin).
func (s *Store) GetNoteAny(slug string) (Note, error) {
	direct := filepath.Join(s.dir, slug+".md")
	if _, err := os.Stat(direct); err == nil {
		return s.readNote(direct)
	}
	all, err := s.Load()
	if err != nil {
		return Note{}, err
	}
	for _, n := range all {
		if n.Slug == slug {
			return n, nil
		}
	}
	return Note{}, ErrNotFound
}

// ListAllNotes returns every note, drafts included, ordered newest first.
func (s *Store) ListAllNotes() ([]Note, error) {
	return s.Load()
}

// SaveNote serializes a note back to its markdown file. Notes loaded from a
// nested path are written back in place; new notes land at <slug>.md in the
// content directory root.
func (s *Store) SaveNote(n Note) error {
	if strings.TrimSpace(n.Slug) == "" {
		return errors.New("notepress: save note: empty slug")
	}
	matter := noteMatter{
		Title:   strings.TrimSpace(n.Title),
		Tags:    normalizeTags(n.Tags),
		Summary: strings.TrimSpace(n.Summary),
		Draft:   n.Draft,
	}
	if !n.Date.IsZero() {
		matter.Date = n.Date.Format("2006-01-02")
	}
	head, err := yaml.Marshal(matter)
	if err != nil {
		return fmt.Errorf("notepress: marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimSpace(n.Content))
	buf.WriteString("\n")

	path := filepath.Join(s.dir, n.Slug+".md")
	if n.SourcePath != "" {
		path = filepath.Join(s.dir, filepath.FromSlash(n.SourcePath))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("notepress: save note: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("notepress: save note: %w", err)
	}
	return nil
}

// DeleteNote removes a note's file by slug. Deleting a slug that does not
// exist is a no-op.
func (s *Store) DeleteNote(slug string) error {
	direct := filepath.Join(s.dir, slug+".md")
	if _, err := os.Stat(direct); err == nil {
		return os.Remove(direct)
	}
	all, err := s.Load()
	if err != nil {
		return err
	}
	for _, n := range all {
		if n.Slug == slug && n.SourcePath != "" {
			return os.Remove(filepath.Join(s.dir, filepath.FromSlash(n.SourcePath)))
		}
	}
	return nil
}

// ParseTags splits a comma-delimited tag string into normalized tags.
func ParseTags(tagString string) []string {
	var tags []string
	for _, p := range strings.Split(tagString, ",") {
		if t := strings.ToLower(strings.TrimSpace(p)); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// normalizeTags lowercases and trims tags, dropping empties.
func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if v := strings.ToLower(strings.TrimSpace(t)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
