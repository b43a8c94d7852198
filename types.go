package notepress

import "time"

// Note is the core content type, loaded from a markdown file with YAML
// front matter and rendered by the view components.
type Note struct {
	Slug    string
	Title   string
	Date    time.Time
	Tags    []string
	Summary string
	Link    string
	Content string // markdown body, rendered at view time
	Draft   bool

	// SourcePath is the file the note was loaded from, relative to the
	// content directory. Empty for notes that have not been persisted yet.
	SourcePath string
}

// Image holds metadata for an uploaded image under the uploads directory.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}
