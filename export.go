package notepress

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/a-h/templ"
)

// Export renders the published site to Config.OutputDir without a server:
// index.html, notes/index.html, one notes/<slug>/index.html per note,
// feed.xml, sitemap.xml, robots.txt, a copy of StaticDir under public/,
// and the embedded engine assets. The same view components and encoders
// back both the server and the export, so the output matches what the
// server would send. Returns the number of HTML pages written.
func (a *App) Export() (int, error) {
	if err := a.init(); err != nil {
		return 0, err
	}
	notes, err := a.Store.ListNotes("")
	if err != nil {
		return 0, err
	}
	tags, err := a.Store.ListTags()
	if err != nil {
		return 0, err
	}

	out := a.Config.OutputDir
	if err := os.RemoveAll(out); err != nil {
		return 0, fmt.Errorf("notepress: clean output dir: %w", err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return 0, fmt.Errorf("notepress: create output dir: %w", err)
	}

	ctx := context.Background()
	pages := 0

	recent := Recent(notes, a.Config.RecentCount)
	if err := writePage(ctx, filepath.Join(out, "index.html"), a.Views.Home(a.Config, recent)); err != nil {
		return pages, err
	}
	pages++

	if err := writePage(ctx, filepath.Join(out, "notes", "index.html"), a.Views.Archive(a.Config, notes, "", tags)); err != nil {
		return pages, err
	}
	pages++

	for _, n := range notes {
		related := FilterRelatedNotes(n, notes)
		path := filepath.Join(out, "notes", n.Slug, "index.html")
		if err := writePage(ctx, path, a.Views.Note(a.Config, n, related)); err != nil {
			return pages, err
		}
		pages++
	}

	if err := writeWith(filepath.Join(out, "feed.xml"), func(w io.Writer) error {
		return WriteFeed(w, a.Config, notes)
	}); err != nil {
		return pages, err
	}
	if err := writeWith(filepath.Join(out, "sitemap.xml"), func(w io.Writer) error {
		return WriteSitemap(w, a.Config, notes)
	}); err != nil {
		return pages, err
	}
	if err := os.WriteFile(filepath.Join(out, "robots.txt"), []byte(RobotsTxt(a.Config)), 0o644); err != nil {
		return pages, fmt.Errorf("notepress: write robots.txt: %w", err)
	}

	if _, err := os.Stat(a.Config.StaticDir); err == nil {
		if err := copyDirContents(a.Config.StaticDir, filepath.Join(out, "public")); err != nil {
			return pages, fmt.Errorf("notepress: copy static assets: %w", err)
		}
		// The server exposes the favicon at the site root as well.
		favicon := filepath.Join(a.Config.StaticDir, "favicon.svg")
		if _, err := os.Stat(favicon); err == nil {
			if err := copyFile(favicon, filepath.Join(out, "favicon.svg")); err != nil {
				return pages, fmt.Errorf("notepress: copy favicon: %w", err)
			}
		}
	}

	if err := exportEmbedded(filepath.Join(out, "public")); err != nil {
		return pages, err
	}

	return pages, nil
}

// writePage renders a component into an HTML file, creating parent dirs.
func writePage(ctx context.Context, path string, cmp templ.Component) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("notepress: create page dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("notepress: create page: %w", err)
	}
	defer f.Close()
	if err := cmp.Render(ctx, f); err != nil {
		return fmt.Errorf("notepress: render %s: %w", filepath.Base(filepath.Dir(path)), err)
	}
	return nil
}

// writeWith creates path and streams content into it through fn.
func writeWith(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("notepress: create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("notepress: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// exportEmbedded copies the engine-shipped assets into the output tree so
// exported pages can reference them the same way served pages do.
func exportEmbedded(dst string) error {
	sub, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return fmt.Errorf("notepress: embedded assets: %w", err)
	}
	return fs.WalkDir(sub, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(filepath.Join(dst, path), 0o755)
		}
		data, err := fs.ReadFile(sub, path)
		if err != nil {
			return fmt.Errorf("notepress: read embedded %s: %w", path, err)
		}
		target := filepath.Join(dst, path)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

// copyDirContents recursively copies the contents of src into dst.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

// copyFile copies a single file, creating the destination directory.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
