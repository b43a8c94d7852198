package views

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/hkan/notepress"
	"github.com/hkan/notepress/markdown"
)

// Note is the single-note page.
func Note(cfg notepress.SiteConfig, note notepress.Note, related []notepress.Note) templ.Component {
	m := Meta{
		Title:       note.Title + " | " + cfg.Name,
		Description: note.Summary,
		URL:         notepress.BuildURL(cfg.URL, "notes", note.Slug),
		OGType:      "article",
		JSONLD:      notepress.NoteJsonLD(note, cfg),
	}
	return layout(cfg, m, NotePartial(cfg, note, related))
}

// NotePartial is the note article without the shell.
func NotePartial(cfg notepress.SiteConfig, note notepress.Note, related []notepress.Note) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString(`<article class="mx-auto max-w-2xl px-4 py-8">`)
		buf.WriteString(`<header class="mb-8">`)
		buf.WriteString(`<h1 class="text-3xl font-bold tracking-tight">` + html.EscapeString(note.Title) + `</h1>`)
		if !note.Date.IsZero() {
			buf.WriteString(`<div class="mt-2 text-sm text-stone-500 dark:text-stone-400"><time datetime="` + note.Date.Format("2006-01-02") + `">` + FormatDate(note.Date) + `</time></div>`)
		}
		if len(note.Tags) > 0 {
			buf.WriteString(`<div class="mt-4 flex flex-wrap gap-2">`)
			for _, t := range note.Tags {
				buf.WriteString(`<a href="` + html.EscapeString(href(cfg, "/notes")+"?tag="+notepress.PathEscape(t)) + `" class="` + TagClass(false) + `">` + html.EscapeString(t) + `</a>`)
			}
			buf.WriteString(`</div>`)
		}
		buf.WriteString(`</header>`)
		buf.WriteString(`<div class="prose prose-stone dark:prose-invert max-w-none">`)
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
		if err := markdown.Markdown(note.Content).Render(ctx, w); err != nil {
			return err
		}

		var tail bytes.Buffer
		tail.WriteString(`</div>`)
		if len(related) > 0 {
			tail.WriteString(`<aside class="mt-14 border-t border-stone-200 pt-8 dark:border-neutral-700">`)
			tail.WriteString(`<h2 class="mb-4 text-sm font-semibold uppercase tracking-[0.12em] text-stone-500 dark:text-stone-400">Related notes</h2>`)
			tail.WriteString(`<ul class="space-y-3">`)
			for _, r := range related {
				tail.WriteString(`<li><a href="` + html.EscapeString(href(cfg, r.Link)) + `" class="underline decoration-2 underline-offset-4">` + html.EscapeString(r.Title) + `</a></li>`)
			}
			tail.WriteString(`</ul></aside>`)
		}
		tail.WriteString(`</article>`)
		_, err := w.Write(tail.Bytes())
		return err
	})
}
