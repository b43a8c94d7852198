package views

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/hkan/notepress"
)

// RecentNotes renders the landing page listing: each note links to its page
// and shows the long-form publish date. An empty collection renders an empty
// list with a placeholder line, never an error.
func RecentNotes(cfg notepress.SiteConfig, notes []notepress.Note) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeRecentNotes(&buf, cfg, notes)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func writeRecentNotes(buf *bytes.Buffer, cfg notepress.SiteConfig, notes []notepress.Note) {
	buf.WriteString(`<ul class="space-y-6">`)
	for _, n := range notes {
		buf.WriteString(`<li class="flex flex-col gap-1">`)
		buf.WriteString(`<a href="` + html.EscapeString(href(cfg, n.Link)) + `" class="text-xl font-semibold underline decoration-2 underline-offset-4 hover:decoration-4">`)
		buf.WriteString(html.EscapeString(n.Title))
		buf.WriteString(`</a>`)
		if !n.Date.IsZero() {
			buf.WriteString(`<time datetime="` + n.Date.Format("2006-01-02") + `" class="text-sm text-stone-500 dark:text-stone-400">`)
			buf.WriteString(FormatDate(n.Date))
			buf.WriteString(`</time>`)
		}
		buf.WriteString(`</li>`)
	}
	buf.WriteString(`</ul>`)
	if len(notes) == 0 {
		buf.WriteString(`<p class="text-stone-500 dark:text-stone-400">Nothing here yet.</p>`)
	}
}

// Home is the landing page: hero plus the most recent notes.
func Home(cfg notepress.SiteConfig, recent []notepress.Note) templ.Component {
	m := Meta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         notepress.BuildURL(cfg.URL),
		OGType:      "website",
		JSONLD:      notepress.WebsiteJsonLD(cfg),
	}
	return layout(cfg, m, HomePartial(cfg, recent))
}

// HomePartial is the landing page content without the shell, used as the
// htmx swap target.
func HomePartial(cfg notepress.SiteConfig, recent []notepress.Note) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString(`<section class="mx-auto max-w-2xl px-4 pt-8">`)
		buf.WriteString(`<h1 class="text-4xl font-bold tracking-tight">` + html.EscapeString(cfg.Name) + `</h1>`)
		if cfg.Description != "" {
			buf.WriteString(`<p class="mt-3 text-lg text-stone-600 dark:text-stone-300">` + html.EscapeString(cfg.Description) + `</p>`)
		}
		buf.WriteString(`</section>`)
		buf.WriteString(`<section class="mx-auto max-w-2xl px-4 py-12">`)
		buf.WriteString(`<h2 class="mb-6 text-sm font-semibold uppercase tracking-[0.12em] text-stone-500 dark:text-stone-400">Recent notes</h2>`)
		writeRecentNotes(&buf, cfg, recent)
		buf.WriteString(`<p class="mt-10"><a href="` + html.EscapeString(href(cfg, "/notes")) + `" class="underline decoration-2 underline-offset-4">All notes &rarr;</a></p>`)
		buf.WriteString(`</section>`)
		_, err := w.Write(buf.Bytes())
		return err
	})
}
