package views

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/hkan/notepress"
)

// Archive is the full listing of published notes with tag filtering.
func Archive(cfg notepress.SiteConfig, notes []notepress.Note, activeTag string, tags []string) templ.Component {
	title := "Notes"
	if activeTag != "" {
		title = "Notes tagged " + activeTag
	}
	m := Meta{
		Title:       title + " | " + cfg.Name,
		Description: cfg.Description,
		URL:         notepress.BuildURL(cfg.URL, "notes"),
		OGType:      "website",
	}
	return layout(cfg, m, ArchiveSection(cfg, notes, activeTag, tags))
}

// ArchiveSection is the archive content without the shell: tag pills and
// the dated note list. It is the swap target for tag filtering.
func ArchiveSection(cfg notepress.SiteConfig, notes []notepress.Note, activeTag string, tags []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString(`<section class="mx-auto max-w-2xl px-4 py-8">`)
		buf.WriteString(`<h1 class="text-3xl font-bold tracking-tight">Notes</h1>`)

		if len(tags) > 0 {
			buf.WriteString(`<div class="mt-6 flex flex-wrap gap-2">`)
			writeTagPill(&buf, cfg, "", "all", activeTag == "")
			for _, t := range tags {
				writeTagPill(&buf, cfg, t, t, t == activeTag)
			}
			buf.WriteString(`</div>`)
		}

		buf.WriteString(`<ul class="mt-10 space-y-8">`)
		for _, n := range notes {
			buf.WriteString(`<li>`)
			buf.WriteString(`<a href="` + html.EscapeString(href(cfg, n.Link)) + `" class="text-xl font-semibold underline decoration-2 underline-offset-4 hover:decoration-4">`)
			buf.WriteString(html.EscapeString(n.Title))
			buf.WriteString(`</a>`)
			if !n.Date.IsZero() {
				buf.WriteString(`<div class="mt-1 text-sm text-stone-500 dark:text-stone-400"><time datetime="` + n.Date.Format("2006-01-02") + `">` + FormatDate(n.Date) + `</time></div>`)
			}
			if n.Summary != "" {
				buf.WriteString(`<p class="mt-2 text-stone-600 dark:text-stone-300">` + html.EscapeString(n.Summary) + `</p>`)
			}
			buf.WriteString(`</li>`)
		}
		buf.WriteString(`</ul>`)
		if len(notes) == 0 {
			buf.WriteString(`<p class="mt-10 text-stone-500 dark:text-stone-400">Nothing here yet.</p>`)
		}
		buf.WriteString(`</section>`)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// writeTagPill renders one tag filter link. An empty tag targets the
// unfiltered archive.
func writeTagPill(buf *bytes.Buffer, cfg notepress.SiteConfig, tag, label string, active bool) {
	target := href(cfg, "/notes")
	hxTarget := target + "?partial=notes"
	if tag != "" {
		target += "?tag=" + notepress.PathEscape(tag)
		hxTarget += "&tag=" + notepress.PathEscape(tag)
	}
	buf.WriteString(`<a href="` + html.EscapeString(target) + `" class="` + TagClass(active) + `" hx-get="` + html.EscapeString(hxTarget) + `" hx-target="#main" hx-push-url="` + html.EscapeString(target) + `">`)
	buf.WriteString(html.EscapeString(label))
	buf.WriteString(`</a>`)
}
