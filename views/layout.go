package views

import (
	"bytes"
	"context"
	"html"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/hkan/notepress"
)

// Meta carries per-page OpenGraph and SEO metadata into the head element.
type Meta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string // schema.org block, already serialized
}

// layout wraps a body component in the full page shell: head metadata,
// navigation, and footer.
func layout(cfg notepress.SiteConfig, m Meta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
		buf.WriteString(`<meta charset="utf-8"/>`)
		buf.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		buf.WriteString(`<title>` + html.EscapeString(m.Title) + `</title>`)
		if m.Description != "" {
			buf.WriteString(`<meta name="description" content="` + html.EscapeString(m.Description) + `"/>`)
		}
		buf.WriteString(`<meta property="og:title" content="` + html.EscapeString(m.Title) + `"/>`)
		ogType := m.OGType
		if ogType == "" {
			ogType = "website"
		}
		buf.WriteString(`<meta property="og:type" content="` + ogType + `"/>`)
		if m.URL != "" {
			buf.WriteString(`<link rel="canonical" href="` + html.EscapeString(m.URL) + `"/>`)
			buf.WriteString(`<meta property="og:url" content="` + html.EscapeString(m.URL) + `"/>`)
		}
		if m.Description != "" {
			buf.WriteString(`<meta property="og:description" content="` + html.EscapeString(m.Description) + `"/>`)
		}
		buf.WriteString(`<link rel="icon" href="/favicon.svg" type="image/svg+xml"/>`)
		buf.WriteString(`<link rel="alternate" type="application/rss+xml" title="` + html.EscapeString(cfg.Name) + `" href="/feed.xml"/>`)
		buf.WriteString(`<link rel="stylesheet" href="` + html.EscapeString(asset(cfg, "/public/styles.css")) + `"/>`)
		buf.WriteString(`<script src="https://unpkg.com/htmx.org@1.9.12" defer></script>`)
		if cfg.AnalyticsEnabled {
			buf.WriteString(`<script src="` + html.EscapeString(asset(cfg, "/public/analytics.js")) + `" defer></script>`)
		}
		if m.JSONLD != "" {
			buf.WriteString(`<script type="application/ld+json">` + m.JSONLD + `</script>`)
		}
		buf.WriteString(`</head>`)
		buf.WriteString(`<body class="min-h-screen bg-stone-50 text-ink antialiased dark:bg-neutral-900 dark:text-stone-100">`)

		buf.WriteString(`<header class="mx-auto flex max-w-2xl items-center justify-between px-4 py-6">`)
		buf.WriteString(`<a href="` + html.EscapeString(href(cfg, "/")) + `" class="font-bold tracking-tight" hx-get="` + html.EscapeString(href(cfg, "/")) + `?partial=home" hx-target="#main" hx-push-url="true">` + html.EscapeString(cfg.Name) + `</a>`)
		buf.WriteString(`<nav class="flex items-center gap-5 text-sm">`)
		buf.WriteString(`<a href="` + html.EscapeString(href(cfg, "/notes")) + `" class="underline decoration-2 underline-offset-4" hx-get="` + html.EscapeString(href(cfg, "/notes")) + `?partial=notes" hx-target="#main" hx-push-url="true">Notes</a>`)
		buf.WriteString(`<a href="/feed.xml" class="underline decoration-2 underline-offset-4">Feed</a>`)
		buf.WriteString(`</nav></header>`)

		buf.WriteString(`<main id="main">`)
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}

		var tail bytes.Buffer
		tail.WriteString(`</main>`)
		tail.WriteString(`<footer class="mx-auto max-w-2xl px-4 py-10 text-sm text-stone-500 dark:text-stone-400">`)
		owner := cfg.Author
		if owner == "" {
			owner = cfg.Name
		}
		tail.WriteString(`&copy; ` + strconv.Itoa(time.Now().Year()) + ` ` + html.EscapeString(owner))
		tail.WriteString(`</footer></body></html>`)
		_, err := w.Write(tail.Bytes())
		return err
	})
}
