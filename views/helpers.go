package views

import (
	"strings"
	"time"

	"github.com/hkan/notepress"
)

// FormatDate renders a publish date in the long form used in listings,
// layout "Monday, January 2, 2006". Zero dates render as an empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Monday, January 2, 2006")
}

// href prefixes a site-relative link with the configured base path and
// normalizes the trailing slash so links match the registered routes.
func href(cfg notepress.SiteConfig, link string) string {
	base := strings.TrimSuffix(cfg.BasePath, "/")
	if link == "" || link == "/" {
		return base + "/"
	}
	if !strings.HasSuffix(link, "/") {
		link += "/"
	}
	return base + link
}

// asset prefixes a static asset path with the base path, without the
// trailing slash href adds for page routes.
func asset(cfg notepress.SiteConfig, path string) string {
	return strings.TrimSuffix(cfg.BasePath, "/") + path
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	base := "inline-flex items-center rounded border border-ink dark:border-white/30 bg-stone-100 dark:bg-neutral-700 px-2.5 py-1 text-[11px] font-semibold uppercase tracking-[0.12em] hover:-translate-y-0.5 hover:shadow-sm transition"
	if active {
		base += " bg-ink dark:bg-white text-white dark:text-ink"
	}
	return base
}
