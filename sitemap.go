package notepress

import (
	"encoding/xml"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes the sitemap for the given notes to w. The home page
// and archive come first, then every note with its publish date as lastmod.
func WriteSitemap(w io.Writer, cfg SiteConfig, notes []Note) error {
	urls := []sitemapURL{
		{Loc: BuildURL(cfg.URL)},
		{Loc: BuildURL(cfg.URL, "notes")},
	}
	for _, n := range notes {
		u := sitemapURL{Loc: BuildURL(cfg.URL, "notes", n.Slug)}
		if !n.Date.IsZero() {
			u.LastMod = n.Date.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}

func (a *App) renderSitemap(c echo.Context, notes []Note) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteSitemap(c.Response(), a.Config, notes)
}
