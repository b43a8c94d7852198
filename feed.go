package notepress

import (
	"encoding/xml"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// WriteFeed writes the RSS 2.0 feed for the given notes to w. The server
// handler and the static exporter share this encoder.
func WriteFeed(w io.Writer, cfg SiteConfig, notes []Note) error {
	items := make([]rssItem, 0, len(notes))
	for _, n := range notes {
		pubDate := ""
		if !n.Date.IsZero() {
			pubDate = n.Date.Format(time.RFC1123Z)
		}
		noteURL := BuildURL(cfg.URL, "notes", n.Slug)
		items = append(items, rssItem{
			Title:       n.Title,
			Link:        noteURL,
			Description: n.Summary,
			PubDate:     pubDate,
			GUID:        noteURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        cfg.URL,
			Description: cfg.Description,
			Items:       items,
		},
	}
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(feed)
}

func (a *App) renderFeed(c echo.Context, notes []Note) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteFeed(c.Response(), a.Config, notes)
}
