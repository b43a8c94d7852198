package notepress

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	notes, err := a.Cache.ListNotes("")
	if err != nil {
		return err
	}
	recent := Recent(notes, a.Config.RecentCount)
	if wantsPartial(c, "home") {
		return Render(c, a.Views.HomePartial(a.Config, recent))
	}
	return Render(c, a.Views.Home(a.Config, recent))
}

func (a *App) handleArchive(c echo.Context) error {
	tag := c.QueryParam("tag")
	notes, err := a.Cache.ListNotes(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	if wantsPartial(c, "notes") {
		return Render(c, a.Views.ArchiveSection(a.Config, notes, tag, tags))
	}
	return Render(c, a.Views.Archive(a.Config, notes, tag, tags))
}

func (a *App) handleNote(c echo.Context) error {
	slug := c.Param("slug")
	note, err := a.Cache.GetNote(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	notes, err := a.Cache.ListNotes("")
	if err != nil {
		return err
	}
	related := FilterRelatedNotes(note, notes)
	if wantsPartial(c, "note") {
		return Render(c, a.Views.NotePartial(a.Config, note, related))
	}
	return Render(c, a.Views.Note(a.Config, note, related))
}

func (a *App) handleSitemap(c echo.Context) error {
	notes, err := a.Cache.ListNotes("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, notes)
}

func (a *App) handleFeed(c echo.Context) error {
	notes, err := a.Cache.ListNotes("")
	if err != nil {
		return err
	}
	return a.renderFeed(c, notes)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.Config.StaticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, RobotsTxt(a.Config))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
