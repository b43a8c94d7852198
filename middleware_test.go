package notepress

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestKeepsExactPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/public/styles.css", true},
		{"/api/analytics/collect", true},
		{"/admin/analytics/api/stats", true},
		{"/admin/analytics/fragments/stats", true},
		{"/sitemap.xml", true},
		{"/feed.xml", true},
		{"/favicon.svg", true},
		{"/", false},
		{"/notes", false},
		{"/admin", false},
	}
	for _, tt := range tests {
		if got := keepsExactPath(tt.path); got != tt.want {
			t.Errorf("keepsExactPath(%q) = %t, want %t", tt.path, got, tt.want)
		}
	}
}

func TestCacheControlMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(cacheControlMiddleware)
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/public/styles.css", handler)
	e.GET("/feed.xml", handler)
	e.GET("/admin/", handler)
	e.POST("/api/analytics/collect", handler)
	e.GET("/notes/", handler)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/public/styles.css", "public, max-age=31536000, immutable"},
		{http.MethodGet, "/feed.xml", "public, max-age=86400"},
		{http.MethodGet, "/admin/", "no-store"},
		{http.MethodPost, "/api/analytics/collect", "no-store"},
		{http.MethodGet, "/notes/", "public, max-age=3600"},
	}
	for _, tt := range tests {
		rec := doRequest(e, httptest.NewRequest(tt.method, tt.path, nil))
		if got := rec.Header().Get("Cache-Control"); got != tt.want {
			t.Errorf("Cache-Control for %s = %q, want %q", tt.path, got, tt.want)
		}
	}
}
