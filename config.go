package notepress

import "time"

// SiteConfig holds all configuration for a notepress site.
type SiteConfig struct {
	Name        string // Site name (default "Notes")
	URL         string // Canonical URL (default "http://localhost:3000")
	BasePath    string // Path prefix when the site lives below the domain root (default "/")
	Description string // Site description for the feed and meta tags
	Author      string // Author name for JSON-LD

	Addr       string // Listen address (default ":3000")
	ContentDir string // Directory of markdown note files (default "content")
	StaticDir  string // User-owned static assets (default "public")
	OutputDir  string // Static export target (default "dist")

	AnalyticsEnabled      bool   // Enable analytics (default false)
	AnalyticsDatabasePath string // Analytics SQLite path (default "data/analytics.db")

	AdminPassword string // Required for serving: admin login password
	SessionSecret string // Required for serving: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	NoteCacheTTL time.Duration // Note cache TTL (default 30s)
	RecentCount  int           // Notes shown on the landing page (default 5)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Notes"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.BasePath == "" {
		c.BasePath = "/"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.NoteCacheTTL == 0 {
		c.NoteCacheTTL = 30 * time.Second
	}
	if c.RecentCount == 0 {
		c.RecentCount = 5
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
