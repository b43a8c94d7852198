// Package notepress is a personal notes site engine built with Go, Echo,
// and templ. Content lives as markdown files with YAML front matter; the
// engine serves the site with an admin dashboard, feed, sitemap, and
// privacy-first analytics, and can also export the whole site statically.
//
// Users provide their own templ components via the ViewFuncs struct, and
// notepress handles handler logic, middleware, and content loading. The
// views package in this module ships a ready-made set.
package notepress

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/hkan/notepress/analytics"
)

// ViewFuncs holds user-provided templ components that the engine calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home             func(cfg SiteConfig, recent []Note) templ.Component
	HomePartial      func(cfg SiteConfig, recent []Note) templ.Component
	Archive          func(cfg SiteConfig, notes []Note, activeTag string, tags []string) templ.Component
	ArchiveSection   func(cfg SiteConfig, notes []Note, activeTag string, tags []string) templ.Component
	Note             func(cfg SiteConfig, note Note, related []Note) templ.Component
	NotePartial      func(cfg SiteConfig, note Note, related []Note) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(notes []Note, message string, csrfToken string) templ.Component
	AdminFormPartial func(note Note, csrfToken string) templ.Component
	AdminImages      func(images []Image, csrfToken string) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// App is the central notepress application. It wires together the store,
// cache, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *NoteCache
	Views  ViewFuncs

	loginLimiter   *LoginLimiter
	analyticsStore *analytics.Store
	customRoutes   []func(*App)
}

// New creates a new notepress App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the content store, cache, middleware, and routes, then
// starts the server. It blocks until the server stops.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("notepress: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("notepress: SessionSecret is required")
	}

	if err := a.init(); err != nil {
		return err
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.Config.AnalyticsEnabled {
		analyticsStore, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("notepress: init analytics: %w", err)
		}
		a.analyticsStore = analyticsStore
		if err := analytics.InitSalt(analyticsStore); err != nil {
			return fmt.Errorf("notepress: init analytics salt: %w", err)
		}
		stopCleanup := analyticsStore.StartCleanupScheduler(365, 24*time.Hour)
		defer stopCleanup()
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// init prepares the content store and cache without starting the server.
// Export uses it directly so `build` needs no admin credentials.
func (a *App) init() error {
	if a.Store == nil {
		store, err := NewStore(a.Config.ContentDir)
		if err != nil {
			return fmt.Errorf("notepress: init store: %w", err)
		}
		a.Store = store
	}
	if a.Cache == nil {
		a.Cache = NewNoteCache(a.Store, a.Config.NoteCacheTTL)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Engine-shipped assets (analytics beacon) are served under /public/
	// and fall through to the user's static dir for everything else.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/analytics.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/notes/", a.handleArchive)
	e.GET("/notes/:slug/", a.handleNote)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/note/:slug/", a.handleAdminNote)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/note/:slug/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)

	// Analytics routes
	if a.Config.AnalyticsEnabled && a.analyticsStore != nil {
		analyticsHandler := analytics.NewHandler(a.analyticsStore)
		analyticsAuthMiddleware := func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if !IsAdmin(c) {
					return c.Redirect(http.StatusSeeOther, "/admin/")
				}
				return next(c)
			}
		}
		publicGroup := e.Group("")
		analyticsHandler.RegisterRoutes(e, publicGroup, analyticsAuthMiddleware)
		e.GET("/admin/analytics/", func(c echo.Context) error {
			if !IsAdmin(c) {
				return c.Redirect(http.StatusSeeOther, "/admin/")
			}
			return analyticsHandler.Dashboard(c)
		})
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.analyticsStore != nil {
		a.analyticsStore.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("notepress: required environment variable %s is not set", key)
	}
	return v
}
