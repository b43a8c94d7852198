package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hkan/notepress/analytics/templates"
)

// Handler handles analytics HTTP requests.
type Handler struct {
	store          *Store
	collectLimiter *rateLimiter
}

// NewHandler creates a new analytics handler. The collect endpoint is
// rate-limited to 60 requests per IP per minute.
func NewHandler(store *Store) *Handler {
	return &Handler{
		store:          store,
		collectLimiter: newRateLimiter(60, time.Minute),
	}
}

// CollectRequest is the request body the beacon script sends.
type CollectRequest struct {
	Path        string `json:"path"`
	Referrer    string `json:"referrer"`
	ScreenSize  string `json:"screen_size"`
	UserAgent   string `json:"user_agent"`
	DurationSec int    `json:"duration_sec"`
}

// Input validation limits for the collect endpoint.
const (
	maxPathLen       = 2048
	maxReferrerLen   = 2048
	maxScreenSizeLen = 32
	maxUserAgentLen  = 512
	maxDurationSec   = 86400 // 24 hours
)

func validateCollectRequest(req *CollectRequest) error {
	if len(req.Path) > maxPathLen {
		return fmt.Errorf("path exceeds maximum length of %d", maxPathLen)
	}
	if len(req.Referrer) > maxReferrerLen {
		return fmt.Errorf("referrer exceeds maximum length of %d", maxReferrerLen)
	}
	if len(req.ScreenSize) > maxScreenSizeLen {
		return fmt.Errorf("screen_size exceeds maximum length of %d", maxScreenSizeLen)
	}
	if len(req.UserAgent) > maxUserAgentLen {
		return fmt.Errorf("user_agent exceeds maximum length of %d", maxUserAgentLen)
	}
	if req.DurationSec < 0 {
		return fmt.Errorf("duration_sec must not be negative")
	}
	if req.DurationSec > maxDurationSec {
		return fmt.Errorf("duration_sec exceeds maximum of %d", maxDurationSec)
	}
	return nil
}

// Collect handles incoming analytics beacons.
func (h *Handler) Collect(c echo.Context) error {
	// Rate limit by IP to prevent analytics flooding.
	if !h.collectLimiter.allow(c.RealIP()) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	// Honor Do Not Track.
	if c.Request().Header.Get("DNT") == "1" {
		return c.NoContent(http.StatusNoContent)
	}

	var req CollectRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}
	if err := validateCollectRequest(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = c.Request().UserAgent()
	}

	ip := c.RealIP()

	// Crawlers go to their own table and never count as visitors.
	if IsBot(userAgent) {
		botVisit := &BotVisit{
			BotName:   ExtractBotName(userAgent),
			IPHash:    HashIP(ip),
			UserAgent: userAgent,
			Path:      req.Path,
			Timestamp: time.Now().UTC(),
		}
		if err := h.store.SaveBotVisit(botVisit); err != nil {
			c.Logger().Errorf("Failed to save bot visit: %v", err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	visitorID := GenerateVisitorID(ip, userAgent)

	// A positive duration marks the unload beacon. Update the existing
	// visit instead of creating a duplicate row.
	if req.DurationSec > 0 {
		if err := h.store.UpdateVisitDuration(visitorID, req.Path, req.DurationSec); err != nil {
			c.Logger().Errorf("Failed to update visit duration: %v", err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	browser, os, device := ParseUserAgent(userAgent)

	visit := &Visit{
		VisitorID:   visitorID,
		SessionID:   generateSessionID(visitorID),
		IPHash:      HashIP(ip),
		Browser:     browser,
		OS:          os,
		Device:      device,
		Path:        req.Path,
		Referrer:    CleanReferrer(req.Referrer),
		ScreenSize:  req.ScreenSize,
		Timestamp:   time.Now().UTC(),
		DurationSec: req.DurationSec,
	}

	if err := h.store.SaveVisit(visit); err != nil {
		c.Logger().Errorf("Failed to save visit: %v", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// StatsResponse is the JSON response for the stats endpoint.
type StatsResponse struct {
	Stats      *Stats `json:"stats"`
	Realtime   int    `json:"realtime_visitors"`
	PeriodDays int    `json:"period_days"`
	Hourly     bool   `json:"hourly"`
	Monthly    bool   `json:"monthly"`
}

// GetStats returns visitor statistics as JSON.
func (h *Handler) GetStats(c echo.Context) error {
	_, days, hourly, monthly := parsePeriod(c.QueryParam("period"))

	now := time.Now().UTC()
	from, to := calcTimeRange(now, days, hourly)

	stats, err := h.store.GetStats(from, to, hourly, monthly)
	if err != nil {
		c.Logger().Errorf("Failed to get stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if hourly {
		stats.DailyViews = fillHourlyData(stats.DailyViews, from)
	}

	realtime, _ := h.store.GetRealtimeVisitors()

	return c.JSON(http.StatusOK, StatsResponse{
		Stats:      stats,
		Realtime:   realtime,
		PeriodDays: days,
		Hourly:     hourly,
		Monthly:    monthly,
	})
}

// GetStatsFragment returns the visitor stats panel as HTML for htmx.
func (h *Handler) GetStatsFragment(c echo.Context) error {
	_, days, hourly, monthly := parsePeriod(c.QueryParam("period"))

	now := time.Now().UTC()
	from, to := calcTimeRange(now, days, hourly)

	stats, err := h.store.GetStats(from, to, hourly, monthly)
	if err != nil {
		c.Logger().Errorf("Failed to get stats fragment: %v", err)
		return c.HTML(http.StatusInternalServerError, "<div class='loading'>Error loading data</div>")
	}

	if hourly {
		stats.DailyViews = fillHourlyData(stats.DailyViews, from)
	}

	realtime, _ := h.store.GetRealtimeVisitors()

	component := templates.StatsFragmentOnly(statsViewModel(stats), realtime, days, hourly, monthly)
	return component.Render(c.Request().Context(), c.Response())
}

// BotStatsResponse is the JSON response for the bot stats endpoint.
type BotStatsResponse struct {
	Stats      *BotStats `json:"stats"`
	PeriodDays int       `json:"period_days"`
	Hourly     bool      `json:"hourly"`
	Monthly    bool      `json:"monthly"`
}

// GetBotStats returns crawler statistics as JSON.
func (h *Handler) GetBotStats(c echo.Context) error {
	_, days, hourly, monthly := parsePeriod(c.QueryParam("period"))

	now := time.Now().UTC()
	from, to := calcTimeRange(now, days, hourly)

	stats, err := h.store.GetBotStats(from, to, hourly, monthly)
	if err != nil {
		c.Logger().Errorf("Failed to get bot stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if hourly {
		stats.DailyVisits = fillHourlyData(stats.DailyVisits, from)
	}

	return c.JSON(http.StatusOK, BotStatsResponse{
		Stats:      stats,
		PeriodDays: days,
		Hourly:     hourly,
		Monthly:    monthly,
	})
}

// GetBotStatsFragment returns the crawler stats panel as HTML for htmx.
func (h *Handler) GetBotStatsFragment(c echo.Context) error {
	_, days, hourly, monthly := parsePeriod(c.QueryParam("period"))

	now := time.Now().UTC()
	from, to := calcTimeRange(now, days, hourly)

	stats, err := h.store.GetBotStats(from, to, hourly, monthly)
	if err != nil {
		c.Logger().Errorf("Failed to get bot stats fragment: %v", err)
		return c.HTML(http.StatusInternalServerError, "<div class='loading'>Error loading data</div>")
	}

	if hourly {
		stats.DailyVisits = fillHourlyData(stats.DailyVisits, from)
	}

	component := templates.BotStatsFragmentOnly(botStatsViewModel(stats), days, hourly, monthly)
	return component.Render(c.Request().Context(), c.Response())
}

// GetSetupFragment returns the setup tab as HTML for htmx.
func (h *Handler) GetSetupFragment(c echo.Context) error {
	origin := c.Scheme() + "://" + c.Request().Host
	component := templates.SetupContent(origin)
	return component.Render(c.Request().Context(), c.Response())
}

// Dashboard renders the analytics dashboard page. The panels inside load
// themselves from the fragment endpoints.
func (h *Handler) Dashboard(c echo.Context) error {
	return templates.Dashboard().Render(c.Request().Context(), c.Response())
}

// parsePeriod maps the period query parameter to a day count and chart
// resolution.
func parsePeriod(period string) (string, int, bool, bool) {
	var days int
	var hourly bool
	var monthly bool

	switch period {
	case "today":
		days = 1
		hourly = true
	case "week":
		days = 7
	case "month":
		days = 30
	case "year":
		days = 365
		monthly = true
	default:
		days = 7
		period = "week"
	}

	return period, days, hourly, monthly
}

func dimensionVMs(in []DimensionStat) []templates.DimensionStatViewModel {
	out := make([]templates.DimensionStatViewModel, len(in))
	for i, d := range in {
		out[i] = templates.DimensionStatViewModel{Name: d.Name, Count: d.Count}
	}
	return out
}

func pageVMs(in []PageStat) []templates.PageStatViewModel {
	out := make([]templates.PageStatViewModel, len(in))
	for i, p := range in {
		out[i] = templates.PageStatViewModel{Path: p.Path, Views: p.Views}
	}
	return out
}

func seriesVMs(in []DailyView) []templates.DailyViewViewModel {
	out := make([]templates.DailyViewViewModel, len(in))
	for i, v := range in {
		out[i] = templates.DailyViewViewModel{Date: v.Date, Views: v.Views}
	}
	return out
}

func latestVMs(in []LatestPageVisit) []templates.LatestPageVisitViewModel {
	out := make([]templates.LatestPageVisitViewModel, len(in))
	for i, v := range in {
		out[i] = templates.LatestPageVisitViewModel{Path: v.Path, Timestamp: v.Timestamp, Browser: v.Browser}
	}
	return out
}

// statsViewModel converts Stats to the templates view model.
func statsViewModel(stats *Stats) *templates.StatsViewModel {
	return &templates.StatsViewModel{
		Period:         stats.Period,
		UniqueVisitors: stats.UniqueVisitors,
		TotalViews:     stats.TotalViews,
		AvgDuration:    stats.AvgDuration,
		TopPages:       pageVMs(stats.TopPages),
		LatestPages:    latestVMs(stats.LatestPages),
		BrowserStats:   dimensionVMs(stats.BrowserStats),
		OSStats:        dimensionVMs(stats.OSStats),
		DeviceStats:    dimensionVMs(stats.DeviceStats),
		ReferrerStats:  dimensionVMs(stats.ReferrerStats),
		DailyViews:     seriesVMs(stats.DailyViews),
	}
}

// botStatsViewModel converts BotStats to the templates view model.
func botStatsViewModel(stats *BotStats) *templates.BotStatsViewModel {
	return &templates.BotStatsViewModel{
		Period:      stats.Period,
		TotalVisits: stats.TotalVisits,
		TopBots:     dimensionVMs(stats.TopBots),
		TopPages:    pageVMs(stats.TopPages),
		DailyVisits: seriesVMs(stats.DailyVisits),
	}
}

// calcTimeRange returns the from/to times for the given period.
func calcTimeRange(now time.Time, days int, hourly bool) (time.Time, time.Time) {
	if hourly {
		currentHour := now.Truncate(time.Hour)
		from := currentHour.Add(-23 * time.Hour)
		return from, now
	}
	from := now.AddDate(0, 0, -days).Truncate(24 * time.Hour)
	to := now.Add(24 * time.Hour).Truncate(24 * time.Hour)
	return from, to
}

// fillHourlyData ensures all 24 hourly slots are present, filling gaps with zero.
func fillHourlyData(sparse []DailyView, from time.Time) []DailyView {
	dataMap := make(map[string]int, len(sparse))
	for _, v := range sparse {
		dataMap[v.Date] = v.Views
	}

	result := make([]DailyView, 24)
	for i := 0; i < 24; i++ {
		hour := from.Add(time.Duration(i) * time.Hour)
		label := fmt.Sprintf("%02d:00", hour.Hour())
		result[i] = DailyView{Date: label, Views: dataMap[label]}
	}

	return result
}

// generateSessionID derives a session ID from visitor identity and date,
// so sessions roll over at midnight UTC without storing anything client side.
func generateSessionID(visitorID string) string {
	day := time.Now().UTC().Format("2006-01-02")
	h := sha256.New()
	h.Write([]byte(visitorID + "|" + day))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// RegisterRoutes registers analytics routes with the Echo router.
func (h *Handler) RegisterRoutes(e *echo.Echo, publicGroup *echo.Group, authMiddleware echo.MiddlewareFunc) {
	// Public endpoint the beacon posts to. CORS is wide open so the embed
	// snippet from the setup tab works on external pages.
	api := publicGroup.Group("/api/analytics", middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
		MaxAge:       86400,
	}))
	api.POST("/collect", h.Collect)

	admin := e.Group("/admin/analytics")
	admin.Use(authMiddleware)

	// JSON API
	admin.GET("/api/stats", h.GetStats)
	admin.GET("/api/bot-stats", h.GetBotStats)

	// HTML fragments for htmx
	admin.GET("/fragments/stats", h.GetStatsFragment)
	admin.GET("/fragments/bot-stats", h.GetBotStatsFragment)
	admin.GET("/fragments/setup", h.GetSetupFragment)
}
