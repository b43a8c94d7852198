package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

const desktopChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func collect(t *testing.T, h *Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/collect", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	if err := h.Collect(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rec
}

func statsNow(t *testing.T, s *Store) *Stats {
	t.Helper()
	now := time.Now().UTC()
	stats, err := s.GetStats(now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), false, false)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	return stats
}

func TestCollectSavesVisit(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s)

	rec := collect(t, h, `{"path":"/notes/a/","referrer":"https://www.google.com/","screen_size":"1920x1080","user_agent":"`+desktopChromeUA+`"}`, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	stats := statsNow(t, s)
	if stats.TotalViews != 1 {
		t.Fatalf("TotalViews = %d, want 1", stats.TotalViews)
	}
	if len(stats.BrowserStats) == 0 || stats.BrowserStats[0].Name != "Chrome" {
		t.Errorf("BrowserStats = %+v, want Chrome", stats.BrowserStats)
	}
	if len(stats.ReferrerStats) == 0 || stats.ReferrerStats[0].Name != "Google" {
		t.Errorf("ReferrerStats = %+v, want Google", stats.ReferrerStats)
	}
	if len(stats.TopPages) == 0 || stats.TopPages[0].Path != "/notes/a/" {
		t.Errorf("TopPages = %+v, want /notes/a/", stats.TopPages)
	}
}

func TestCollectHonorsDoNotTrack(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s)

	rec := collect(t, h, `{"path":"/"}`, map[string]string{"DNT": "1"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if stats := statsNow(t, s); stats.TotalViews != 0 {
		t.Errorf("TotalViews = %d, want 0 with DNT set", stats.TotalViews)
	}
}

func TestCollectRoutesBotsSeparately(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s)

	botUA := "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
	rec := collect(t, h, `{"path":"/notes/a/","user_agent":"`+botUA+`"}`, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	if stats := statsNow(t, s); stats.TotalViews != 0 {
		t.Errorf("bot counted as visitor: TotalViews = %d", stats.TotalViews)
	}

	now := time.Now().UTC()
	botStats, err := s.GetBotStats(now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), false, false)
	if err != nil {
		t.Fatalf("GetBotStats: %v", err)
	}
	if botStats.TotalVisits != 1 {
		t.Fatalf("bot visits = %d, want 1", botStats.TotalVisits)
	}
	if len(botStats.TopBots) == 0 || botStats.TopBots[0].Name != "Googlebot" {
		t.Errorf("TopBots = %+v, want Googlebot", botStats.TopBots)
	}
}

func TestCollectDurationBeaconUpdatesVisit(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s)

	collect(t, h, `{"path":"/notes/a/","user_agent":"`+desktopChromeUA+`"}`, nil)
	collect(t, h, `{"path":"/notes/a/","duration_sec":30,"user_agent":"`+desktopChromeUA+`"}`, nil)

	stats := statsNow(t, s)
	if stats.TotalViews != 1 {
		t.Errorf("TotalViews = %d, want 1 (beacon must not add a row)", stats.TotalViews)
	}
	if stats.AvgDuration != 30 {
		t.Errorf("AvgDuration = %d, want 30", stats.AvgDuration)
	}
}

func TestCollectRateLimited(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s)
	h.collectLimiter = newRateLimiter(1, time.Minute)

	if rec := collect(t, h, `{"path":"/"}`, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("first request status = %d", rec.Code)
	}
	if rec := collect(t, h, `{"path":"/"}`, nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}

func TestCollectCORSPreflight(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s)

	e := echo.New()
	noAuth := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	h.RegisterRoutes(e, e.Group(""), noAuth)

	req := httptest.NewRequest(http.MethodOptions, "/api/analytics/collect", nil)
	req.Header.Set(echo.HeaderOrigin, "https://elsewhere.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestCollectRejectsInvalidInput(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s)

	longPath := strings.Repeat("a", maxPathLen+1)
	rec := collect(t, h, `{"path":"`+longPath+`"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized path status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestValidateCollectRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     CollectRequest
		wantErr bool
	}{
		{"valid", CollectRequest{Path: "/", ScreenSize: "1920x1080"}, false},
		{"long path", CollectRequest{Path: strings.Repeat("a", maxPathLen+1)}, true},
		{"long referrer", CollectRequest{Referrer: strings.Repeat("a", maxReferrerLen+1)}, true},
		{"long screen size", CollectRequest{ScreenSize: strings.Repeat("1", maxScreenSizeLen+1)}, true},
		{"long user agent", CollectRequest{UserAgent: strings.Repeat("a", maxUserAgentLen+1)}, true},
		{"negative duration", CollectRequest{DurationSec: -1}, true},
		{"huge duration", CollectRequest{DurationSec: maxDurationSec + 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCollectRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCollectRequest() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestGetStatsJSON(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s)
	if err := s.SaveVisit(visitAt(time.Now().UTC(), "visitor-a", "/")); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/analytics/api/stats?period=week", nil)
	rec := httptest.NewRecorder()
	if err := h.GetStats(e.NewContext(req, rec)); err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.PeriodDays != 7 || resp.Hourly || resp.Monthly {
		t.Errorf("period = %d/%t/%t, want 7/false/false", resp.PeriodDays, resp.Hourly, resp.Monthly)
	}
	if resp.Stats == nil || resp.Stats.TotalViews != 1 {
		t.Errorf("stats = %+v, want one view", resp.Stats)
	}
}

func TestGetStatsFragment(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/analytics/fragments/stats?period=month", nil)
	rec := httptest.NewRecorder()
	if err := h.GetStatsFragment(e.NewContext(req, rec)); err != nil {
		t.Fatalf("GetStatsFragment: %v", err)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"page views",
		"unique visitors",
		`class="pills"`,
		"?period=month",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("fragment missing %s in:\n%s", want, body)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		period  string
		days    int
		hourly  bool
		monthly bool
	}{
		{"today", "today", 1, true, false},
		{"week", "week", 7, false, false},
		{"month", "month", 30, false, false},
		{"year", "year", 365, false, true},
		{"", "week", 7, false, false},
		{"junk", "week", 7, false, false},
	}
	for _, tt := range tests {
		period, days, hourly, monthly := parsePeriod(tt.in)
		if period != tt.period || days != tt.days || hourly != tt.hourly || monthly != tt.monthly {
			t.Errorf("parsePeriod(%q) = %s/%d/%t/%t, want %s/%d/%t/%t",
				tt.in, period, days, hourly, monthly, tt.period, tt.days, tt.hourly, tt.monthly)
		}
	}
}

func TestCalcTimeRange(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

	from, to := calcTimeRange(now, 1, true)
	if want := time.Date(2024, 5, 9, 16, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Errorf("hourly from = %v, want %v", from, want)
	}
	if !to.Equal(now) {
		t.Errorf("hourly to = %v, want %v", to, now)
	}

	from, to = calcTimeRange(now, 7, false)
	if want := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Errorf("weekly from = %v, want %v", from, want)
	}
	if want := time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC); !to.Equal(want) {
		t.Errorf("weekly to = %v, want %v", to, want)
	}
}

func TestFillHourlyData(t *testing.T) {
	from := time.Date(2024, 5, 10, 6, 0, 0, 0, time.UTC)
	sparse := []DailyView{{Date: "07:00", Views: 5}}

	got := fillHourlyData(sparse, from)
	if len(got) != 24 {
		t.Fatalf("len = %d, want 24", len(got))
	}
	if got[0].Date != "06:00" || got[0].Views != 0 {
		t.Errorf("slot 0 = %+v, want empty 06:00", got[0])
	}
	if got[1].Date != "07:00" || got[1].Views != 5 {
		t.Errorf("slot 1 = %+v, want 07:00 with 5 views", got[1])
	}
	if got[23].Date != "05:00" {
		t.Errorf("last slot = %+v, want wrapped 05:00", got[23])
	}
}

func TestGenerateSessionID(t *testing.T) {
	a := generateSessionID("visitor-a")
	b := generateSessionID("visitor-a")
	c := generateSessionID("visitor-b")

	if a != b {
		t.Errorf("session ID is not stable within a day")
	}
	if a == c {
		t.Errorf("different visitors share a session ID")
	}
	if len(a) != 16 {
		t.Errorf("session ID length = %d, want 16", len(a))
	}
}
