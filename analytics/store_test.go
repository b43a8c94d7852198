package analytics

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "analytics.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func visitAt(ts time.Time, visitorID, path string) *Visit {
	return &Visit{
		VisitorID:  visitorID,
		SessionID:  "sess-" + visitorID,
		IPHash:     "hash-" + visitorID,
		Browser:    "Chrome",
		OS:         "Linux",
		Device:     "Desktop",
		Path:       path,
		Referrer:   "Direct",
		ScreenSize: "1920x1080",
		Timestamp:  ts,
	}
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetSetting("missing")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "" {
		t.Errorf("missing setting = %q, want empty", got)
	}

	if err := s.SetSetting("k", "v1"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := s.SetSetting("k", "v2"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	got, err = s.GetSetting("k")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "v2" {
		t.Errorf("setting = %q, want v2", got)
	}
}

func TestSchemaVersionRecorded(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetSetting("schema_version")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "1" {
		t.Errorf("schema_version = %q, want 1", got)
	}
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	if err := s.SaveVisit(visitAt(base, "visitor-a", "/notes/alpha/")); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}
	if err := s.SaveVisit(visitAt(base.Add(time.Minute), "visitor-a", "/notes/alpha/")); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}
	third := visitAt(base.Add(2*time.Minute), "visitor-b", "/")
	third.Browser = "Firefox"
	if err := s.SaveVisit(third); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}

	stats, err := s.GetStats(base.AddDate(0, 0, -1), base.AddDate(0, 0, 1), false, false)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if stats.TotalViews != 3 {
		t.Errorf("TotalViews = %d, want 3", stats.TotalViews)
	}
	if stats.UniqueVisitors != 2 {
		t.Errorf("UniqueVisitors = %d, want 2", stats.UniqueVisitors)
	}
	if len(stats.TopPages) == 0 || stats.TopPages[0].Path != "/notes/alpha/" || stats.TopPages[0].Views != 2 {
		t.Errorf("TopPages = %+v, want /notes/alpha/ with 2 views first", stats.TopPages)
	}
	if len(stats.LatestPages) != 3 || stats.LatestPages[0].Path != "/" {
		t.Errorf("LatestPages = %+v, want newest first", stats.LatestPages)
	}
	if len(stats.BrowserStats) != 2 || stats.BrowserStats[0].Name != "Chrome" || stats.BrowserStats[0].Count != 2 {
		t.Errorf("BrowserStats = %+v, want Chrome:2 first", stats.BrowserStats)
	}
	if len(stats.DailyViews) != 1 || stats.DailyViews[0].Date != "2024-05-10" || stats.DailyViews[0].Views != 3 {
		t.Errorf("DailyViews = %+v, want one 2024-05-10 bucket with 3 views", stats.DailyViews)
	}
}

func TestGetStatsEmpty(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	stats, err := s.GetStats(base, base.AddDate(0, 0, 7), false, false)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalViews != 0 || stats.UniqueVisitors != 0 {
		t.Errorf("empty stats = %+v, want zero counts", stats)
	}
	// Empty result sets come back as empty slices, not nil, so the JSON
	// API serves [] instead of null.
	if stats.TopPages == nil || stats.LatestPages == nil || stats.BrowserStats == nil ||
		stats.OSStats == nil || stats.DeviceStats == nil || stats.ReferrerStats == nil ||
		stats.DailyViews == nil {
		t.Errorf("empty stats carries nil slices: %+v", stats)
	}
}

func TestGetStatsHourlyBuckets(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	for _, ts := range []time.Time{
		day.Add(9 * time.Hour),
		day.Add(10 * time.Hour),
		day.Add(10*time.Hour + 30*time.Minute),
	} {
		if err := s.SaveVisit(visitAt(ts, "visitor-a", "/")); err != nil {
			t.Fatalf("SaveVisit: %v", err)
		}
	}

	stats, err := s.GetStats(day, day.AddDate(0, 0, 1), true, false)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	want := []DailyView{{Date: "09:00", Views: 1}, {Date: "10:00", Views: 2}}
	if len(stats.DailyViews) != len(want) {
		t.Fatalf("DailyViews = %+v, want %+v", stats.DailyViews, want)
	}
	for i, w := range want {
		if stats.DailyViews[i] != w {
			t.Errorf("DailyViews[%d] = %+v, want %+v", i, stats.DailyViews[i], w)
		}
	}
}

func TestGetStatsMonthlyBuckets(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveVisit(visitAt(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), "visitor-a", "/")); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}
	if err := s.SaveVisit(visitAt(time.Date(2024, 4, 7, 10, 0, 0, 0, time.UTC), "visitor-a", "/")); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stats, err := s.GetStats(from, to, false, true)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	want := []DailyView{{Date: "2024-03", Views: 1}, {Date: "2024-04", Views: 1}}
	if len(stats.DailyViews) != len(want) {
		t.Fatalf("DailyViews = %+v, want %+v", stats.DailyViews, want)
	}
	for i, w := range want {
		if stats.DailyViews[i] != w {
			t.Errorf("DailyViews[%d] = %+v, want %+v", i, stats.DailyViews[i], w)
		}
	}
}

func TestUpdateVisitDuration(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	first := visitAt(base, "visitor-a", "/p/")
	first.DurationSec = 10
	if err := s.SaveVisit(first); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}
	if err := s.SaveVisit(visitAt(base.Add(time.Minute), "visitor-a", "/p/")); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}

	if err := s.UpdateVisitDuration("visitor-a", "/p/", 50); err != nil {
		t.Fatalf("UpdateVisitDuration: %v", err)
	}

	stats, err := s.GetStats(base.AddDate(0, 0, -1), base.AddDate(0, 0, 1), false, false)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	// Only the newest row is updated: durations are 10 and 50, so the
	// average proves the first row kept its value.
	if stats.AvgDuration != 30 {
		t.Errorf("AvgDuration = %d, want 30", stats.AvgDuration)
	}
}

func TestBotStats(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	save := func(ts time.Time, name, path string) {
		t.Helper()
		err := s.SaveBotVisit(&BotVisit{
			BotName:   name,
			IPHash:    "hash",
			UserAgent: name + "/1.0",
			Path:      path,
			Timestamp: ts,
		})
		if err != nil {
			t.Fatalf("SaveBotVisit: %v", err)
		}
	}
	save(base, "Googlebot", "/a/")
	save(base.Add(time.Minute), "Googlebot", "/a/")
	save(base.Add(2*time.Minute), "Bingbot", "/b/")

	stats, err := s.GetBotStats(base.AddDate(0, 0, -1), base.AddDate(0, 0, 1), false, false)
	if err != nil {
		t.Fatalf("GetBotStats: %v", err)
	}

	if stats.TotalVisits != 3 {
		t.Errorf("TotalVisits = %d, want 3", stats.TotalVisits)
	}
	if len(stats.TopBots) != 2 || stats.TopBots[0].Name != "Googlebot" || stats.TopBots[0].Count != 2 {
		t.Errorf("TopBots = %+v, want Googlebot:2 first", stats.TopBots)
	}
	if len(stats.TopPages) == 0 || stats.TopPages[0].Path != "/a/" {
		t.Errorf("TopPages = %+v, want /a/ first", stats.TopPages)
	}
	if len(stats.DailyVisits) != 1 || stats.DailyVisits[0].Views != 3 {
		t.Errorf("DailyVisits = %+v, want one bucket with 3 visits", stats.DailyVisits)
	}
}

func TestGetRealtimeVisitors(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	if err := s.SaveVisit(visitAt(now, "visitor-live", "/")); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}
	if err := s.SaveVisit(visitAt(now.Add(-2*time.Hour), "visitor-old", "/")); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}

	n, err := s.GetRealtimeVisitors()
	if err != nil {
		t.Fatalf("GetRealtimeVisitors: %v", err)
	}
	if n != 1 {
		t.Errorf("realtime visitors = %d, want 1", n)
	}
}

func TestCleanupOldVisits(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	old := now.AddDate(0, 0, -400)

	if err := s.SaveVisit(visitAt(old, "visitor-a", "/")); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}
	if err := s.SaveVisit(visitAt(now, "visitor-a", "/")); err != nil {
		t.Fatalf("SaveVisit: %v", err)
	}
	if err := s.SaveBotVisit(&BotVisit{BotName: "Googlebot", IPHash: "h", UserAgent: "ua", Path: "/", Timestamp: old}); err != nil {
		t.Fatalf("SaveBotVisit: %v", err)
	}

	if err := s.CleanupOldVisits(365); err != nil {
		t.Fatalf("CleanupOldVisits: %v", err)
	}

	from, to := now.AddDate(0, 0, -500), now.AddDate(0, 0, 1)
	stats, err := s.GetStats(from, to, false, false)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalViews != 1 {
		t.Errorf("TotalViews after cleanup = %d, want 1", stats.TotalViews)
	}
	botStats, err := s.GetBotStats(from, to, false, false)
	if err != nil {
		t.Fatalf("GetBotStats: %v", err)
	}
	if botStats.TotalVisits != 0 {
		t.Errorf("bot visits after cleanup = %d, want 0", botStats.TotalVisits)
	}
}
