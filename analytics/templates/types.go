// Package templates renders the analytics dashboard. It declares its own
// view model types rather than importing the analytics package, which
// imports this one for rendering.
package templates

// StatsViewModel carries visitor statistics into the dashboard.
type StatsViewModel struct {
	Period         string
	UniqueVisitors int
	TotalViews     int
	AvgDuration    int
	TopPages       []PageStatViewModel
	LatestPages    []LatestPageVisitViewModel
	BrowserStats   []DimensionStatViewModel
	OSStats        []DimensionStatViewModel
	DeviceStats    []DimensionStatViewModel
	ReferrerStats  []DimensionStatViewModel
	DailyViews     []DailyViewViewModel
}

// BotStatsViewModel carries crawler statistics into the dashboard.
type BotStatsViewModel struct {
	Period      string
	TotalVisits int
	TopBots     []DimensionStatViewModel
	TopPages    []PageStatViewModel
	DailyVisits []DailyViewViewModel
}

// PageStatViewModel is a path with its view count.
type PageStatViewModel struct {
	Path  string
	Views int
}

// LatestPageVisitViewModel is one recent page view.
type LatestPageVisitViewModel struct {
	Path      string
	Timestamp string
	Browser   string
}

// DimensionStatViewModel is a name/count pair for a breakdown.
type DimensionStatViewModel struct {
	Name  string
	Count int
}

// DailyViewViewModel is the view count for one chart bucket.
type DailyViewViewModel struct {
	Date  string
	Views int
}
