package templates

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

const dashStyles = `
:root { color-scheme: light dark; }
* { box-sizing: border-box; }
body { margin: 0; font: 15px/1.5 system-ui, sans-serif; background: #fafaf9; color: #1c1917; }
a { color: inherit; }
header.bar { display: flex; align-items: center; justify-content: space-between; padding: 1rem 1.5rem; border-bottom: 1px solid #e7e5e4; background: #fff; }
header.bar h1 { margin: 0; font-size: 1.1rem; }
main { max-width: 64rem; margin: 0 auto; padding: 1.5rem; }
.tabs, .pills { display: flex; gap: .5rem; margin-bottom: 1rem; flex-wrap: wrap; }
.tabs button, .pills button { font: inherit; padding: .35rem .8rem; border: 1px solid #d6d3d1; border-radius: 999px; background: transparent; color: inherit; cursor: pointer; }
.pills button.active { background: #1c1917; border-color: #1c1917; color: #fff; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(140px, 1fr)); gap: 1rem; margin-bottom: 1.5rem; }
.card { border: 1px solid #e7e5e4; border-radius: 8px; background: #fff; padding: 1rem; }
.card strong { display: block; font-size: 1.6rem; }
.card span { color: #78716c; font-size: .8rem; }
.chart { display: flex; align-items: flex-end; gap: 2px; height: 140px; border: 1px solid #e7e5e4; border-radius: 8px; background: #fff; padding: .75rem; margin-bottom: 1.5rem; }
.chart .bar { flex: 1; min-width: 2px; background: #57534e; border-radius: 2px 2px 0 0; }
.cols { display: grid; grid-template-columns: repeat(auto-fit, minmax(240px, 1fr)); gap: 1rem; }
.panel { border: 1px solid #e7e5e4; border-radius: 8px; background: #fff; padding: 1rem; margin-bottom: 1rem; }
.panel h3 { margin: 0 0 .75rem; font-size: .85rem; text-transform: uppercase; letter-spacing: .06em; color: #78716c; }
.dim { margin-bottom: .5rem; }
.dim .label { display: flex; justify-content: space-between; font-size: .85rem; }
.dim .track { height: 4px; background: #e7e5e4; border-radius: 2px; }
.dim .fill { height: 4px; background: #57534e; border-radius: 2px; }
table { width: 100%; border-collapse: collapse; font-size: .85rem; }
th, td { text-align: left; padding: .35rem .4rem; border-bottom: 1px solid #e7e5e4; }
td.num { text-align: right; }
.loading { color: #78716c; padding: 2rem 0; text-align: center; }
pre.snippet { background: #1c1917; color: #fafaf9; padding: 1rem; border-radius: 8px; overflow-x: auto; font-size: .85rem; }
@media (prefers-color-scheme: dark) {
  body { background: #171717; color: #fafaf9; }
  header.bar, .card, .panel, .chart { background: #262626; border-color: #404040; }
  th, td { border-color: #404040; }
  .dim .track { background: #404040; }
  .chart .bar, .dim .fill { background: #a8a29e; }
  .pills button.active { background: #fafaf9; border-color: #fafaf9; color: #1c1917; }
}
`

// Dashboard is the analytics page shell. The visitor panel loads itself
// on open; tabs swap panels over htmx.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
		buf.WriteString(`<meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		buf.WriteString(`<meta name="robots" content="noindex"/>`)
		buf.WriteString(`<title>Analytics</title>`)
		buf.WriteString(`<style>` + dashStyles + `</style>`)
		buf.WriteString(`<script src="https://unpkg.com/htmx.org@1.9.12" defer></script>`)
		buf.WriteString(`</head><body>`)
		buf.WriteString(`<header class="bar"><h1>Analytics</h1><nav><a href="/admin/">Back to admin</a></nav></header>`)
		buf.WriteString(`<main>`)
		buf.WriteString(`<div class="tabs">`)
		buf.WriteString(`<button hx-get="/admin/analytics/fragments/stats" hx-target="#panel">Visitors</button>`)
		buf.WriteString(`<button hx-get="/admin/analytics/fragments/bot-stats" hx-target="#panel">Bots</button>`)
		buf.WriteString(`<button hx-get="/admin/analytics/fragments/setup" hx-target="#panel">Setup</button>`)
		buf.WriteString(`</div>`)
		buf.WriteString(`<div id="panel" hx-get="/admin/analytics/fragments/stats" hx-trigger="load">`)
		buf.WriteString(`<div class="loading">Loading&hellip;</div>`)
		buf.WriteString(`</div>`)
		buf.WriteString(`</main></body></html>`)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// periodName maps the resolution flags back to the period query value.
func periodName(days int, hourly, monthly bool) string {
	switch {
	case hourly:
		return "today"
	case monthly:
		return "year"
	case days == 30:
		return "month"
	default:
		return "week"
	}
}

func writePeriodPills(buf *bytes.Buffer, endpoint, active string) {
	periods := []struct{ value, label string }{
		{"today", "Today"},
		{"week", "Week"},
		{"month", "Month"},
		{"year", "Year"},
	}
	buf.WriteString(`<div class="pills">`)
	for _, p := range periods {
		class := ""
		if p.value == active {
			class = ` class="active"`
		}
		buf.WriteString(`<button` + class + ` hx-get="` + endpoint + `?period=` + p.value + `" hx-target="#panel">` + p.label + `</button>`)
	}
	buf.WriteString(`</div>`)
}

// writeBarChart renders the views series as plain CSS bars, scaled to the
// tallest bucket.
func writeBarChart(buf *bytes.Buffer, series []DailyViewViewModel) {
	max := 0
	for _, v := range series {
		if v.Views > max {
			max = v.Views
		}
	}
	buf.WriteString(`<div class="chart">`)
	for _, v := range series {
		pct := 0
		if max > 0 {
			pct = v.Views * 100 / max
		}
		if pct < 2 {
			pct = 2
		}
		title := html.EscapeString(v.Date) + ": " + fmt.Sprint(v.Views)
		buf.WriteString(`<div class="bar" style="height:` + fmt.Sprint(pct) + `%" title="` + title + `"></div>`)
	}
	buf.WriteString(`</div>`)
}

func writeDimensionPanel(buf *bytes.Buffer, title string, stats []DimensionStatViewModel) {
	max := 0
	for _, s := range stats {
		if s.Count > max {
			max = s.Count
		}
	}
	buf.WriteString(`<div class="panel"><h3>` + html.EscapeString(title) + `</h3>`)
	if len(stats) == 0 {
		buf.WriteString(`<div class="loading">No data</div>`)
	}
	for _, s := range stats {
		pct := 0
		if max > 0 {
			pct = s.Count * 100 / max
		}
		buf.WriteString(`<div class="dim">`)
		buf.WriteString(`<div class="label"><span>` + html.EscapeString(s.Name) + `</span><span>` + fmt.Sprint(s.Count) + `</span></div>`)
		buf.WriteString(`<div class="track"><div class="fill" style="width:` + fmt.Sprint(pct) + `%"></div></div>`)
		buf.WriteString(`</div>`)
	}
	buf.WriteString(`</div>`)
}

func writePagesPanel(buf *bytes.Buffer, title string, pages []PageStatViewModel) {
	buf.WriteString(`<div class="panel"><h3>` + html.EscapeString(title) + `</h3>`)
	if len(pages) == 0 {
		buf.WriteString(`<div class="loading">No data</div>`)
	} else {
		buf.WriteString(`<table><tbody>`)
		for _, p := range pages {
			buf.WriteString(`<tr><td>` + html.EscapeString(p.Path) + `</td><td class="num">` + fmt.Sprint(p.Views) + `</td></tr>`)
		}
		buf.WriteString(`</tbody></table>`)
	}
	buf.WriteString(`</div>`)
}

// formatDuration renders seconds as "1m 05s" style text.
func formatDuration(sec int) string {
	if sec < 60 {
		return fmt.Sprintf("%ds", sec)
	}
	return fmt.Sprintf("%dm %02ds", sec/60, sec%60)
}

// StatsFragmentOnly renders the visitors panel.
func StatsFragmentOnly(vm *StatsViewModel, realtime, days int, hourly, monthly bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writePeriodPills(&buf, "/admin/analytics/fragments/stats", periodName(days, hourly, monthly))

		buf.WriteString(`<div class="cards">`)
		buf.WriteString(`<div class="card"><strong>` + fmt.Sprint(realtime) + `</strong><span>on site now</span></div>`)
		buf.WriteString(`<div class="card"><strong>` + fmt.Sprint(vm.UniqueVisitors) + `</strong><span>unique visitors</span></div>`)
		buf.WriteString(`<div class="card"><strong>` + fmt.Sprint(vm.TotalViews) + `</strong><span>page views</span></div>`)
		buf.WriteString(`<div class="card"><strong>` + formatDuration(vm.AvgDuration) + `</strong><span>avg time on page</span></div>`)
		buf.WriteString(`</div>`)

		writeBarChart(&buf, vm.DailyViews)

		buf.WriteString(`<div class="cols">`)
		writePagesPanel(&buf, "Top pages", vm.TopPages)

		buf.WriteString(`<div class="panel"><h3>Latest visits</h3>`)
		if len(vm.LatestPages) == 0 {
			buf.WriteString(`<div class="loading">No data</div>`)
		} else {
			buf.WriteString(`<table><tbody>`)
			for _, v := range vm.LatestPages {
				buf.WriteString(`<tr><td>` + html.EscapeString(v.Path) + `</td><td>` + html.EscapeString(v.Browser) + `</td><td class="num">` + html.EscapeString(v.Timestamp) + `</td></tr>`)
			}
			buf.WriteString(`</tbody></table>`)
		}
		buf.WriteString(`</div>`)

		writeDimensionPanel(&buf, "Browsers", vm.BrowserStats)
		writeDimensionPanel(&buf, "Operating systems", vm.OSStats)
		writeDimensionPanel(&buf, "Devices", vm.DeviceStats)
		writeDimensionPanel(&buf, "Referrers", vm.ReferrerStats)
		buf.WriteString(`</div>`)

		_, err := w.Write(buf.Bytes())
		return err
	})
}

// BotStatsFragmentOnly renders the crawlers panel.
func BotStatsFragmentOnly(vm *BotStatsViewModel, days int, hourly, monthly bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writePeriodPills(&buf, "/admin/analytics/fragments/bot-stats", periodName(days, hourly, monthly))

		buf.WriteString(`<div class="cards">`)
		buf.WriteString(`<div class="card"><strong>` + fmt.Sprint(vm.TotalVisits) + `</strong><span>bot visits</span></div>`)
		buf.WriteString(`</div>`)

		writeBarChart(&buf, vm.DailyVisits)

		buf.WriteString(`<div class="cols">`)
		writeDimensionPanel(&buf, "Top bots", vm.TopBots)
		writePagesPanel(&buf, "Top crawled pages", vm.TopPages)
		buf.WriteString(`</div>`)

		_, err := w.Write(buf.Bytes())
		return err
	})
}

// SetupContent renders the setup tab with the embed snippet.
func SetupContent(origin string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString(`<div class="panel"><h3>Tracking snippet</h3>`)
		buf.WriteString(`<p>The beacon is already included on every page this engine serves. To track an external page, add:</p>`)
		snippet := `<script defer src="` + origin + `/public/analytics.js"></script>`
		buf.WriteString(`<pre class="snippet">` + html.EscapeString(snippet) + `</pre>`)
		buf.WriteString(`</div>`)
		buf.WriteString(`<div class="panel"><h3>What gets stored</h3>`)
		buf.WriteString(`<ul>`)
		buf.WriteString(`<li>No cookies, no raw IP addresses. Visitors are counted by a salted hash that cannot be reversed.</li>`)
		buf.WriteString(`<li>Browsers sending Do Not Track are never recorded.</li>`)
		buf.WriteString(`<li>Crawler traffic is kept separate and never counts as visitors.</li>`)
		buf.WriteString(`<li>Raw visit rows are deleted after one year.</li>`)
		buf.WriteString(`</ul></div>`)
		_, err := w.Write(buf.Bytes())
		return err
	})
}
