package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides database operations for analytics, backed by SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the analytics database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	// _time_format makes the driver write timestamps as SQLite datetime
	// strings, which the strftime bucket queries and range comparisons need.
	db, err := sql.Open("sqlite", dbPath+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			visitor_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			browser TEXT NOT NULL,
			os TEXT NOT NULL,
			device TEXT NOT NULL,
			path TEXT NOT NULL,
			referrer TEXT,
			screen_size TEXT,
			timestamp DATETIME NOT NULL,
			duration_sec INTEGER DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS bot_visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bot_name TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			path TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp);
		CREATE INDEX IF NOT EXISTS idx_visits_visitor_id ON visits(visitor_id);
		CREATE INDEX IF NOT EXISTS idx_visits_path ON visits(path);
		CREATE INDEX IF NOT EXISTS idx_visits_browser ON visits(browser);
		CREATE INDEX IF NOT EXISTS idx_visits_os ON visits(os);
		CREATE INDEX IF NOT EXISTS idx_visits_device ON visits(device);

		CREATE INDEX IF NOT EXISTS idx_bot_visits_timestamp ON bot_visits(timestamp);
		CREATE INDEX IF NOT EXISTS idx_bot_visits_name ON bot_visits(bot_name);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// currentSchemaVersion is the latest schema version. Increment when adding migrations.
const currentSchemaVersion = 1

// migrate applies incremental schema migrations based on a version stored
// in the settings table.
func (s *Store) migrate() error {
	verStr, err := s.GetSetting("schema_version")
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	version := 0
	if verStr != "" {
		version, err = strconv.Atoi(verStr)
		if err != nil {
			return fmt.Errorf("parse schema version %q: %w", verStr, err)
		}
	}

	if version < currentSchemaVersion {
		version = currentSchemaVersion
	}

	return s.SetSetting("schema_version", strconv.Itoa(version))
}

// GetSetting retrieves a setting value by key. Returns empty string if not found.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// SaveVisit stores a new visit.
func (s *Store) SaveVisit(v *Visit) error {
	_, err := s.db.Exec(`
		INSERT INTO visits (visitor_id, session_id, ip_hash, browser, os, device, path, referrer, screen_size, timestamp, duration_sec)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, v.VisitorID, v.SessionID, v.IPHash, v.Browser, v.OS, v.Device, v.Path, v.Referrer, v.ScreenSize, v.Timestamp.UTC(), v.DurationSec)
	return err
}

// UpdateVisitDuration sets the duration on the most recent visit for a
// visitor and path. Used by the unload beacon so a page view is one row.
func (s *Store) UpdateVisitDuration(visitorID, path string, durationSec int) error {
	_, err := s.db.Exec(`
		UPDATE visits SET duration_sec = ?
		WHERE id = (
			SELECT id FROM visits
			WHERE visitor_id = ? AND path = ?
			ORDER BY timestamp DESC LIMIT 1
		)
	`, durationSec, visitorID, path)
	return err
}

// SaveBotVisit stores a new bot visit.
func (s *Store) SaveBotVisit(bv *BotVisit) error {
	_, err := s.db.Exec(`
		INSERT INTO bot_visits (bot_name, ip_hash, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, bv.BotName, bv.IPHash, bv.UserAgent, bv.Path, bv.Timestamp.UTC())
	return err
}

// countBetween runs a single-value COUNT query over a time range.
func (s *Store) countBetween(ctx context.Context, query string, from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, query, from, to).Scan(&n)
	return n, err
}

// dimensionsBetween runs a name/count GROUP BY query over a time range.
func (s *Store) dimensionsBetween(ctx context.Context, query string, from, to time.Time) ([]DimensionStat, error) {
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DimensionStat
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// pagesBetween runs a path/views GROUP BY query over a time range.
func (s *Store) pagesBetween(ctx context.Context, query string, from, to time.Time) ([]PageStat, error) {
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PageStat
	for rows.Next() {
		var p PageStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// seriesBetween runs a bucket/views GROUP BY query over a time range.
func (s *Store) seriesBetween(ctx context.Context, query string, from, to time.Time) ([]DailyView, error) {
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyView
	for rows.Next() {
		var v DailyView
		if err := rows.Scan(&v.Date, &v.Views); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// seriesQuery returns the visits chart query for the requested resolution.
func seriesQuery(table string, hourly, monthly bool) string {
	bucket := `strftime('%Y-%m-%d', timestamp)`
	if hourly {
		bucket = `strftime('%H:00', timestamp)`
	} else if monthly {
		bucket = `strftime('%Y-%m', timestamp)`
	}
	return `SELECT ` + bucket + ` AS bucket, COUNT(*) AS views FROM ` + table +
		` WHERE timestamp >= ? AND timestamp < ? GROUP BY bucket ORDER BY bucket`
}

// GetStats returns aggregated statistics for the given time period. The
// independent aggregates run concurrently against the same pool.
func (s *Store) GetStats(from, to time.Time, hourly, monthly bool) (*Stats, error) {
	ctx := context.Background()
	stats := &Stats{
		Period:        from.Format("2006-01-02") + " to " + to.Format("2006-01-02"),
		TopPages:      []PageStat{},
		LatestPages:   []LatestPageVisit{},
		BrowserStats:  []DimensionStat{},
		OSStats:       []DimensionStat{},
		DeviceStats:   []DimensionStat{},
		ReferrerStats: []DimensionStat{},
		DailyViews:    []DailyView{},
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		count, err := s.countBetween(ctx, `SELECT COUNT(*) FROM visits WHERE timestamp >= ? AND timestamp < ?`, from, to)
		if err != nil {
			setErr(fmt.Errorf("count views: %w", err))
			return
		}
		mu.Lock()
		stats.TotalViews = count
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		count, err := s.countBetween(ctx, `SELECT COUNT(DISTINCT visitor_id) FROM visits WHERE timestamp >= ? AND timestamp < ?`, from, to)
		if err != nil {
			setErr(fmt.Errorf("count unique visitors: %w", err))
			return
		}
		mu.Lock()
		stats.UniqueVisitors = count
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		var avg sql.NullFloat64
		err := s.db.QueryRowContext(ctx, `SELECT AVG(duration_sec) FROM visits WHERE timestamp >= ? AND timestamp < ? AND duration_sec > 0`, from, to).Scan(&avg)
		if err != nil {
			setErr(fmt.Errorf("avg duration: %w", err))
			return
		}
		if avg.Valid {
			mu.Lock()
			stats.AvgDuration = int(avg.Float64)
			mu.Unlock()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		pages, err := s.pagesBetween(ctx, `
			SELECT path, COUNT(*) AS views FROM visits
			WHERE timestamp >= ? AND timestamp < ?
			GROUP BY path ORDER BY views DESC LIMIT 10
		`, from, to)
		if err != nil {
			setErr(fmt.Errorf("top pages: %w", err))
			return
		}
		mu.Lock()
		stats.TopPages = pages
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		rows, err := s.db.QueryContext(ctx, `
			SELECT path, timestamp, browser FROM visits
			WHERE timestamp >= ? AND timestamp < ?
			ORDER BY timestamp DESC LIMIT 10
		`, from, to)
		if err != nil {
			setErr(fmt.Errorf("latest pages: %w", err))
			return
		}
		defer rows.Close()

		var latest []LatestPageVisit
		for rows.Next() {
			var path, browser string
			var ts time.Time
			if err := rows.Scan(&path, &ts, &browser); err != nil {
				setErr(fmt.Errorf("latest pages: %w", err))
				return
			}
			latest = append(latest, LatestPageVisit{
				Path:      path,
				Timestamp: ts.Format("2006-01-02 15:04:05"),
				Browser:   browser,
			})
		}
		if err := rows.Err(); err != nil {
			setErr(fmt.Errorf("latest pages: %w", err))
			return
		}
		mu.Lock()
		stats.LatestPages = latest
		mu.Unlock()
	}()

	dimensions := []struct {
		column string
		dest   *[]DimensionStat
	}{
		{"browser", &stats.BrowserStats},
		{"os", &stats.OSStats},
		{"device", &stats.DeviceStats},
		{"referrer", &stats.ReferrerStats},
	}
	for _, dim := range dimensions {
		wg.Add(1)
		go func(column string, dest *[]DimensionStat) {
			defer wg.Done()
			result, err := s.dimensionsBetween(ctx, `
				SELECT `+column+` AS name, COUNT(*) AS count FROM visits
				WHERE timestamp >= ? AND timestamp < ?
				GROUP BY name ORDER BY count DESC LIMIT 10
			`, from, to)
			if err != nil {
				setErr(fmt.Errorf("%s stats: %w", column, err))
				return
			}
			mu.Lock()
			*dest = result
			mu.Unlock()
		}(dim.column, dim.dest)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		result, err := s.seriesBetween(ctx, seriesQuery("visits", hourly, monthly), from, to)
		if err != nil {
			setErr(fmt.Errorf("views series: %w", err))
			return
		}
		mu.Lock()
		stats.DailyViews = result
		mu.Unlock()
	}()

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	normalizeStats(stats)
	return stats, nil
}

// normalizeStats replaces nil slices from empty result sets so JSON
// responses carry [] instead of null.
func normalizeStats(stats *Stats) {
	if stats.TopPages == nil {
		stats.TopPages = []PageStat{}
	}
	if stats.LatestPages == nil {
		stats.LatestPages = []LatestPageVisit{}
	}
	if stats.BrowserStats == nil {
		stats.BrowserStats = []DimensionStat{}
	}
	if stats.OSStats == nil {
		stats.OSStats = []DimensionStat{}
	}
	if stats.DeviceStats == nil {
		stats.DeviceStats = []DimensionStat{}
	}
	if stats.ReferrerStats == nil {
		stats.ReferrerStats = []DimensionStat{}
	}
	if stats.DailyViews == nil {
		stats.DailyViews = []DailyView{}
	}
}

// GetBotStats returns aggregated bot statistics for the given time period.
func (s *Store) GetBotStats(from, to time.Time, hourly, monthly bool) (*BotStats, error) {
	ctx := context.Background()
	stats := &BotStats{
		Period:      from.Format("2006-01-02") + " to " + to.Format("2006-01-02"),
		TopBots:     []DimensionStat{},
		TopPages:    []PageStat{},
		DailyVisits: []DailyView{},
	}

	count, err := s.countBetween(ctx, `SELECT COUNT(*) FROM bot_visits WHERE timestamp >= ? AND timestamp < ?`, from, to)
	if err != nil {
		return nil, fmt.Errorf("count bot visits: %w", err)
	}
	stats.TotalVisits = count

	topBots, err := s.dimensionsBetween(ctx, `
		SELECT bot_name AS name, COUNT(*) AS count FROM bot_visits
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY name ORDER BY count DESC LIMIT 10
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("top bots: %w", err)
	}
	if topBots != nil {
		stats.TopBots = topBots
	}

	topPages, err := s.pagesBetween(ctx, `
		SELECT path, COUNT(*) AS views FROM bot_visits
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY path ORDER BY views DESC LIMIT 10
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("top bot pages: %w", err)
	}
	if topPages != nil {
		stats.TopPages = topPages
	}

	series, err := s.seriesBetween(ctx, seriesQuery("bot_visits", hourly, monthly), from, to)
	if err != nil {
		return nil, fmt.Errorf("bot views series: %w", err)
	}
	if series != nil {
		stats.DailyVisits = series
	}

	return stats, nil
}

// CleanupOldVisits removes visits and bot visits older than the retention period.
func (s *Store) CleanupOldVisits(retentionDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	if _, err := s.db.Exec(`DELETE FROM visits WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup visits: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM bot_visits WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup bot_visits: %w", err)
	}
	return nil
}

// StartCleanupScheduler runs periodic cleanup of old data. Returns a stop function.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := s.CleanupOldVisits(retentionDays); err != nil {
					fmt.Printf("analytics cleanup error: %v\n", err)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}

// GetRealtimeVisitors returns the number of unique visitors in the last 5 minutes.
func (s *Store) GetRealtimeVisitors() (int, error) {
	cutoff := time.Now().UTC().Add(-5 * time.Minute)
	var n int
	err := s.db.QueryRow(`SELECT COUNT(DISTINCT visitor_id) FROM visits WHERE timestamp >= ?`, cutoff).Scan(&n)
	return n, err
}
