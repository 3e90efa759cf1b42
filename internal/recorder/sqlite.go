package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"QuantMarketLab/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external tools can read while the pipeline writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			asset             TEXT NOT NULL,
			period_label      TEXT NOT NULL,
			actual_start      TEXT,
			actual_end        TEXT,
			total_days        INTEGER,
			up_days           INTEGER,
			down_days         INTEGER,
			break_even_days   INTEGER,
			up_pct            REAL,
			down_pct          REAL,
			break_even_pct    REAL,
			total_up_points   REAL,
			total_down_points REAL,
			net_points        REAL,
			longest_up        INTEGER,
			longest_down      INTEGER,
			longest_break_even INTEGER,
			point_multiplier  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON analysis_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_asset ON analysis_runs(asset)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(asset, periodLabel string, stats *model.SummaryStatistics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO analysis_runs
		(timestamp, asset, period_label, actual_start, actual_end,
		 total_days, up_days, down_days, break_even_days,
		 up_pct, down_pct, break_even_pct,
		 total_up_points, total_down_points, net_points,
		 longest_up, longest_down, longest_break_even, point_multiplier)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), asset, periodLabel,
		stats.ActualStart.Format(model.DateFormat), stats.ActualEnd.Format(model.DateFormat),
		stats.TotalDays, stats.UpDays, stats.DownDays, stats.BreakEvenDays,
		stats.UpPct, stats.DownPct, stats.BreakEvenPct,
		stats.TotalUpPoints, stats.TotalDownPoints, stats.NetPoints,
		stats.LongestUpStreak, stats.LongestDownStreak, stats.LongestBreakEvenStreak,
		stats.PointMultiplier,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
