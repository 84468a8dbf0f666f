package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"PremiumSentinel/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets readers query snapshots while a fetch is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS series_points (
			ticker      TEXT    NOT NULL,
			date        TEXT    NOT NULL,
			close_price REAL,
			ref_date    TEXT,
			ref_value   REAL,
			premium     REAL,
			rsi         REAL,
			volatility  REAL,
			lag_days    INTEGER,
			source      TEXT,
			is_real     INTEGER,
			recorded_at INTEGER NOT NULL,
			PRIMARY KEY (ticker, date)
		)`,

		`CREATE TABLE IF NOT EXISTS ranking_snapshots (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			top_ticker   TEXT,
			top_score    INTEGER,
			top_good     INTEGER,
			banner_title TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ranking_ts ON ranking_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS ranking_rows (
			snapshot_id INTEGER NOT NULL REFERENCES ranking_snapshots(id),
			position    INTEGER NOT NULL,
			ticker      TEXT    NOT NULL,
			name        TEXT,
			premium     REAL,
			rank        INTEGER,
			score       INTEGER,
			label       TEXT,
			risk_level  TEXT,
			degraded    INTEGER,
			last_update TEXT,
			PRIMARY KEY (snapshot_id, position)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSeries(ctx context.Context, ticker string, points []model.EnrichedPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM series_points WHERE ticker = ?`, ticker); err != nil {
		return fmt.Errorf("clear series %s: %w", ticker, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO series_points
		(ticker, date, close_price, ref_date, ref_value, premium, rsi, volatility, lag_days, source, is_real, recorded_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, p := range points {
		if _, err := stmt.ExecContext(ctx,
			ticker, p.Date.Format(model.DateLayout), p.ClosePrice,
			p.RefDate.Format(model.DateLayout), p.ReferenceValue,
			p.PremiumRate, p.RSI, p.Volatility, p.LagDays,
			p.Source, boolInt(p.IsReal), now,
		); err != nil {
			return fmt.Errorf("insert point %s %s: %w", ticker, p.Date.Format(model.DateLayout), err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordRanking(ctx context.Context, ranking model.Ranking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var (
		topTicker string
		topScore  int
		topGood   bool
	)
	if ranking.Top != nil {
		topTicker = ranking.Top.Row.Ticker
		topScore = ranking.Top.Row.Score
		topGood = ranking.Top.Good
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO ranking_snapshots
		(timestamp, top_ticker, top_score, top_good, banner_title)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), topTicker, topScore, boolInt(topGood), ranking.BannerTitle,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, row := range ranking.Rows {
		if _, err := tx.ExecContext(ctx, `INSERT INTO ranking_rows
			(snapshot_id, position, ticker, name, premium, rank, score, label, risk_level, degraded, last_update)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			id, i, row.Ticker, row.Name, row.Premium, row.Rank, row.Score,
			row.Label, string(row.Risk.Level), boolInt(row.Degraded), row.LastUpdate,
		); err != nil {
			return fmt.Errorf("insert ranking row %s: %w", row.Ticker, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) LoadSeries(ctx context.Context, ticker string) ([]model.EnrichedPoint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date, close_price, ref_date, ref_value, premium, rsi, volatility, lag_days, source, is_real
		FROM series_points WHERE ticker = ? ORDER BY date`, ticker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []model.EnrichedPoint
	for rows.Next() {
		var (
			p             model.EnrichedPoint
			date, refDate string
			isReal        int
		)
		if err := rows.Scan(&date, &p.ClosePrice, &refDate, &p.ReferenceValue, &p.PremiumRate,
			&p.RSI, &p.Volatility, &p.LagDays, &p.Source, &isReal); err != nil {
			return nil, err
		}
		if p.Date, err = model.ParseDate(date); err != nil {
			return nil, fmt.Errorf("stored date %q: %w", date, err)
		}
		if p.RefDate, err = model.ParseDate(refDate); err != nil {
			return nil, fmt.Errorf("stored ref date %q: %w", refDate, err)
		}
		p.IsReal = isReal != 0
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
