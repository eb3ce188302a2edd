package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"ReturnLens/internal/model"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteStore caches price history in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s, err := newSQLiteStore(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Info().Str("path", dbPath).Msg("sqlite price cache opened")
	return s, nil
}

func newSQLiteStore(db *sql.DB, logger zerolog.Logger) (*SQLiteStore, error) {
	// WAL lets the API read while a digest run refreshes the cache.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &SQLiteStore{db: db, logger: logger, now: time.Now}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_fetches (
			symbol     TEXT PRIMARY KEY,
			fetched_at INTEGER NOT NULL,
			bar_count  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL NOT NULL,
			volume    REAL,
			PRIMARY KEY (symbol, timestamp)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) LoadBars(ctx context.Context, symbol string) ([]model.OHLCV, time.Time, error) {
	var fetchedAt int64
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at, bar_count FROM price_fetches WHERE symbol = ?`, symbol,
	).Scan(&fetchedAt, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNotCached
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load fetch marker: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, open, high, low, close, volume
		 FROM price_bars WHERE symbol = ? ORDER BY timestamp`, symbol)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load bars: %w", err)
	}
	defer rows.Close()

	bars := make([]model.OHLCV, 0, count)
	for rows.Next() {
		var ts int64
		var b model.OHLCV
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = time.Unix(ts, 0).UTC()
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate bars: %w", err)
	}
	return bars, time.Unix(fetchedAt, 0).UTC(), nil
}

func (s *SQLiteStore) SaveBars(ctx context.Context, symbol string, bars []model.OHLCV) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_bars WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("clear bars: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO price_bars
		(symbol, timestamp, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Time.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar %s: %w", b.Time.Format("2006-01-02"), err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO price_fetches
		(symbol, fetched_at, bar_count) VALUES (?,?,?)`,
		symbol, s.now().Unix(), len(bars)); err != nil {
		return fmt.Errorf("mark fetch: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("price history cached")
	return nil
}

func (s *SQLiteStore) Close() error {
	s.logger.Info().Msg("closing sqlite price cache")
	return s.db.Close()
}
