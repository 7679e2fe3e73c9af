// Package sqlite provides the durable price store and the trade/valuation
// journal on a single SQLite database.
//
// The price table is append-only: upserts use insert-or-ignore on
// the (symbol, date) primary key, so re-ingesting an overlapping range is a
// no-op for days already stored and no fetch ever overwrites an existing row.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"trading-simv1/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite-backed price store.
type Store struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Open opens (or creates) the database with WAL mode and the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Single writer, sequential access
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	slog.Info("[sqlite] opened database", "path", path)
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS price_history (
			symbol  TEXT    NOT NULL,
			date    TEXT    NOT NULL,
			open    REAL    NOT NULL,
			high    REAL    NOT NULL,
			low     REAL    NOT NULL,
			close   REAL    NOT NULL,
			volume  INTEGER NOT NULL,
			PRIMARY KEY (symbol, date)
		);

		CREATE TABLE IF NOT EXISTS trades (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			date    TEXT    NOT NULL,
			symbol  TEXT    NOT NULL,
			action  TEXT    NOT NULL,
			price   REAL    NOT NULL,
			qty     INTEGER NOT NULL,
			fee     REAL    NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
		CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);

		CREATE TABLE IF NOT EXISTS valuations (
			date        TEXT PRIMARY KEY,
			total_value REAL NOT NULL
		);
	`)
	return err
}

// UpsertPrices inserts rows for symbol in one transaction with
// insert-or-ignore semantics: a row whose (symbol, date) already exists is
// silently skipped. A malformed row is skipped with a warning and does not
// abort the rest of the batch. Returns the number of rows actually inserted.
func (s *Store) UpsertPrices(symbol string, rows []model.PricePoint) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("sqlite begin: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO price_history (symbol, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("sqlite prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range rows {
		r := &rows[i]
		if !r.Valid() {
			slog.Warn("[sqlite] skipping malformed row",
				"symbol", symbol, "date", r.Date, "close", r.Close)
			continue
		}
		res, err := stmt.Exec(symbol, r.Day(), r.Open, r.High, r.Low, r.Close, r.Volume)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("sqlite insert %s %s: %w", symbol, r.Day(), err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite commit: %w", err)
	}
	return inserted, nil
}

// QueryRange returns all stored rows for symbol with from ≤ date ≤ to,
// ascending by date. No matching rows yields an empty series, not an error.
func (s *Store) QueryRange(symbol string, from, to time.Time) (model.TimeSeries, error) {
	rows, err := s.db.Query(`
		SELECT symbol, date, open, high, low, close, volume
		FROM price_history
		WHERE symbol = ? AND date BETWEEN ? AND ?
		ORDER BY date ASC
	`, symbol, from.Format(model.DateLayout), to.Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("sqlite query prices: %w", err)
	}
	defer rows.Close()

	var series model.TimeSeries
	for rows.Next() {
		var p model.PricePoint
		var dateStr string
		if err := rows.Scan(&p.Symbol, &dateStr, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			return nil, fmt.Errorf("sqlite scan price: %w", err)
		}
		p.Date, err = model.ParseDay(dateStr)
		if err != nil {
			return nil, fmt.Errorf("sqlite stored date %q: %w", dateStr, err)
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

// LastDate returns the most recent stored day for symbol.
// Returns a zero time when the symbol has no rows.
func (s *Store) LastDate(symbol string) (time.Time, error) {
	var day sql.NullString
	err := s.db.QueryRow(
		`SELECT MAX(date) FROM price_history WHERE symbol = ?`, symbol,
	).Scan(&day)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite last date: %w", err)
	}
	if !day.Valid {
		return time.Time{}, nil
	}
	return model.ParseDay(day.String)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
