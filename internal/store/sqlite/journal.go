package sqlite

import (
	"fmt"

	"trading-simv1/internal/model"
)

// Journal operations: append-only persistence of executed trades and daily
// valuations for later analysis by the out-of-scope presentation layer.

// SaveTrade appends an executed trade to the journal.
func (s *Store) SaveTrade(rec model.TradeRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO trades (date, symbol, action, price, qty, fee)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Date.Format(model.DateLayout),
		rec.Symbol,
		string(rec.Action),
		rec.Price,
		rec.Qty,
		rec.Fee,
	)
	if err != nil {
		return fmt.Errorf("sqlite insert trade: %w", err)
	}
	return nil
}

// SaveValuation records the day's total portfolio value. Re-running a day
// overwrites its valuation rather than duplicating it.
func (s *Store) SaveValuation(rec model.ValuationRecord) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO valuations (date, total_value) VALUES (?, ?)`,
		rec.Date.Format(model.DateLayout),
		rec.TotalValue,
	)
	if err != nil {
		return fmt.Errorf("sqlite insert valuation: %w", err)
	}
	return nil
}

// Trades returns the last n journal entries, newest first.
func (s *Store) Trades(n int) ([]model.TradeRecord, error) {
	rows, err := s.db.Query(`
		SELECT date, symbol, action, price, qty, fee
		FROM trades ORDER BY id DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("sqlite query trades: %w", err)
	}
	defer rows.Close()

	var out []model.TradeRecord
	for rows.Next() {
		var rec model.TradeRecord
		var dateStr, action string
		if err := rows.Scan(&dateStr, &rec.Symbol, &action, &rec.Price, &rec.Qty, &rec.Fee); err != nil {
			return nil, fmt.Errorf("sqlite scan trade: %w", err)
		}
		rec.Date, err = model.ParseDay(dateStr)
		if err != nil {
			return nil, fmt.Errorf("sqlite stored date %q: %w", dateStr, err)
		}
		rec.Action = model.Action(action)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Valuations returns the stored valuation trajectory, ascending by date.
func (s *Store) Valuations() ([]model.ValuationRecord, error) {
	rows, err := s.db.Query(`SELECT date, total_value FROM valuations ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite query valuations: %w", err)
	}
	defer rows.Close()

	var out []model.ValuationRecord
	for rows.Next() {
		var rec model.ValuationRecord
		var dateStr string
		if err := rows.Scan(&dateStr, &rec.TotalValue); err != nil {
			return nil, fmt.Errorf("sqlite scan valuation: %w", err)
		}
		rec.Date, err = model.ParseDay(dateStr)
		if err != nil {
			return nil, fmt.Errorf("sqlite stored date %q: %w", dateStr, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
