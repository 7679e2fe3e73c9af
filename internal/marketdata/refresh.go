package marketdata

import (
	"context"
	"log/slog"
	"time"

	"trading-simv1/internal/model"
)

// PriceWriter is the slice of the price store the refresher needs: the last
// stored day per symbol and idempotent row insertion.
type PriceWriter interface {
	// LastDate returns the most recent stored day for symbol, or a zero
	// time when the symbol has no rows yet.
	LastDate(symbol string) (time.Time, error)

	// UpsertPrices inserts rows with insert-or-ignore semantics and
	// returns the number of rows actually inserted.
	UpsertPrices(symbol string, rows []model.PricePoint) (int, error)
}

// Refresher performs the incremental per-asset data refresh: it fetches only
// the days that have elapsed since the store's last stored day, never a full
// re-fetch. Re-running over an overlapping range is a no-op for days the
// store already holds.
type Refresher struct {
	src   Source
	store PriceWriter
}

// NewRefresher wires a source to a price store.
func NewRefresher(src Source, store PriceWriter) *Refresher {
	return &Refresher{src: src, store: store}
}

// Refresh brings the store current for symbol through upTo. earliest bounds
// the fetch when the store is empty (typically the simulation start date).
// Returns the number of newly stored rows.
func (r *Refresher) Refresh(ctx context.Context, symbol string, earliest, upTo time.Time) (int, error) {
	last, err := r.store.LastDate(symbol)
	if err != nil {
		return 0, err
	}

	start := earliest
	if !last.IsZero() {
		start = last.AddDate(0, 0, 1)
	}
	if start.After(upTo) {
		return 0, nil // already current
	}

	rows, err := r.src.Fetch(ctx, symbol, start, upTo)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		// Nothing traded in the window (weekend, holiday), not an error.
		return 0, nil
	}

	n, err := r.store.UpsertPrices(symbol, rows)
	if err != nil {
		return 0, err
	}
	slog.Debug("[refresh] stored rows",
		"symbol", symbol, "from", start.Format(model.DateLayout),
		"to", upTo.Format(model.DateLayout), "inserted", n)
	return n, nil
}
