// Package marketdata defines the external market-data source contract and
// the incremental refresh that keeps the price store in sync with it.
//
// A Source returns daily OHLCV rows for a symbol and date range. A range
// containing no trading days (weekend, holiday) yields an empty slice, not
// an error. Real transport mechanics live behind the interface so the
// simulator can run against files, fakes, or a live feed unchanged.
package marketdata

import (
	"context"
	"fmt"
	"time"

	"trading-simv1/internal/model"
)

// Source is the external market-data contract.
type Source interface {
	// Fetch returns the daily rows for symbol with start ≤ date ≤ end,
	// ascending by date. An empty range returns an empty slice and nil
	// error; transport or source failures return a *FetchError.
	Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error)
}

// FetchError reports a failed fetch for one symbol. The simulator recovers
// from it at per-asset, per-day granularity.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
