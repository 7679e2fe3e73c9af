// Package indicator provides technical indicator calculations over daily
// price series.
//
// Every indicator is a streaming recurrence: Update feeds one price point and
// recalculates from running window state, never from history scans. Whole-series
// helpers in series.go run an indicator over a complete TimeSeries and mark
// the warm-up prefix as NaN ("not available").
package indicator

import "trading-simv1/internal/model"

// Indicator is the interface for all streaming technical indicators.
type Indicator interface {
	// Name returns the indicator name (e.g., "SMA_20", "RSI_14").
	Name() string

	// Update feeds a new daily price point and recalculates.
	Update(p model.PricePoint)

	// Value returns the current calculated value. Returns 0 if not enough data.
	Value() float64

	// Ready returns true once enough data has been accumulated for the
	// value to be defined.
	Ready() bool
}
