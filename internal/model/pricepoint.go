// Package model defines the core data types shared across the simulator:
// daily price points, per-asset time series, trade intents and records,
// and daily valuation snapshots.
package model

import (
	"math"
	"time"
)

// DateLayout is the canonical calendar-day format used everywhere a date
// crosses a boundary (SQLite, CSV, logs). Days carry no time component.
const DateLayout = "2006-01-02"

// PricePoint is one daily OHLCV row for a single asset.
// (Symbol, Date) is unique within a store; rows are never mutated once stored.
type PricePoint struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"` // UTC midnight
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Day returns the date formatted as YYYY-MM-DD.
func (p *PricePoint) Day() string {
	return p.Date.Format(DateLayout)
}

// Valid reports whether the row has everything a store requires:
// a symbol, a real date, and finite prices.
func (p *PricePoint) Valid() bool {
	if p.Symbol == "" || p.Date.IsZero() {
		return false
	}
	for _, v := range []float64{p.Open, p.High, p.Low, p.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// TimeSeries is the date-ascending sequence of price points for one asset.
// Consumers rely on the ascending order for windowed recurrences.
type TimeSeries []PricePoint

// Closes returns the closing prices in series order.
func (ts TimeSeries) Closes() []float64 {
	out := make([]float64, len(ts))
	for i := range ts {
		out[i] = ts[i].Close
	}
	return out
}

// Volumes returns the volumes in series order.
func (ts TimeSeries) Volumes() []int64 {
	out := make([]int64, len(ts))
	for i := range ts {
		out[i] = ts[i].Volume
	}
	return out
}

// LatestClose returns the most recent closing price, or 0 for an empty series.
func (ts TimeSeries) LatestClose() float64 {
	if len(ts) == 0 {
		return 0
	}
	return ts[len(ts)-1].Close
}

// Day normalizes t to UTC midnight, stripping any time-of-day component.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
