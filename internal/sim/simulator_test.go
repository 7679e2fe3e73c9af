package sim

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"trading-simv1/internal/model"
	"trading-simv1/internal/strategy"
)

// ─── test doubles ────────────────────────────────────────────────────────────

// memStore is an in-memory PriceStore with the same insert-or-ignore
// semantics as the sqlite store.
type memStore struct {
	rows map[string][]model.PricePoint
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string][]model.PricePoint)}
}

func (m *memStore) LastDate(symbol string) (time.Time, error) {
	rows := m.rows[symbol]
	if len(rows) == 0 {
		return time.Time{}, nil
	}
	return rows[len(rows)-1].Date, nil
}

func (m *memStore) UpsertPrices(symbol string, pts []model.PricePoint) (int, error) {
	have := make(map[time.Time]bool, len(m.rows[symbol]))
	for _, r := range m.rows[symbol] {
		have[r.Date] = true
	}
	inserted := 0
	for _, p := range pts {
		if !p.Valid() || have[p.Date] {
			continue
		}
		m.rows[symbol] = append(m.rows[symbol], p)
		have[p.Date] = true
		inserted++
	}
	sort.Slice(m.rows[symbol], func(i, j int) bool {
		return m.rows[symbol][i].Date.Before(m.rows[symbol][j].Date)
	})
	return inserted, nil
}

func (m *memStore) QueryRange(symbol string, from, to time.Time) (model.TimeSeries, error) {
	var out model.TimeSeries
	for _, r := range m.rows[symbol] {
		if !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

// scriptedSource serves a fixed series per symbol, filtered by the
// requested range. Symbols in fail always error.
type scriptedSource struct {
	series map[string][]model.PricePoint
	fail   map[string]bool
}

func (s *scriptedSource) Fetch(_ context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	if s.fail[symbol] {
		return nil, errors.New("provider unavailable")
	}
	var out []model.PricePoint
	for _, p := range s.series[symbol] {
		if !p.Date.Before(start) && !p.Date.After(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

// captureRecorder collects everything the simulator records.
type captureRecorder struct {
	trades     []model.TradeRecord
	rejections []string
	valuations []model.ValuationRecord
}

func (c *captureRecorder) RecordTrade(_ context.Context, rec model.TradeRecord) error {
	c.trades = append(c.trades, rec)
	return nil
}

func (c *captureRecorder) RecordRejection(_ context.Context, _ model.TradeIntent, reason string) error {
	c.rejections = append(c.rejections, reason)
	return nil
}

func (c *captureRecorder) RecordValuation(_ context.Context, rec model.ValuationRecord) error {
	c.valuations = append(c.valuations, rec)
	return nil
}

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func pointsFromCloses(symbol string, closes []float64) []model.PricePoint {
	pts := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = model.PricePoint{
			Symbol: symbol,
			Date:   day(i + 1),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return pts
}

func assertClose(t *testing.T, got, want, tol float64, label string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f", label, got, want)
	}
}

// ─── end-to-end run ──────────────────────────────────────────────────────────

// A 20-day series shaped so the 14-day rolling-mean RSI crosses below 30
// exactly once (day 16, the sharp drop to 91.5) and above 70 exactly once
// (day 20, after the recovery rally).
var scenarioCloses = []float64{
	100, 101, 100.5, 101.5, 101, 102, 101.5, 102.5, 102, 103,
	102.5, 103.5, 103, 104, 103.5, 91.5, 97.5, 105.5, 115.5, 123.5,
}

func TestRunEndToEnd(t *testing.T) {
	store := newMemStore()
	src := &scriptedSource{series: map[string][]model.PricePoint{
		"ACME": pointsFromCloses("ACME", scenarioCloses),
	}}
	rec := &captureRecorder{}

	cfg := Config{
		StartingCash: 10000,
		Assets:       []string{"ACME"},
		StartDate:    day(1),
		EndDate:      day(20),
		TradeFee:     1.0,
		BuyQty:       10,
	}
	s, err := New(cfg, store, src, strategy.NewRSIReversion(10), rec, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	trajectory, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(trajectory) != 20 {
		t.Fatalf("trajectory length = %d, want 20", len(trajectory))
	}

	history := s.Ledger().History()
	if len(history) != 2 {
		t.Fatalf("trade count = %d, want 2 (one buy, one sell)", len(history))
	}
	buy, sell := history[0], history[1]
	if buy.Action != model.ActionBuy || !buy.Date.Equal(day(16)) || buy.Qty != 10 {
		t.Errorf("unexpected buy: %+v", buy)
	}
	assertClose(t, buy.Price, 91.5, 1e-9, "buy price")
	if sell.Action != model.ActionSell || !sell.Date.Equal(day(20)) || sell.Qty != 10 {
		t.Errorf("unexpected sell: %+v", sell)
	}
	assertClose(t, sell.Price, 123.5, 1e-9, "sell price")

	// Before the first trade the portfolio is all cash.
	assertClose(t, trajectory[14].TotalValue, 10000, 1e-9, "day 15 value")
	// Day 16: 10000 - (10*91.5 + 1) cash, plus 10 shares at 91.5.
	assertClose(t, trajectory[15].TotalValue, 9999, 1e-9, "day 16 value")
	// Final: 9084 + (10*123.5 - 1) = 10318, flat again.
	assertClose(t, trajectory[19].TotalValue, 10318, 1e-9, "final value")
	assertClose(t, s.Ledger().Cash(), 10318, 1e-9, "final cash")
	if q := s.Ledger().Quantity("ACME"); q != 0 {
		t.Errorf("final holding = %d, want 0", q)
	}

	if len(rec.valuations) != 20 {
		t.Errorf("recorded valuations = %d, want 20", len(rec.valuations))
	}
	if len(rec.trades) != 2 {
		t.Errorf("recorded trades = %d, want 2", len(rec.trades))
	}
}

// ─── resilience ──────────────────────────────────────────────────────────────

func TestRunFetchErrorIsolated(t *testing.T) {
	store := newMemStore()
	src := &scriptedSource{
		series: map[string][]model.PricePoint{
			"GOOD": pointsFromCloses("GOOD", []float64{100, 101, 102, 103, 104}),
		},
		fail: map[string]bool{"BAD": true},
	}
	rec := &captureRecorder{}

	cfg := Config{
		StartingCash: 1000,
		Assets:       []string{"BAD", "GOOD"},
		StartDate:    day(1),
		EndDate:      day(5),
		BuyQty:       1,
	}
	s, err := New(cfg, store, src, strategy.NewRSIReversion(1), rec, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	trajectory, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run should survive per-asset fetch errors: %v", err)
	}
	if len(trajectory) != 5 {
		t.Fatalf("trajectory length = %d, want 5", len(trajectory))
	}
	// The failing asset contributes nothing, the good one still flows.
	if got, _ := store.QueryRange("GOOD", day(1), day(5)); len(got) != 5 {
		t.Errorf("GOOD rows stored = %d, want 5", len(got))
	}
	if got, _ := store.QueryRange("BAD", day(1), day(5)); len(got) != 0 {
		t.Errorf("BAD rows stored = %d, want 0", len(got))
	}
	assertClose(t, trajectory[4].TotalValue, 1000, 1e-9, "all-cash value")
}

func TestRunEmptyFetchDayKeepsState(t *testing.T) {
	store := newMemStore()
	// Data ends at day 3; days 4 and 5 fetch nothing.
	src := &scriptedSource{series: map[string][]model.PricePoint{
		"ACME": pointsFromCloses("ACME", []float64{50, 51, 52}),
	}}

	cfg := Config{
		StartingCash: 500,
		Assets:       []string{"ACME"},
		StartDate:    day(1),
		EndDate:      day(5),
		BuyQty:       1,
	}
	s, err := New(cfg, store, src, strategy.NewRSIReversion(1), nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	trajectory, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Valuation carries the latest stored close through the quiet days.
	assertClose(t, trajectory[2].TotalValue, 500, 1e-9, "day 3 value")
	assertClose(t, trajectory[4].TotalValue, 500, 1e-9, "day 5 value")
}

// dualIntentPolicy emits, on day 2, an unaffordable BUY followed by a SELL
// of the existing position. Day 1 builds that position.
type dualIntentPolicy struct {
	dayCount int
}

func (p *dualIntentPolicy) Name() string { return "dual_intent_test" }

func (p *dualIntentPolicy) Decide(series map[string]model.TimeSeries, book strategy.HoldingsView) []model.TradeIntent {
	p.dayCount++
	price := series["ACME"].LatestClose()
	switch p.dayCount {
	case 1:
		return []model.TradeIntent{{Symbol: "ACME", Action: model.ActionBuy, Qty: 1, Price: price}}
	case 2:
		return []model.TradeIntent{
			{Symbol: "ACME", Action: model.ActionBuy, Qty: 1000000, Price: price},
			{Symbol: "ACME", Action: model.ActionSell, Qty: book.Quantity("ACME"), Price: price},
		}
	}
	return nil
}

func TestRunIntentsExecuteIndependently(t *testing.T) {
	store := newMemStore()
	src := &scriptedSource{series: map[string][]model.PricePoint{
		"ACME": pointsFromCloses("ACME", []float64{10, 10}),
	}}
	rec := &captureRecorder{}

	cfg := Config{
		StartingCash: 100,
		Assets:       []string{"ACME"},
		StartDate:    day(1),
		EndDate:      day(2),
		BuyQty:       1,
	}
	s, err := New(cfg, store, src, &dualIntentPolicy{}, rec, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The rejected BUY must not block the SELL that follows it.
	if len(rec.rejections) != 1 || rec.rejections[0] != "insufficient funds" {
		t.Errorf("rejections = %v, want one insufficient-funds rejection", rec.rejections)
	}
	if len(rec.trades) != 2 {
		t.Fatalf("executed trades = %d, want 2", len(rec.trades))
	}
	if rec.trades[1].Action != model.ActionSell {
		t.Errorf("second trade = %v, want SELL", rec.trades[1].Action)
	}
	if q := s.Ledger().Quantity("ACME"); q != 0 {
		t.Errorf("final holding = %d, want 0", q)
	}
}

// ─── configuration ───────────────────────────────────────────────────────────

func TestConfigValidate(t *testing.T) {
	base := Config{
		StartingCash: 1000,
		Assets:       []string{"ACME"},
		StartDate:    day(1),
		EndDate:      day(10),
		BuyQty:       1,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no assets", func(c *Config) { c.Assets = nil }},
		{"zero dates", func(c *Config) { c.StartDate, c.EndDate = time.Time{}, time.Time{} }},
		{"end before start", func(c *Config) { c.StartDate, c.EndDate = day(10), day(1) }},
		{"negative cash", func(c *Config) { c.StartingCash = -1 }},
		{"zero buy qty", func(c *Config) { c.BuyQty = 0 }},
		{"negative fee", func(c *Config) { c.TradeFee = -0.5 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate accepted invalid config")
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Errorf("Validate rejected valid config: %v", err)
	}

	// A single-day range is allowed.
	cfg := base
	cfg.EndDate = cfg.StartDate
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate rejected single-day range: %v", err)
	}
}
