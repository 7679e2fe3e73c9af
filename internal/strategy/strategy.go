// Package strategy provides decision policies for the simulator.
//
// A Policy receives the full per-asset price history up to the current day
// plus a read-only view of current holdings and emits trade intents. The
// simulator executes intents in the order produced; policies never touch the
// ledger directly.
package strategy

import "trading-simv1/internal/model"

// HoldingsView is the read-only holdings capability handed to policies.
type HoldingsView interface {
	// Quantity returns the currently held quantity for a symbol (0 if none).
	Quantity(symbol string) int64
}

// Policy is the single capability a decision policy implements. Alternative
// policies (different indicators, thresholds, position sizing) plug in here
// without touching the simulator or the ledger.
type Policy interface {
	// Name returns the unique name of the policy.
	Name() string

	// Decide maps the current per-asset series and holdings to trade
	// intents. It must not mutate its inputs.
	Decide(series map[string]model.TimeSeries, book HoldingsView) []model.TradeIntent
}
