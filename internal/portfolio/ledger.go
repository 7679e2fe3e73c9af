// Package portfolio maintains the simulation's authoritative ledger:
// cash balance, per-asset holdings, and the append-only trade history.
//
// The ledger has exactly one writer (the simulator's day loop) and no
// concurrent readers, so it carries no locks.
package portfolio

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trading-simv1/internal/model"
)

// Business conditions. These are expected, recoverable outcomes of a trade
// attempt: the caller logs and moves on, the ledger stays untouched.
var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

// Ledger tracks cash, holdings, and executed trades for one portfolio.
type Ledger struct {
	cash     float64
	holdings map[string]int64
	history  []model.TradeRecord

	// Cost basis per symbol for realized P&L reporting.
	basis    map[string]costEntry
	realized float64
}

type costEntry struct {
	qty      int64
	avgPrice float64
}

// NewLedger creates a ledger with the given starting cash and no holdings.
func NewLedger(startingCash float64) *Ledger {
	return &Ledger{
		cash:     startingCash,
		holdings: make(map[string]int64),
		basis:    make(map[string]costEntry),
	}
}

// Buy executes a purchase: cash decreases by price*qty+fee, the holding
// increases by qty, and a BUY record is appended. If cash cannot cover the
// total cost the ledger is left untouched and ErrInsufficientFunds is
// returned after logging.
func (l *Ledger) Buy(symbol string, price float64, qty int64, date time.Time, fee float64) error {
	totalCost := price*float64(qty) + fee
	if l.cash < totalCost {
		slog.Warn("[ledger] buy rejected: insufficient funds",
			"symbol", symbol, "qty", qty, "cost", totalCost, "cash", l.cash)
		return fmt.Errorf("buy %d %s at %.2f: %w", qty, symbol, price, ErrInsufficientFunds)
	}

	l.cash -= totalCost
	l.holdings[symbol] += qty
	l.history = append(l.history, model.TradeRecord{
		Date: date, Symbol: symbol, Action: model.ActionBuy,
		Price: price, Qty: qty, Fee: fee,
	})
	l.updateBasisBuy(symbol, price, qty)

	slog.Info("[ledger] bought",
		"symbol", symbol, "qty", qty, "price", price, "cost", totalCost, "cash", l.cash)
	return nil
}

// Sell executes a sale: the holding decreases by qty, cash increases by
// price*qty-fee, and a SELL record is appended. If the holding cannot cover
// qty the ledger is left untouched and ErrInsufficientHoldings is returned
// after logging.
func (l *Ledger) Sell(symbol string, price float64, qty int64, date time.Time, fee float64) error {
	held := l.holdings[symbol]
	if held < qty {
		slog.Warn("[ledger] sell rejected: insufficient holdings",
			"symbol", symbol, "qty", qty, "held", held)
		return fmt.Errorf("sell %d %s at %.2f: %w", qty, symbol, price, ErrInsufficientHoldings)
	}

	l.holdings[symbol] = held - qty
	proceeds := price*float64(qty) - fee
	l.cash += proceeds
	l.history = append(l.history, model.TradeRecord{
		Date: date, Symbol: symbol, Action: model.ActionSell,
		Price: price, Qty: qty, Fee: fee,
	})
	l.updateBasisSell(symbol, price, qty)

	slog.Info("[ledger] sold",
		"symbol", symbol, "qty", qty, "price", price, "proceeds", proceeds, "cash", l.cash)
	return nil
}

// Evaluate returns the total portfolio value: cash plus every holding at its
// supplied current price. An asset with no supplied price contributes 0,
// the stale-data fallback, not an error.
func (l *Ledger) Evaluate(currentPrices map[string]float64) float64 {
	total := l.cash
	for symbol, qty := range l.holdings {
		total += float64(qty) * currentPrices[symbol]
	}
	return total
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 { return l.cash }

// Quantity returns the held quantity for a symbol (0 if none).
func (l *Ledger) Quantity(symbol string) int64 { return l.holdings[symbol] }

// Holdings returns a copy of the holdings map, omitting emptied positions.
func (l *Ledger) Holdings() map[string]int64 {
	out := make(map[string]int64, len(l.holdings))
	for s, q := range l.holdings {
		if q > 0 {
			out[s] = q
		}
	}
	return out
}

// History returns a copy of the append-only trade history in execution order.
func (l *Ledger) History() []model.TradeRecord {
	out := make([]model.TradeRecord, len(l.history))
	copy(out, l.history)
	return out
}

// RealizedPnL returns the cumulative realized profit from closed positions,
// before fees.
func (l *Ledger) RealizedPnL() float64 { return l.realized }

// AvgCost returns the weighted average entry price for a symbol (0 if flat).
func (l *Ledger) AvgCost(symbol string) float64 { return l.basis[symbol].avgPrice }

func (l *Ledger) updateBasisBuy(symbol string, price float64, qty int64) {
	e := l.basis[symbol]
	if e.qty == 0 {
		e.qty = qty
		e.avgPrice = price
	} else {
		totalCost := e.avgPrice*float64(e.qty) + price*float64(qty)
		e.qty += qty
		e.avgPrice = totalCost / float64(e.qty)
	}
	l.basis[symbol] = e
}

func (l *Ledger) updateBasisSell(symbol string, price float64, qty int64) {
	e := l.basis[symbol]
	sellQty := qty
	if sellQty > e.qty {
		sellQty = e.qty
	}
	l.realized += (price - e.avgPrice) * float64(sellQty)
	e.qty -= sellQty
	if e.qty <= 0 {
		e = costEntry{}
	}
	l.basis[symbol] = e
}
