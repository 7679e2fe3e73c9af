package portfolio

import (
	"errors"
	"math"
	"testing"
	"time"

	"trading-simv1/internal/model"
)

var day = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func assertClose(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.0001 {
		t.Errorf("%s: got %.6f, want %.6f", label, got, want)
	}
}

func TestBuy_DebitsCashAndAddsHolding(t *testing.T) {
	l := NewLedger(10000)
	if err := l.Buy("AAPL", 100.0, 10, day, 1.0); err != nil {
		t.Fatalf("Buy: %v", err)
	}
	assertClose(t, "cash", l.Cash(), 10000-100*10-1)
	if got := l.Quantity("AAPL"); got != 10 {
		t.Errorf("Quantity = %d, want 10", got)
	}
	hist := l.History()
	if len(hist) != 1 || hist[0].Action != model.ActionBuy || hist[0].Qty != 10 {
		t.Errorf("history = %+v, want one BUY of 10", hist)
	}
}

func TestBuy_InsufficientFunds_NoMutation(t *testing.T) {
	l := NewLedger(500)
	err := l.Buy("AAPL", 100.0, 10, day, 1.0) // needs 1001
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	assertClose(t, "cash unchanged", l.Cash(), 500)
	if l.Quantity("AAPL") != 0 {
		t.Error("holding mutated on rejected buy")
	}
	if len(l.History()) != 0 {
		t.Error("history grew on rejected buy")
	}
}

func TestSell_CreditsCashAndReducesHolding(t *testing.T) {
	l := NewLedger(10000)
	if err := l.Buy("AAPL", 100.0, 10, day, 1.0); err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if err := l.Sell("AAPL", 120.0, 4, day, 1.0); err != nil {
		t.Fatalf("Sell: %v", err)
	}
	assertClose(t, "cash", l.Cash(), 10000-1001+120*4-1)
	if got := l.Quantity("AAPL"); got != 6 {
		t.Errorf("Quantity = %d, want 6", got)
	}
}

func TestSell_InsufficientHoldings_NoMutation(t *testing.T) {
	l := NewLedger(10000)
	if err := l.Buy("AAPL", 100.0, 5, day, 1.0); err != nil {
		t.Fatalf("Buy: %v", err)
	}
	cashBefore := l.Cash()

	err := l.Sell("AAPL", 120.0, 10, day, 1.0)
	if !errors.Is(err, ErrInsufficientHoldings) {
		t.Fatalf("err = %v, want ErrInsufficientHoldings", err)
	}
	assertClose(t, "cash unchanged", l.Cash(), cashBefore)
	if l.Quantity("AAPL") != 5 {
		t.Error("holding mutated on rejected sell")
	}
}

func TestSolvencyInvariant(t *testing.T) {
	// Cash must never go negative regardless of the call sequence: a buy
	// that would cross zero is rejected before mutation.
	l := NewLedger(1000)
	calls := []struct {
		action model.Action
		price  float64
		qty    int64
	}{
		{model.ActionBuy, 90, 10},  // 901 → ok, cash 99
		{model.ActionBuy, 90, 10},  // 901 → rejected
		{model.ActionSell, 95, 5},  // ok, cash 573
		{model.ActionBuy, 600, 1},  // 601 → rejected
		{model.ActionBuy, 500, 1},  // 501 → ok, cash 72
		{model.ActionSell, 10, 50}, // rejected: only 6 held
	}
	for i, c := range calls {
		if c.action == model.ActionBuy {
			_ = l.Buy("X", c.price, c.qty, day, 1.0)
		} else {
			_ = l.Sell("X", c.price, c.qty, day, 1.0)
		}
		if l.Cash() < 0 {
			t.Fatalf("call %d: cash went negative: %.2f", i, l.Cash())
		}
	}
}

func TestEvaluate_MissingPriceContributesZero(t *testing.T) {
	l := NewLedger(1000)
	if err := l.Buy("AAPL", 50.0, 10, day, 0); err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if err := l.Buy("GOOG", 20.0, 5, day, 0); err != nil {
		t.Fatalf("Buy: %v", err)
	}
	// GOOG has no current price → contributes 0, not an error.
	total := l.Evaluate(map[string]float64{"AAPL": 60.0})
	assertClose(t, "evaluate", total, 1000-500-100+10*60)
}

func TestRealizedPnL_AverageCostBasis(t *testing.T) {
	l := NewLedger(100000)
	// Two buys at different prices: avg cost = (10*100 + 10*110)/20 = 105
	_ = l.Buy("AAPL", 100.0, 10, day, 0)
	_ = l.Buy("AAPL", 110.0, 10, day, 0)
	assertClose(t, "avg cost", l.AvgCost("AAPL"), 105.0)

	// Sell 5 at 125: realized = (125-105)*5 = 100
	_ = l.Sell("AAPL", 125.0, 5, day, 0)
	assertClose(t, "realized", l.RealizedPnL(), 100.0)
}
