package strategy

import (
	"fmt"
	"log/slog"
	"sort"

	"trading-simv1/internal/indicator"
	"trading-simv1/internal/model"
)

// RSIReversion is the default mean-reversion policy:
//
//	RSI below the buy threshold  → BUY a fixed quantity
//	RSI above the sell threshold → SELL the entire current holding
//
// Assets with fewer than MinHistory points are skipped for the day: that is
// an expected warm-up condition, not an error.
type RSIReversion struct {
	Window        int     // RSI window (default 14)
	MinHistory    int     // minimum points before deciding (default 15)
	BuyQty        int64   // fixed quantity per BUY intent
	BuyThreshold  float64 // default 30
	SellThreshold float64 // default 70
}

// NewRSIReversion creates the policy with conventional defaults and the
// given position size.
func NewRSIReversion(buyQty int64) *RSIReversion {
	return &RSIReversion{
		Window:        14,
		MinHistory:    15,
		BuyQty:        buyQty,
		BuyThreshold:  30,
		SellThreshold: 70,
	}
}

func (p *RSIReversion) Name() string { return "RSI_Reversion" }

func (p *RSIReversion) Decide(series map[string]model.TimeSeries, book HoldingsView) []model.TradeIntent {
	// Stable asset order so runs are deterministic.
	symbols := make([]string, 0, len(series))
	for s := range series {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var intents []model.TradeIntent
	for _, symbol := range symbols {
		ts := series[symbol]
		if len(ts) < p.MinHistory {
			continue // not enough history yet
		}

		rsi, ok := indicator.LatestRSI(ts, p.Window)
		if !ok {
			continue
		}
		price := ts.LatestClose()

		switch {
		case rsi < p.BuyThreshold:
			intents = append(intents, model.TradeIntent{
				Symbol: symbol,
				Action: model.ActionBuy,
				Qty:    p.BuyQty,
				Price:  price,
				Reason: fmt.Sprintf("RSI %.1f < %.0f", rsi, p.BuyThreshold),
			})
		case rsi > p.SellThreshold:
			held := book.Quantity(symbol)
			if held <= 0 {
				continue
			}
			intents = append(intents, model.TradeIntent{
				Symbol: symbol,
				Action: model.ActionSell,
				Qty:    held,
				Price:  price,
				Reason: fmt.Sprintf("RSI %.1f > %.0f", rsi, p.SellThreshold),
			})
		}
	}

	if len(intents) > 0 {
		slog.Debug("[strategy] decided", "policy", p.Name(), "intents", len(intents))
	}
	return intents
}
