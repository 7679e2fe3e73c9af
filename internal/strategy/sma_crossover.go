package strategy

import (
	"fmt"
	"math"
	"sort"

	"trading-simv1/internal/indicator"
	"trading-simv1/internal/model"
)

// SMACrossover is an alternative trend-following policy.
//
// Buy signal: fast SMA crosses above slow SMA (golden cross)
// Sell signal: fast SMA crosses below slow SMA (death cross), selling the
// entire current holding.
type SMACrossover struct {
	FastWindow int
	SlowWindow int
	BuyQty     int64
}

// NewSMACrossover creates the policy. fastWindow < slowWindow (e.g., 9 and 21).
func NewSMACrossover(fastWindow, slowWindow int, buyQty int64) *SMACrossover {
	return &SMACrossover{
		FastWindow: fastWindow,
		SlowWindow: slowWindow,
		BuyQty:     buyQty,
	}
}

func (p *SMACrossover) Name() string { return "SMA_Crossover" }

func (p *SMACrossover) Decide(series map[string]model.TimeSeries, book HoldingsView) []model.TradeIntent {
	symbols := make([]string, 0, len(series))
	for s := range series {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var intents []model.TradeIntent
	for _, symbol := range symbols {
		ts := series[symbol]
		// Crossover detection needs two defined points of the slow SMA.
		if len(ts) < p.SlowWindow+1 {
			continue
		}

		closes := ts.Closes()
		fast := indicator.SMASeries(closes, p.FastWindow)
		slow := indicator.SMASeries(closes, p.SlowWindow)

		n := len(closes)
		curFast, curSlow := fast[n-1], slow[n-1]
		prevFast, prevSlow := fast[n-2], slow[n-2]
		if math.IsNaN(prevFast) || math.IsNaN(prevSlow) {
			continue
		}
		price := ts.LatestClose()

		switch {
		case prevFast <= prevSlow && curFast > curSlow:
			intents = append(intents, model.TradeIntent{
				Symbol: symbol,
				Action: model.ActionBuy,
				Qty:    p.BuyQty,
				Price:  price,
				Reason: fmt.Sprintf("SMA golden cross (%d > %d)", p.FastWindow, p.SlowWindow),
			})
		case prevFast >= prevSlow && curFast < curSlow:
			held := book.Quantity(symbol)
			if held <= 0 {
				continue
			}
			intents = append(intents, model.TradeIntent{
				Symbol: symbol,
				Action: model.ActionSell,
				Qty:    held,
				Price:  price,
				Reason: fmt.Sprintf("SMA death cross (%d < %d)", p.FastWindow, p.SlowWindow),
			})
		}
	}
	return intents
}
