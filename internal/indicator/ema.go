package indicator

import (
	"fmt"

	"trading-simv1/internal/model"
)

// EMA calculates the Exponential Moving Average with standard exponential
// weighting and no bias adjustment: the first observation seeds the average,
// and every later value is current = price*m + prev*(1-m) with m = 2/(n+1).
// Defined from the very first point: there is no SMA warm-up, so MACD built
// on top of it is defined for the whole series.
type EMA struct {
	period     int
	multiplier float64
	current    float64
	count      int
}

// NewEMA creates a new EMA indicator with the given period.
func NewEMA(period int) *EMA {
	return &EMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *EMA) Name() string { return fmt.Sprintf("EMA_%d", e.period) }

func (e *EMA) Update(p model.PricePoint) {
	e.update(p.Close)
}

func (e *EMA) update(price float64) {
	e.count++
	if e.count == 1 {
		e.current = price
		return
	}
	e.current = price*e.multiplier + e.current*(1-e.multiplier)
}

func (e *EMA) Value() float64 { return e.current }
func (e *EMA) Ready() bool    { return e.count >= 1 }

// Reset clears the EMA state for reuse.
func (e *EMA) Reset() {
	e.current = 0
	e.count = 0
}
