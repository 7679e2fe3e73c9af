package indicator

import (
	"fmt"

	"trading-simv1/internal/model"
)

// MACD calculates Moving Average Convergence/Divergence: the difference of a
// fast and a slow EMA, plus a signal line that is an EMA of that difference.
// Because the EMAs are seeded with the first observation, both lines are
// defined from the first point.
type MACD struct {
	fast, slow, signal *EMA
	line, sig          float64
	count              int
}

// NewMACD creates a MACD indicator with the given EMA periods
// (conventionally 12, 26, 9).
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fast:   NewEMA(fast),
		slow:   NewEMA(slow),
		signal: NewEMA(signal),
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD_%d_%d_%d", m.fast.period, m.slow.period, m.signal.period)
}

func (m *MACD) Update(p model.PricePoint) {
	m.update(p.Close)
}

func (m *MACD) update(price float64) {
	m.count++
	m.fast.update(price)
	m.slow.update(price)
	m.line = m.fast.Value() - m.slow.Value()
	m.signal.update(m.line)
	m.sig = m.signal.Value()
}

// Value returns the MACD line (fast EMA minus slow EMA).
func (m *MACD) Value() float64 { return m.line }
func (m *MACD) Ready() bool    { return m.count >= 1 }

// Lines returns the MACD line and the signal line.
func (m *MACD) Lines() (line, signal float64) {
	return m.line, m.sig
}
