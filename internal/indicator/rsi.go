package indicator

import (
	"fmt"

	"trading-simv1/internal/model"
)

// RSI calculates the Relative Strength Index from simple rolling means of
// gains and losses over the trailing window of per-day deltas.
//
// Note: this deliberately uses plain rolling means, not Wilder's exponential
// smoothing. The trading rules in this system were tuned against the
// rolling-mean variant, so the two must stay in sync.
//
// When no decline is observed in the window (loss mean is zero) RSI is 100.
type RSI struct {
	window    int
	gains     []float64 // circular buffers of per-delta gains/losses
	losses    []float64
	idx       int
	deltas    int // deltas received so far
	gainSum   float64
	lossSum   float64
	prevClose float64
	count     int // price points received
	current   float64
}

// NewRSI creates a new RSI indicator with the given window (typically 14).
func NewRSI(window int) *RSI {
	return &RSI{
		window: window,
		gains:  make([]float64, window),
		losses: make([]float64, window),
	}
}

func (r *RSI) Name() string { return fmt.Sprintf("RSI_%d", r.window) }

func (r *RSI) Update(p model.PricePoint) {
	r.update(p.Close)
}

func (r *RSI) update(price float64) {
	r.count++
	if r.count == 1 {
		// First point, no delta yet
		r.prevClose = price
		return
	}

	delta := price - r.prevClose
	r.prevClose = price

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	if r.deltas >= r.window {
		// Evict the oldest delta from both running sums
		r.gainSum -= r.gains[r.idx]
		r.lossSum -= r.losses[r.idx]
	}
	r.gains[r.idx] = gain
	r.losses[r.idx] = loss
	r.gainSum += gain
	r.lossSum += loss
	r.idx = (r.idx + 1) % r.window
	r.deltas++

	if r.deltas < r.window {
		return
	}

	if r.lossSum <= 0 {
		// No natural decline observed in the window
		r.current = 100.0
		return
	}
	rs := r.gainSum / r.lossSum
	r.current = 100.0 - 100.0/(1.0+rs)
}

func (r *RSI) Value() float64 { return r.current }

// Ready reports whether a full window of deltas has been observed,
// which requires window+1 price points.
func (r *RSI) Ready() bool { return r.deltas >= r.window }

// Reset clears the RSI state for reuse.
func (r *RSI) Reset() {
	r.idx = 0
	r.deltas = 0
	r.gainSum = 0
	r.lossSum = 0
	r.prevClose = 0
	r.count = 0
	r.current = 0
	for i := range r.gains {
		r.gains[i] = 0
		r.losses[i] = 0
	}
}
