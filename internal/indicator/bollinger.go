package indicator

import (
	"fmt"
	"math"

	"trading-simv1/internal/model"
)

// Bollinger calculates Bollinger Bands: a rolling mean plus an envelope of
// k sample standard deviations on either side. The window is held in a
// circular buffer; the variance pass over the buffer is O(window), which for
// daily data is effectively free and avoids the cancellation problems of a
// running sum-of-squares.
type Bollinger struct {
	window int
	k      float64
	buf    []float64
	idx    int
	count  int
	sum    float64

	mid, upper, lower float64
}

// NewBollinger creates Bollinger Bands with the given window and band width k.
func NewBollinger(window int, k float64) *Bollinger {
	return &Bollinger{
		window: window,
		k:      k,
		buf:    make([]float64, window),
	}
}

func (b *Bollinger) Name() string { return fmt.Sprintf("BB_%d", b.window) }

func (b *Bollinger) Update(p model.PricePoint) {
	b.update(p.Close)
}

func (b *Bollinger) update(price float64) {
	if b.count >= b.window {
		b.sum -= b.buf[b.idx]
	}
	b.buf[b.idx] = price
	b.sum += price
	b.idx = (b.idx + 1) % b.window
	b.count++

	if b.count < b.window {
		return
	}

	mean := b.sum / float64(b.window)
	var sq float64
	for _, v := range b.buf {
		d := v - mean
		sq += d * d
	}
	// Sample standard deviation (n-1 denominator)
	std := math.Sqrt(sq / float64(b.window-1))

	b.mid = mean
	b.upper = mean + b.k*std
	b.lower = mean - b.k*std
}

// Value returns the middle band (the rolling mean).
func (b *Bollinger) Value() float64 { return b.mid }
func (b *Bollinger) Ready() bool    { return b.count >= b.window }

// Bands returns the middle, upper, and lower band values.
func (b *Bollinger) Bands() (mid, upper, lower float64) {
	return b.mid, b.upper, b.lower
}
