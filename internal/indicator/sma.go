package indicator

import (
	"fmt"

	"trading-simv1/internal/model"
)

// SMA calculates Simple Moving Average over a rolling window.
// Uses a preallocated circular buffer and a running sum for O(1) updates.
type SMA struct {
	window  int
	buf     []float64 // preallocated circular buffer
	idx     int       // current write position
	count   int       // total values received
	sum     float64
	current float64
}

// NewSMA creates a new SMA indicator with the given window size.
func NewSMA(window int) *SMA {
	return &SMA{
		window: window,
		buf:    make([]float64, window),
	}
}

func (s *SMA) Name() string { return fmt.Sprintf("SMA_%d", s.window) }

func (s *SMA) Update(p model.PricePoint) {
	s.update(p.Close)
}

func (s *SMA) update(price float64) {
	if s.count >= s.window {
		// Subtract the oldest value being overwritten
		s.sum -= s.buf[s.idx]
	}

	s.buf[s.idx] = price
	s.sum += price
	s.idx = (s.idx + 1) % s.window
	s.count++

	if s.count >= s.window {
		s.current = s.sum / float64(s.window)
	}
}

func (s *SMA) Value() float64 { return s.current }
func (s *SMA) Ready() bool    { return s.count >= s.window }

// Reset clears the SMA state for reuse.
func (s *SMA) Reset() {
	s.idx = 0
	s.count = 0
	s.sum = 0
	s.current = 0
	for i := range s.buf {
		s.buf[i] = 0
	}
}
