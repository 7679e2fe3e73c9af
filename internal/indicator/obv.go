package indicator

import "trading-simv1/internal/model"

// OBV calculates On-Balance Volume: a cumulative running total seeded at 0
// that adds the day's volume when the close rose versus the prior day,
// subtracts it when the close fell, and is unchanged when equal.
type OBV struct {
	prevClose float64
	count     int
	current   float64
}

// NewOBV creates a new OBV indicator.
func NewOBV() *OBV {
	return &OBV{}
}

func (o *OBV) Name() string { return "OBV" }

func (o *OBV) Update(p model.PricePoint) {
	o.update(p.Close, p.Volume)
}

func (o *OBV) update(close float64, volume int64) {
	o.count++
	if o.count == 1 {
		// First point is 0 by convention
		o.prevClose = close
		return
	}

	switch {
	case close > o.prevClose:
		o.current += float64(volume)
	case close < o.prevClose:
		o.current -= float64(volume)
	}
	o.prevClose = close
}

func (o *OBV) Value() float64 { return o.current }
func (o *OBV) Ready() bool    { return o.count >= 1 }
