package indicator

import (
	"math"

	"trading-simv1/internal/model"
)

// Whole-series helpers. Each runs a streaming indicator over a complete
// closing-price sequence and returns one value per input index, with NaN
// marking the warm-up prefix where the indicator is not yet defined.

// SMASeries computes the simple moving average for every index.
func SMASeries(closes []float64, window int) []float64 {
	s := NewSMA(window)
	out := make([]float64, len(closes))
	for i, c := range closes {
		s.update(c)
		out[i] = readyValue(s)
	}
	return out
}

// RSISeries computes the rolling-mean RSI for every index.
func RSISeries(closes []float64, window int) []float64 {
	r := NewRSI(window)
	out := make([]float64, len(closes))
	for i, c := range closes {
		r.update(c)
		out[i] = readyValue(r)
	}
	return out
}

// BollingerSeries computes the middle, upper, and lower bands for every index.
func BollingerSeries(closes []float64, window int, k float64) (mid, upper, lower []float64) {
	b := NewBollinger(window, k)
	mid = make([]float64, len(closes))
	upper = make([]float64, len(closes))
	lower = make([]float64, len(closes))
	for i, c := range closes {
		b.update(c)
		if !b.Ready() {
			mid[i], upper[i], lower[i] = math.NaN(), math.NaN(), math.NaN()
			continue
		}
		mid[i], upper[i], lower[i] = b.Bands()
	}
	return mid, upper, lower
}

// MACDSeries computes the MACD line and signal line for every index.
func MACDSeries(closes []float64, fast, slow, signal int) (line, signalLine []float64) {
	m := NewMACD(fast, slow, signal)
	line = make([]float64, len(closes))
	signalLine = make([]float64, len(closes))
	for i, c := range closes {
		m.update(c)
		line[i], signalLine[i] = m.Lines()
	}
	return line, signalLine
}

// OBVSeries computes on-balance volume for every index. The first value is 0.
func OBVSeries(closes []float64, volumes []int64) []float64 {
	o := NewOBV()
	out := make([]float64, len(closes))
	for i, c := range closes {
		var v int64
		if i < len(volumes) {
			v = volumes[i]
		}
		o.update(c, v)
		out[i] = o.Value()
	}
	return out
}

// LatestRSI computes the rolling-mean RSI at the last point of a series.
// ok is false when the series is too short for a full window of deltas.
func LatestRSI(ts model.TimeSeries, window int) (value float64, ok bool) {
	r := NewRSI(window)
	for i := range ts {
		r.Update(ts[i])
	}
	return r.Value(), r.Ready()
}

func readyValue(ind Indicator) float64 {
	if !ind.Ready() {
		return math.NaN()
	}
	return ind.Value()
}
