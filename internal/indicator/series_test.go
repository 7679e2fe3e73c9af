package indicator

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
)

// Cross-checks the streaming recurrences against gonum's batch statistics
// on a fixed series, so a windowing bug can't hide behind a matching
// hand-calculation error.

var oracleSeries = []float64{
	104.2, 101.7, 103.9, 99.8, 102.5, 105.1, 100.3, 98.6,
	101.9, 104.8, 103.2, 99.1, 102.7, 106.0, 101.4, 100.8,
}

func TestSMASeries_AgainstGonum(t *testing.T) {
	const window = 5
	got := SMASeries(oracleSeries, window)

	for i := range oracleSeries {
		if i < window-1 {
			if !math.IsNaN(got[i]) {
				t.Errorf("index %d: got %.4f, want NaN before full window", i, got[i])
			}
			continue
		}
		want := stat.Mean(oracleSeries[i-window+1:i+1], nil)
		assertClose(t, "SMA vs gonum", got[i], want, 1e-9)
	}
}

func TestBollingerSeries_AgainstGonum(t *testing.T) {
	const window = 5
	const k = 2.0
	mid, upper, lower := BollingerSeries(oracleSeries, window, k)

	for i := window - 1; i < len(oracleSeries); i++ {
		win := oracleSeries[i-window+1 : i+1]
		wantMid := stat.Mean(win, nil)
		wantStd := stat.StdDev(win, nil) // sample std, matching the bands
		assertClose(t, "BB mid vs gonum", mid[i], wantMid, 1e-9)
		assertClose(t, "BB upper vs gonum", upper[i], wantMid+k*wantStd, 1e-9)
		assertClose(t, "BB lower vs gonum", lower[i], wantMid-k*wantStd, 1e-9)
	}
}

func TestRSISeries_WarmupPrefix(t *testing.T) {
	const window = 14
	got := RSISeries(oracleSeries, window)

	// window deltas need window+1 points: indices 0..window-1 are undefined.
	for i := 0; i < window; i++ {
		if !math.IsNaN(got[i]) {
			t.Errorf("index %d: got %.4f, want NaN before %d deltas", i, got[i], window)
		}
	}
	for i := window; i < len(got); i++ {
		if math.IsNaN(got[i]) {
			t.Errorf("index %d: unexpected NaN after warm-up", i)
		}
		if got[i] < 0 || got[i] > 100 {
			t.Errorf("index %d: RSI %.4f outside [0, 100]", i, got[i])
		}
	}
}

func TestOBVSeries_MatchesSignLaw(t *testing.T) {
	closes := []float64{10, 11, 11, 9, 12}
	volumes := []int64{100, 200, 300, 400, 500}
	got := OBVSeries(closes, volumes)
	want := []float64{0, 200, 200, -200, 300}
	for i := range want {
		assertClose(t, "OBV series", got[i], want[i], 1e-9)
	}

	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			assertClose(t, "OBV sign law up", got[i], got[i-1]+float64(volumes[i]), 1e-9)
		case closes[i] < closes[i-1]:
			assertClose(t, "OBV sign law down", got[i], got[i-1]-float64(volumes[i]), 1e-9)
		default:
			assertClose(t, "OBV sign law flat", got[i], got[i-1], 1e-9)
		}
	}
}

func TestMACDSeries_DefinedFromFirstIndex(t *testing.T) {
	line, sig := MACDSeries(oracleSeries, 12, 26, 9)
	for i := range line {
		if math.IsNaN(line[i]) || math.IsNaN(sig[i]) {
			t.Errorf("index %d: MACD has NaN, want defined from first index", i)
		}
	}
}
