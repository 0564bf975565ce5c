package calculator

import "math"

// Bollinger default parameters.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerStdDev = 2.0
)

// BollingerResult holds the last band values.
type BollingerResult struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger computes the bands over the last `period` closes using the SMA and the
// sample standard deviation (n-1) of that window, rounded to 4 places.
func Bollinger(closes []float64, period int, stdDev float64) (BollingerResult, bool) {
	middle, ok := SMA(closes, period)
	if !ok {
		return BollingerResult{}, false
	}
	sigma := sampleStdDev(closes[len(closes)-period:], middle)
	return BollingerResult{
		Upper:  Round(middle+stdDev*sigma, 4),
		Middle: Round(middle, 4),
		Lower:  Round(middle-stdDev*sigma, 4),
	}, true
}

// sampleStdDev is zero for a single-element window.
func sampleStdDev(window []float64, mean float64) float64 {
	if len(window) < 2 {
		return 0
	}
	var sq float64
	for _, v := range window {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(window)-1))
}
