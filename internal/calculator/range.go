package calculator

import "math"

// WindowRange scans the most recent n entries of highs and lows and returns the
// highest high and lowest low. ok is false when either slice is shorter than n.
func WindowRange(highs, lows []float64, n int) (high, low float64, ok bool) {
	if n <= 0 || len(highs) < n || len(lows) < n {
		return 0, 0, false
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := len(highs) - n; i < len(highs); i++ {
		if highs[i] > high {
			high = highs[i]
		}
	}
	for i := len(lows) - n; i < len(lows); i++ {
		if lows[i] < low {
			low = lows[i]
		}
	}
	return high, low, true
}

// RangePosition returns where current sits within [low, high] as a fraction in 0.0~1.0.
// A flat range yields 0.5.
func RangePosition(current, high, low float64) float64 {
	if high == low {
		return 0.5
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}
