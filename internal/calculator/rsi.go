package calculator

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// RSI computes a simplified, non-rolling RSI: average gain and average loss are the
// plain means of the first `period` deltas of closes, with no Wilder smoothing of the
// remainder. Callers pick the window by slicing closes. Requires at least period+1
// closes; ok is false otherwise. The result is rounded to 2 places.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else if change < 0 {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return Round(100-100/(1+rs), 2), true
}
