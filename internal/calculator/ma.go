package calculator

// DefaultMAPeriods are the moving-average windows reported by the indicator pipeline.
var DefaultMAPeriods = []int{20, 50, 200}

// MovingAverage is one SMA window result; Value is nil when history is too short.
type MovingAverage struct {
	Period int
	Value  *float64
}

// SMA computes the simple moving average of the last `period` prices.
// ok is false when period is not positive or there are fewer than period prices.
func SMA(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) < period {
		return 0, false
	}
	return mean(prices[len(prices)-period:]), true
}

// MovingAverages returns the SMA of the closes for each period, rounded to 4 places.
func MovingAverages(closes []float64, periods ...int) []MovingAverage {
	out := make([]MovingAverage, 0, len(periods))
	for _, p := range periods {
		ma := MovingAverage{Period: p}
		if v, ok := SMA(closes, p); ok {
			r := Round(v, 4)
			ma.Value = &r
		}
		out = append(out, ma)
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
