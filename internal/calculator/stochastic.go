package calculator

// DefaultStochasticPeriod is the %K lookback.
const DefaultStochasticPeriod = 14

// StochasticResult holds %K and %D.
type StochasticResult struct {
	K float64
	D float64
}

// Stochastic computes %K from the last close against the high/low range of the last
// kPeriod bars; a flat range gives 50. %D is reported equal to %K, no separate smoothing
// is applied. Both are rounded to 2 places.
func Stochastic(highs, lows, closes []float64, kPeriod int) (StochasticResult, bool) {
	if kPeriod <= 0 || len(closes) < kPeriod {
		return StochasticResult{}, false
	}
	high, low, ok := WindowRange(highs, lows, kPeriod)
	if !ok {
		return StochasticResult{}, false
	}
	k := Round(RangePosition(closes[len(closes)-1], high, low)*100, 2)
	return StochasticResult{K: k, D: k}, true
}
