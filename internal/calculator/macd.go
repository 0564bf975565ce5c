package calculator

// MACD default spans.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACDResult holds the last MACD line, signal line and histogram values.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD computes the last MACD, signal and histogram values over the full close series,
// rounded to 6 places. Requires at least `slow` closes.
func MACD(closes []float64, fast, slow, signal int) (MACDResult, bool) {
	if fast <= 0 || slow <= 0 || signal <= 0 || len(closes) < slow {
		return MACDResult{}, false
	}

	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = emaFast[i] - emaSlow[i]
	}
	signalLine := EMA(line, signal)

	last := len(closes) - 1
	return MACDResult{
		MACD:      Round(line[last], 6),
		Signal:    Round(signalLine[last], 6),
		Histogram: Round(line[last]-signalLine[last], 6),
	}, true
}
