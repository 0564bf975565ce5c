package calculator

// EMA returns the recursive exponential moving average of values with the given span.
// The first output equals the first input; after that
// ema[i] = alpha*values[i] + (1-alpha)*ema[i-1] with alpha = 2/(span+1).
func EMA(values []float64, span int) []float64 {
	if len(values) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
