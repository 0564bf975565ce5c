package model

// MACDValue holds the last MACD line, signal line and histogram values.
type MACDValue struct {
	MACD      *float64 `json:"macd"`
	Signal    *float64 `json:"signal"`
	Histogram *float64 `json:"histogram"`
}

// BollingerValue holds the last Bollinger band values.
type BollingerValue struct {
	Upper  *float64 `json:"upper"`
	Middle *float64 `json:"middle"`
	Lower  *float64 `json:"lower"`
}

// StochasticValue holds %K and %D.
type StochasticValue struct {
	K *float64 `json:"k"`
	D *float64 `json:"d"`
}

// IndicatorSet holds all computed technical indicators for one series.
// A nil field means the indicator is undefined for lack of history.
type IndicatorSet struct {
	RSI           *float64        `json:"rsi"`
	MACD          MACDValue       `json:"macd"`
	Bollinger     BollingerValue  `json:"bollinger"`
	SMA20         *float64        `json:"sma_20"`
	SMA50         *float64        `json:"sma_50"`
	SMA200        *float64        `json:"sma_200"`
	Stochastic    StochasticValue `json:"stochastic"`
	AvgVolume     *float64        `json:"avg_volume,omitempty"`
	CurrentVolume *float64        `json:"current_volume,omitempty"`
}

// Float returns a pointer to v, for building optional indicator values.
func Float(v float64) *float64 { return &v }
