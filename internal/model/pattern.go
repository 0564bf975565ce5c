package model

// PatternType classifies a candlestick pattern.
type PatternType string

const (
	PatternBullish    PatternType = "bullish"
	PatternBearish    PatternType = "bearish"
	PatternIndecision PatternType = "indecision"
)

// Pattern is one detected candlestick pattern.
type Pattern struct {
	Name         string      `json:"pattern"`
	Type         PatternType `json:"type"`
	Significance string      `json:"significance"`
	CandleIndex  int         `json:"candle_index"`
}
