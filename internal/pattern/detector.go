// Package pattern recognizes simple candlestick patterns over the tail of a price series.
package pattern

import (
	"fmt"
	"math"

	"marketlens/internal/model"
)

// Window is how many trailing candles are scanned.
const Window = 3

type rule struct {
	name         string
	kind         model.PatternType
	significance string
	match        func(cur, prev model.Candle) bool
}

// rules are evaluated in this order for every scanned candle.
var rules = []rule{
	{"Doji", model.PatternIndecision, "Possible trend reversal", isDoji},
	{"Hammer", model.PatternBullish, "Possible bullish reversal", isHammer},
	{"Shooting Star", model.PatternBearish, "Possible bearish reversal", isShootingStar},
	{"Bullish Engulfing", model.PatternBullish, "Strong bullish signal", isBullishEngulfing},
}

// Detect scans the last Window candles (oldest first) and reports every rule that fires,
// tagged with the candle's index in the series. Index 0 is never scanned since every
// rule needs a previous candle.
func Detect(series model.PriceSeries) ([]model.Pattern, error) {
	return DetectCandles(series.Candles)
}

// DetectCandles is Detect over a bare candle slice.
func DetectCandles(candles []model.Candle) ([]model.Pattern, error) {
	if len(candles) < Window {
		return nil, fmt.Errorf("pattern scan needs %d candles, got %d: %w", Window, len(candles), model.ErrInsufficientData)
	}

	patterns := []model.Pattern{}
	for i := len(candles) - Window; i < len(candles); i++ {
		if i < 1 {
			continue
		}
		cur, prev := candles[i], candles[i-1]
		for _, r := range rules {
			if r.match(cur, prev) {
				patterns = append(patterns, model.Pattern{
					Name:         r.name,
					Type:         r.kind,
					Significance: r.significance,
					CandleIndex:  i,
				})
			}
		}
	}
	return patterns, nil
}

func body(c model.Candle) float64 { return math.Abs(c.Close - c.Open) }

// isDoji: body strictly below 10% of a non-zero range.
func isDoji(c, _ model.Candle) bool {
	rng := c.High - c.Low
	return rng > 0 && body(c) < rng*0.1
}

func isHammer(c, _ model.Candle) bool {
	b := body(c)
	return c.Close > c.Open &&
		c.High-c.Close < b*0.3 &&
		c.Open-c.Low > b*2
}

func isShootingStar(c, _ model.Candle) bool {
	b := body(c)
	return c.Open > c.Close &&
		c.Close-c.Low < b*0.3 &&
		c.High-c.Open > b*2
}

func isBullishEngulfing(c, prev model.Candle) bool {
	return prev.Open > prev.Close &&
		c.Close > c.Open &&
		c.Open < prev.Close &&
		c.Close > prev.Open
}
