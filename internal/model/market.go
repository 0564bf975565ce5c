package model

import (
	"math"
	"sort"
	"time"
)

// Candle represents a single OHLCV bar. Treat it as immutable once built.
type Candle struct {
	Time   time.Time `json:"-"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Valid reports whether the bar satisfies the OHLC ordering invariants.
func (c Candle) Valid() bool {
	if c.Volume < 0 {
		return false
	}
	if c.High < math.Max(math.Max(c.Open, c.Close), c.Low) {
		return false
	}
	return c.Low <= math.Min(math.Min(c.Open, c.Close), c.High)
}

// RawBar is one sample as reported by a data source. Any field may be missing.
type RawBar struct {
	Timestamp int64
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	Volume    *float64
}

// PriceSeries is an ascending, duplicate-free sequence of candles.
type PriceSeries struct {
	Symbol  string
	Candles []Candle
}

// BuildSeries drops every bar with a missing OHLCV field and every bar that fails
// Valid, sorts the rest by time and keeps only the last bar seen for a given timestamp.
// It also returns how many complete bars were rejected as invalid.
func BuildSeries(symbol string, raw []RawBar) (PriceSeries, int) {
	candles := make([]Candle, 0, len(raw))
	invalid := 0
	for _, r := range raw {
		if r.Open == nil || r.High == nil || r.Low == nil || r.Close == nil || r.Volume == nil {
			continue
		}
		c := Candle{
			Time:   time.Unix(r.Timestamp, 0).UTC(),
			Open:   *r.Open,
			High:   *r.High,
			Low:    *r.Low,
			Close:  *r.Close,
			Volume: *r.Volume,
		}
		if !c.Valid() {
			invalid++
			continue
		}
		candles = append(candles, c)
	}

	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })

	out := candles[:0]
	for _, c := range candles {
		if n := len(out); n > 0 && out[n-1].Time.Equal(c.Time) {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	return PriceSeries{Symbol: symbol, Candles: out}, invalid
}

// Len returns the number of candles.
func (s PriceSeries) Len() int { return len(s.Candles) }

// Last returns the most recent candle.
func (s PriceSeries) Last() (Candle, bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

func (s PriceSeries) Opens() []float64   { return s.pluck(func(c Candle) float64 { return c.Open }) }
func (s PriceSeries) Highs() []float64   { return s.pluck(func(c Candle) float64 { return c.High }) }
func (s PriceSeries) Lows() []float64    { return s.pluck(func(c Candle) float64 { return c.Low }) }
func (s PriceSeries) Closes() []float64  { return s.pluck(func(c Candle) float64 { return c.Close }) }
func (s PriceSeries) Volumes() []float64 { return s.pluck(func(c Candle) float64 { return c.Volume }) }

func (s PriceSeries) pluck(field func(Candle) float64) []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = field(c)
	}
	return out
}

// ChartMeta carries the instrument metadata returned alongside a chart.
type ChartMeta struct {
	Currency           string  `json:"currency"`
	ExchangeName       string  `json:"exchangeName"`
	ShortName          string  `json:"shortName,omitempty"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
	PreviousClose      float64 `json:"previousClose"`
	DayHigh            float64 `json:"dayHigh"`
	DayLow             float64 `json:"dayLow"`
	Volume             float64 `json:"volume"`
	Timezone           string  `json:"timezone"`
}

// Chart is what a data source returns for one symbol/interval/range request.
type Chart struct {
	Symbol string
	Meta   ChartMeta
	Series PriceSeries
}

// Quote is the latest price snapshot for a symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	MarketTime    int64   `json:"marketTime"`
	DayHigh       float64 `json:"dayHigh"`
	DayLow        float64 `json:"dayLow"`
	Volume        float64 `json:"volume"`
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}
