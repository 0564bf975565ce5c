package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"marketlens/internal/calculator"
	"marketlens/internal/model"
	"marketlens/internal/pattern"
	"marketlens/internal/strategy"
)

// MinIndicatorCloses is the history required by the indicators endpoint.
const MinIndicatorCloses = 20

// Analysis is the indicator and signal result for one symbol.
type Analysis struct {
	Symbol       string              `json:"symbol"`
	CurrentPrice float64             `json:"current_price"`
	Timestamp    time.Time           `json:"timestamp"`
	Indicators   model.IndicatorSet  `json:"indicators"`
	Signal       model.TradingSignal `json:"signal"`
}

// PatternReport is the candlestick scan result for one symbol.
type PatternReport struct {
	Symbol    string          `json:"symbol"`
	Patterns  []model.Pattern `json:"patterns"`
	Timestamp time.Time       `json:"timestamp"`
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Source Source
	Log    logrus.FieldLogger
	Now    func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(src Source, log logrus.FieldLogger) *Collector {
	return &Collector{Source: src, Log: log, Now: time.Now}
}

// Analyze fetches six months of daily bars, computes every indicator and scores them.
func (c *Collector) Analyze(ctx context.Context, symbol string) (*Analysis, error) {
	chart, err := c.Source.FetchChart(ctx, symbol, "1d", "6mo")
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	series := chart.Series
	if series.Len() < MinIndicatorCloses {
		return nil, fmt.Errorf("%s has %d closes, need %d: %w", symbol, series.Len(), MinIndicatorCloses, model.ErrInsufficientData)
	}

	last, _ := series.Last()
	ind := c.computeIndicators(symbol, series)

	return &Analysis{
		Symbol:       symbol,
		CurrentPrice: last.Close,
		Timestamp:    c.Now(),
		Indicators:   ind,
		Signal:       strategy.Evaluate(ind, last.Close),
	}, nil
}

func (c *Collector) computeIndicators(symbol string, series model.PriceSeries) model.IndicatorSet {
	ind := ComputeIndicators(series)
	log := c.Log.WithField("symbol", symbol)
	if ind.RSI == nil {
		log.Debug("RSI undefined, not enough closes")
	}
	if ind.MACD.MACD == nil {
		log.Debug("MACD undefined, not enough closes")
	}
	if ind.SMA200 == nil {
		log.Debug("SMA200 undefined, not enough closes")
	}
	return ind
}

// ComputeIndicators runs the full indicator pass over a series with default parameters.
func ComputeIndicators(series model.PriceSeries) model.IndicatorSet {
	closes := series.Closes()
	var ind model.IndicatorSet

	if rsi, ok := calculator.RSI(closes, calculator.DefaultRSIPeriod); ok {
		ind.RSI = model.Float(rsi)
	}

	if m, ok := calculator.MACD(closes, calculator.DefaultMACDFast, calculator.DefaultMACDSlow, calculator.DefaultMACDSignal); ok {
		ind.MACD = model.MACDValue{MACD: model.Float(m.MACD), Signal: model.Float(m.Signal), Histogram: model.Float(m.Histogram)}
	}

	if b, ok := calculator.Bollinger(closes, calculator.DefaultBollingerPeriod, calculator.DefaultBollingerStdDev); ok {
		ind.Bollinger = model.BollingerValue{Upper: model.Float(b.Upper), Middle: model.Float(b.Middle), Lower: model.Float(b.Lower)}
	}

	for _, ma := range calculator.MovingAverages(closes, calculator.DefaultMAPeriods...) {
		switch ma.Period {
		case 20:
			ind.SMA20 = ma.Value
		case 50:
			ind.SMA50 = ma.Value
		case 200:
			ind.SMA200 = ma.Value
		}
	}

	if s, ok := calculator.Stochastic(series.Highs(), series.Lows(), closes, calculator.DefaultStochasticPeriod); ok {
		ind.Stochastic = model.StochasticValue{K: model.Float(s.K), D: model.Float(s.D)}
	}

	if avg, cur, ok := calculator.VolumeStats(series.Volumes(), calculator.DefaultVolumeWindow); ok {
		ind.AvgVolume = model.Float(avg)
		ind.CurrentVolume = model.Float(cur)
	}
	return ind
}

// Patterns scans the last month of daily bars for candlestick patterns.
func (c *Collector) Patterns(ctx context.Context, symbol string) (*PatternReport, error) {
	chart, err := c.Source.FetchChart(ctx, symbol, "1d", "1mo")
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	patterns, err := pattern.Detect(chart.Series)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return &PatternReport{Symbol: symbol, Patterns: patterns, Timestamp: c.Now()}, nil
}

// Chart validates the request tokens and returns the filtered chart.
func (c *Collector) Chart(ctx context.Context, symbol, interval, rng string) (*model.Chart, error) {
	if err := ValidateInterval(interval); err != nil {
		return nil, err
	}
	if err := ValidateRange(rng); err != nil {
		return nil, err
	}
	chart, err := c.Source.FetchChart(ctx, symbol, interval, rng)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	return chart, nil
}

// Quote returns the latest price snapshot from the one-day chart metadata.
func (c *Collector) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	chart, err := c.Source.FetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	m := chart.Meta
	q := &model.Quote{
		Symbol:        symbol,
		Price:         m.RegularMarketPrice,
		Currency:      m.Currency,
		MarketTime:    m.RegularMarketTime,
		DayHigh:       m.DayHigh,
		DayLow:        m.DayLow,
		Volume:        m.Volume,
		PreviousClose: m.PreviousClose,
	}
	q.Change, q.ChangePercent = PriceChange(q.Price, q.PreviousClose)
	return q, nil
}

// PriceChange returns the absolute change (4 places) and percent change (2 places)
// against a previous close. Both are zero when the previous close is not positive.
func PriceChange(price, previousClose float64) (change, percent float64) {
	if previousClose <= 0 {
		return 0, 0
	}
	change = calculator.Round(price-previousClose, 4)
	return change, calculator.Round(change/previousClose*100, 2)
}
