package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketlens/internal/logger"
	"marketlens/internal/model"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func chartFromCloses(symbol string, closes ...float64) *model.Chart {
	candles := make([]model.Candle, len(closes))
	for i, c := range closes {
		candles[i] = model.Candle{
			Time:  testEpoch.AddDate(0, 0, i),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return &model.Chart{
		Symbol: symbol,
		Meta:   model.ChartMeta{Currency: "USD", RegularMarketPrice: closes[len(closes)-1]},
		Series: model.PriceSeries{Symbol: symbol, Candles: candles},
	}
}

func newTestCollector(src Source) *Collector {
	c := NewCollector(src, logger.Discard())
	c.Now = func() time.Time { return testEpoch }
	return c
}

func TestAnalyze_GeneratedSeries(t *testing.T) {
	c := newTestCollector(&MockSource{Bars: 130})
	a, err := c.Analyze(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	ind := a.Indicators
	if ind.RSI == nil || ind.MACD.MACD == nil || ind.Bollinger.Upper == nil || ind.Stochastic.K == nil {
		t.Fatalf("expected core indicators, got %+v", ind)
	}
	if ind.SMA20 == nil || ind.SMA50 == nil {
		t.Errorf("SMA20/SMA50 should be defined with 130 closes")
	}
	if ind.SMA200 != nil {
		t.Errorf("SMA200 should be undefined with 130 closes, got %v", *ind.SMA200)
	}
	if ind.AvgVolume == nil || ind.CurrentVolume == nil {
		t.Errorf("volume stats should be defined")
	}
	if !a.Timestamp.Equal(testEpoch) {
		t.Errorf("timestamp = %v", a.Timestamp)
	}
	if a.Signal.Recommendation == "" {
		t.Errorf("expected a recommendation")
	}
}

func TestAnalyze_InsufficientData(t *testing.T) {
	closes := make([]float64, 19)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	src := &MockSource{Charts: map[string]*model.Chart{"SHORT": chartFromCloses("SHORT", closes...)}}
	_, err := newTestCollector(src).Analyze(context.Background(), "SHORT")
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestAnalyze_PropagatesNotFound(t *testing.T) {
	src := &MockSource{Errors: map[string]error{"NOPE": model.ErrNotFound}}
	_, err := newTestCollector(src).Analyze(context.Background(), "NOPE")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestComputeIndicators_RisingSeries(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	ind := ComputeIndicators(chartFromCloses("UP", closes...).Series)
	if ind.RSI == nil || *ind.RSI != 100 {
		t.Errorf("RSI = %v, want 100", ind.RSI)
	}
	if ind.SMA20 == nil || *ind.SMA20 != 50.5 {
		t.Errorf("SMA20 = %v, want 50.5", ind.SMA20)
	}
	if ind.AvgVolume != nil && *ind.AvgVolume != 0 {
		t.Errorf("AvgVolume = %v, want 0", *ind.AvgVolume)
	}
}

func TestPatterns_InsufficientData(t *testing.T) {
	src := &MockSource{Charts: map[string]*model.Chart{"X": chartFromCloses("X", 1, 2)}}
	_, err := newTestCollector(src).Patterns(context.Background(), "X")
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestPatterns_ReturnsReport(t *testing.T) {
	src := &MockSource{Charts: map[string]*model.Chart{"X": chartFromCloses("X", 10, 11, 12, 13)}}
	r, err := newTestCollector(src).Patterns(context.Background(), "X")
	if err != nil {
		t.Fatalf("Patterns: %v", err)
	}
	if r.Symbol != "X" || r.Patterns == nil {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestChart_RejectsBadTokens(t *testing.T) {
	c := newTestCollector(&MockSource{})
	if _, err := c.Chart(context.Background(), "AAPL", "2h", "1mo"); !errors.Is(err, model.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
	if _, err := c.Chart(context.Background(), "AAPL", "1d", "10y"); !errors.Is(err, model.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := c.Chart(context.Background(), "AAPL", "1d", "1mo"); err != nil {
		t.Errorf("valid tokens rejected: %v", err)
	}
}

func TestQuote_Change(t *testing.T) {
	chart := chartFromCloses("EURUSD=X", 1.08, 1.09)
	chart.Meta.RegularMarketPrice = 1.0925
	chart.Meta.PreviousClose = 1.0850
	src := &MockSource{Charts: map[string]*model.Chart{"EURUSD=X": chart}}

	q, err := newTestCollector(src).Quote(context.Background(), "EURUSD=X")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Change != 0.0075 {
		t.Errorf("change = %v, want 0.0075", q.Change)
	}
	if q.ChangePercent != 0.69 {
		t.Errorf("change percent = %v, want 0.69", q.ChangePercent)
	}
}

func TestPriceChange_NoPreviousClose(t *testing.T) {
	ch, pct := PriceChange(10, 0)
	if ch != 0 || pct != 0 {
		t.Errorf("PriceChange(10, 0) = %v, %v", ch, pct)
	}
}

func TestMockSource_Deterministic(t *testing.T) {
	now := func() time.Time { return testEpoch }
	a, _ := (&MockSource{Now: now}).FetchChart(context.Background(), "BTC-USD", "1d", "6mo")
	b, _ := (&MockSource{Now: now}).FetchChart(context.Background(), "BTC-USD", "1d", "6mo")
	if a.Series.Len() != b.Series.Len() {
		t.Fatalf("lengths differ")
	}
	for i := range a.Series.Candles {
		if a.Series.Candles[i] != b.Series.Candles[i] {
			t.Fatalf("candle %d differs", i)
		}
		if !a.Series.Candles[i].Valid() {
			t.Fatalf("candle %d invalid: %+v", i, a.Series.Candles[i])
		}
	}
}

func TestValidateTokens(t *testing.T) {
	for _, iv := range Intervals {
		if err := ValidateInterval(iv); err != nil {
			t.Errorf("interval %s rejected", iv)
		}
	}
	for _, r := range Ranges {
		if err := ValidateRange(r); err != nil {
			t.Errorf("range %s rejected", r)
		}
	}
	if ValidateInterval("") == nil || ValidateRange("max") == nil {
		t.Errorf("expected rejection of unknown tokens")
	}
}
