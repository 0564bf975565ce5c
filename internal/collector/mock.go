package collector

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"marketlens/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
// Charts and Errors are keyed by symbol; other symbols get a generated series.
type MockSource struct {
	Charts map[string]*model.Chart
	Errors map[string]error
	// Bars is the length of generated series. Zero means 130 (about six months of days).
	Bars int
	Now  func() time.Time

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchChart(ctx context.Context, symbol, interval, rng string) (*model.Chart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()

	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if c, ok := m.Charts[symbol]; ok {
		return c, nil
	}
	return m.generate(symbol), nil
}

// Calls reports how many times symbol was fetched.
func (m *MockSource) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

// generate builds a deterministic wave-shaped daily series seeded by the symbol.
func (m *MockSource) generate(symbol string) *model.Chart {
	n := m.Bars
	if n <= 0 {
		n = 130
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	h := fnv.New32a()
	h.Write([]byte(symbol))
	seed := h.Sum32()
	base := 50 + float64(seed%450)
	phase := float64(seed%17) / 3

	end := now().UTC().Truncate(24 * time.Hour)
	candles := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		p := base * (1 + 0.05*math.Sin(float64(i)/6+phase) + 0.0005*float64(i))
		open := p * (1 - 0.002*math.Cos(float64(i)))
		candles[i] = model.Candle{
			Time:   end.AddDate(0, 0, -(n - 1 - i)),
			Open:   open,
			High:   math.Max(open, p) * 1.004,
			Low:    math.Min(open, p) * 0.996,
			Close:  p,
			Volume: float64(1_000_000 + (seed+uint32(i)*7919)%9_000_000),
		}
	}
	last := candles[n-1]
	prev := last.Close
	if n > 1 {
		prev = candles[n-2].Close
	}
	return &model.Chart{
		Symbol: symbol,
		Meta: model.ChartMeta{
			Currency:           "USD",
			ExchangeName:       "MOCK",
			ShortName:          fmt.Sprintf("%s (mock)", symbol),
			RegularMarketPrice: last.Close,
			RegularMarketTime:  last.Time.Unix(),
			PreviousClose:      prev,
			DayHigh:            last.High,
			DayLow:             last.Low,
			Volume:             last.Volume,
			Timezone:           "UTC",
		},
		Series: model.PriceSeries{Symbol: symbol, Candles: candles},
	}
}
