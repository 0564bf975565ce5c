// Package overview builds the multi-symbol market overview and watchlist tables.
package overview

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"marketlens/internal/calculator"
	"marketlens/internal/collector"
	"marketlens/internal/metrics"
	"marketlens/internal/model"
	"marketlens/internal/strategy"
)

var (
	DefaultSymbols   = []string{"AAPL", "GOOGL", "MSFT", "EURUSD=X", "BTC-USD", "^GSPC"}
	DefaultWatchlist = []string{"AAPL", "GOOGL", "MSFT", "EURUSD=X", "BTC-USD"}
)

const (
	// MinCloses is the history a symbol needs to appear in the overview.
	MinCloses = 14
	// rsiWindow is how many trailing closes feed the overview RSI.
	rsiWindow = 20
	// trendLookback compares the last close with the close this many bars back (inclusive).
	trendLookback = 5

	defaultConcurrency = 4
)

// Result is the per-symbol outcome of a fan-out.
type Result[T any] struct {
	Symbol string
	Entry  T
	Err    error
}

// Builder computes overview rows concurrently from a Source.
type Builder struct {
	Source      collector.Source
	Symbols     []string
	Watch       []string
	Concurrency int
	Log         logrus.FieldLogger
	Metrics     *metrics.Metrics
}

// NewBuilder creates a Builder with the default symbol lists.
func NewBuilder(src collector.Source, log logrus.FieldLogger, m *metrics.Metrics) *Builder {
	return &Builder{
		Source:      src,
		Symbols:     DefaultSymbols,
		Watch:       DefaultWatchlist,
		Concurrency: defaultConcurrency,
		Log:         log,
		Metrics:     m,
	}
}

// Build returns one entry per symbol that could be analyzed, in watchlist order.
// Symbols that fail are logged and omitted.
func (b *Builder) Build(ctx context.Context) []model.OverviewEntry {
	results := fanOut(ctx, b.Symbols, b.Concurrency, b.overviewEntry)

	entries := make([]model.OverviewEntry, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			b.Log.WithError(r.Err).WithField("symbol", r.Symbol).Warn("overview: symbol skipped")
			continue
		}
		entries = append(entries, r.Entry)
	}
	b.Metrics.SetOverview(len(entries), failed)
	return entries
}

// Watchlist returns quote rows for the watchlist symbols, in order.
func (b *Builder) Watchlist(ctx context.Context) []model.WatchlistEntry {
	results := fanOut(ctx, b.Watch, b.Concurrency, b.watchlistEntry)

	entries := make([]model.WatchlistEntry, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			b.Log.WithError(r.Err).WithField("symbol", r.Symbol).Warn("watchlist: symbol skipped")
			continue
		}
		entries = append(entries, r.Entry)
	}
	return entries
}

func (b *Builder) overviewEntry(ctx context.Context, symbol string) (model.OverviewEntry, error) {
	chart, err := b.Source.FetchChart(ctx, symbol, "1d", "1mo")
	if err != nil {
		return model.OverviewEntry{}, err
	}
	e, err := Entry(chart)
	e.Symbol = symbol
	return e, err
}

// Entry derives one overview row from a daily chart.
func Entry(chart *model.Chart) (model.OverviewEntry, error) {
	closes := chart.Series.Closes()
	n := len(closes)
	if n < MinCloses {
		return model.OverviewEntry{}, fmt.Errorf("%d closes, need %d: %w", n, MinCloses, model.ErrInsufficientData)
	}

	var rsi *float64
	if n >= rsiWindow {
		if v, ok := calculator.RSI(closes[n-rsiWindow:], calculator.DefaultRSIPeriod); ok {
			rsi = model.Float(v)
		}
	}

	trend := model.TrendNeutral
	if n >= trendLookback {
		if closes[n-1] > closes[n-trendLookback] {
			trend = model.TrendUp
		} else {
			trend = model.TrendDown
		}
	}

	price := closes[n-1]
	prev := chart.Meta.PreviousClose
	if prev <= 0 {
		prev = closes[n-2]
	}
	change, pct := collector.PriceChange(price, prev)

	return model.OverviewEntry{
		Symbol:        chart.Symbol,
		Name:          displayName(chart),
		Price:         price,
		Change:        change,
		ChangePercent: pct,
		RSI:           rsi,
		Signal:        strategy.CoarseSignal(rsi),
		Trend:         trend,
		Currency:      chart.Meta.Currency,
	}, nil
}

func (b *Builder) watchlistEntry(ctx context.Context, symbol string) (model.WatchlistEntry, error) {
	chart, err := b.Source.FetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return model.WatchlistEntry{}, err
	}
	m := chart.Meta
	change, pct := collector.PriceChange(m.RegularMarketPrice, m.PreviousClose)
	return model.WatchlistEntry{
		Symbol:        symbol,
		Name:          displayName(chart),
		Price:         m.RegularMarketPrice,
		Change:        change,
		ChangePercent: pct,
		Currency:      m.Currency,
	}, nil
}

func displayName(chart *model.Chart) string {
	if chart.Meta.ShortName != "" {
		return chart.Meta.ShortName
	}
	return chart.Symbol
}

// fanOut runs fn for every symbol with at most limit in flight. Each goroutine writes
// only its own result slot and always returns nil.
func fanOut[T any](ctx context.Context, symbols []string, limit int, fn func(context.Context, string) (T, error)) []Result[T] {
	if limit <= 0 {
		limit = defaultConcurrency
	}
	results := make([]Result[T], len(symbols))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			entry, err := fn(ctx, sym)
			results[i] = Result[T]{Symbol: sym, Entry: entry, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
