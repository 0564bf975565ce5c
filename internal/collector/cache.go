package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"marketlens/internal/metrics"
	"marketlens/internal/model"
)

// CachedSource stores raw charts in Redis for TTL. Cache failures never fail a fetch;
// they are logged and the wrapped source is used directly.
type CachedSource struct {
	Source  Source
	Client  *redis.Client
	TTL     time.Duration
	Log     logrus.FieldLogger
	Metrics *metrics.Metrics
}

// NewCachedSource wraps src with a Redis chart cache.
func NewCachedSource(src Source, client *redis.Client, ttl time.Duration, log logrus.FieldLogger, m *metrics.Metrics) *CachedSource {
	return &CachedSource{Source: src, Client: client, TTL: ttl, Log: log, Metrics: m}
}

func (c *CachedSource) Name() string { return c.Source.Name() }

func (c *CachedSource) FetchChart(ctx context.Context, symbol, interval, rng string) (*model.Chart, error) {
	key := chartCacheKey(symbol, interval, rng)
	log := c.Log.WithField("key", key)

	raw, err := c.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		chart, decErr := decodeChart(raw)
		if decErr == nil {
			c.Metrics.ObserveCache("hit")
			return chart, nil
		}
		log.WithError(decErr).Warn("discarding undecodable cached chart")
		c.Metrics.ObserveCache("error")
	case errors.Is(err, redis.Nil):
		c.Metrics.ObserveCache("miss")
	default:
		log.WithError(err).Warn("chart cache read failed")
		c.Metrics.ObserveCache("error")
	}

	chart, err := c.Source.FetchChart(ctx, symbol, interval, rng)
	if err != nil {
		return nil, err
	}

	if data, encErr := encodeChart(chart); encErr != nil {
		log.WithError(encErr).Warn("encode chart for cache")
	} else if setErr := c.Client.Set(ctx, key, data, c.TTL).Err(); setErr != nil {
		log.WithError(setErr).Warn("chart cache write failed")
	}
	return chart, nil
}

func chartCacheKey(symbol, interval, rng string) string {
	return fmt.Sprintf("chart:%s:%s:%s", symbol, interval, rng)
}

// cachedChart is the stored form of a chart; candle times are kept as unix seconds.
type cachedChart struct {
	Symbol  string          `json:"symbol"`
	Meta    model.ChartMeta `json:"meta"`
	Candles []cachedCandle  `json:"candles"`
}

type cachedCandle struct {
	T int64   `json:"t"`
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

func encodeChart(chart *model.Chart) ([]byte, error) {
	cc := cachedChart{Symbol: chart.Symbol, Meta: chart.Meta, Candles: make([]cachedCandle, len(chart.Series.Candles))}
	for i, c := range chart.Series.Candles {
		cc.Candles[i] = cachedCandle{T: c.Time.Unix(), O: c.Open, H: c.High, L: c.Low, C: c.Close, V: c.Volume}
	}
	return json.Marshal(cc)
}

func decodeChart(data []byte) (*model.Chart, error) {
	var cc cachedChart
	if err := json.Unmarshal(data, &cc); err != nil {
		return nil, err
	}
	candles := make([]model.Candle, len(cc.Candles))
	for i, c := range cc.Candles {
		candles[i] = model.Candle{Time: time.Unix(c.T, 0).UTC(), Open: c.O, High: c.H, Low: c.L, Close: c.C, Volume: c.V}
	}
	return &model.Chart{
		Symbol: cc.Symbol,
		Meta:   cc.Meta,
		Series: model.PriceSeries{Symbol: cc.Symbol, Candles: candles},
	}, nil
}
