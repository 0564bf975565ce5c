package collector

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"marketlens/internal/logger"
	"marketlens/internal/metrics"
)

func TestChartCacheKey(t *testing.T) {
	if got := chartCacheKey("AAPL", "1d", "6mo"); got != "chart:AAPL:1d:6mo" {
		t.Errorf("key = %s", got)
	}
}

func TestEncodeDecodeChart_KeepsTimes(t *testing.T) {
	in := chartFromCloses("AAPL", 1, 2, 3)
	in.Meta.PreviousClose = 0.5
	data, err := encodeChart(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := decodeChart(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Series.Len() != 3 || out.Meta != in.Meta {
		t.Fatalf("decoded = %+v", out)
	}
	for i := range in.Series.Candles {
		if !out.Series.Candles[i].Time.Equal(in.Series.Candles[i].Time) {
			t.Errorf("candle %d time = %v, want %v", i, out.Series.Candles[i].Time, in.Series.Candles[i].Time)
		}
	}
}

func TestCachedSource_FallsBackWhenRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	src := &MockSource{Bars: 30}
	cached := NewCachedSource(src, client, time.Minute, logger.Discard(), metrics.NewMetrics())

	chart, err := cached.FetchChart(context.Background(), "AAPL", "1d", "1mo")
	if err != nil {
		t.Fatalf("FetchChart: %v", err)
	}
	if chart.Series.Len() != 30 {
		t.Errorf("len = %d", chart.Series.Len())
	}
	if src.Calls("AAPL") != 1 {
		t.Errorf("source calls = %d", src.Calls("AAPL"))
	}
	if cached.Name() != "mock" {
		t.Errorf("name = %s", cached.Name())
	}
}
