package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketlens/internal/logger"
	"marketlens/internal/model"
)

const restQuoteFixture = `{"price":101,"previous_close":100,"currency":"","exchange":"LOCAL","name":"Test","time":1704326400}`

func TestRESTSource_BarsAndQuote(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/api/v1/bars":
			w.Write([]byte(`[
				{"timestamp":1704153600,"open":1,"high":2,"low":0.5,"close":1.5,"volume":10},
				{"timestamp":1704240000,"open":null,"high":2,"low":0.5,"close":1.5,"volume":10},
				{"timestamp":1704326400,"open":1.5,"high":3,"low":1,"close":2.5,"volume":null},
				{"timestamp":1704412800,"open":2,"high":1,"low":3,"close":2.5,"volume":10}]`))
		case "/api/v1/quote":
			w.Write([]byte(restQuoteFixture))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s := NewRESTSource(srv.URL, "secret", "", logger.Discard())
	chart, err := s.FetchChart(context.Background(), "TEST", "1d", "1mo")
	if err != nil {
		t.Fatalf("FetchChart: %v", err)
	}
	if auth != "Bearer secret" {
		t.Errorf("authorization = %q", auth)
	}
	if chart.Series.Len() != 1 || chart.Series.Candles[0].Close != 1.5 {
		t.Fatalf("expected only the complete, in-bounds bar, got %+v", chart.Series.Candles)
	}
	if chart.Meta.Currency != "USD" || chart.Meta.PreviousClose != 100 {
		t.Errorf("meta = %+v", chart.Meta)
	}
}

func TestRESTSource_WeeklyFallback(t *testing.T) {
	var weeklyCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/bars" && r.URL.Query().Get("interval") == "1w":
			weeklyCalls++
			http.Error(w, "weekly not supported", http.StatusBadRequest)
		case r.URL.Path == "/api/v1/bars":
			// Mon 2024-01-01 .. Wed 2024-01-03, then Mon 2024-01-08.
			w.Write([]byte(`[
				{"timestamp":1704067200,"open":10,"high":12,"low":9,"close":11,"volume":100},
				{"timestamp":1704153600,"open":11,"high":14,"low":10,"close":13,"volume":200},
				{"timestamp":1704240000,"open":13,"high":13,"low":8,"close":9,"volume":300},
				{"timestamp":1704672000,"open":9,"high":10,"low":7,"close":8,"volume":50}]`))
		case r.URL.Path == "/api/v1/quote":
			w.Write([]byte(restQuoteFixture))
		}
	}))
	defer srv.Close()

	chart, err := NewRESTSource(srv.URL, "", "", logger.Discard()).FetchChart(context.Background(), "TEST", "1w", "3mo")
	if err != nil {
		t.Fatalf("FetchChart: %v", err)
	}
	if weeklyCalls != 1 {
		t.Errorf("weekly endpoint called %d times", weeklyCalls)
	}
	if chart.Series.Len() != 2 {
		t.Fatalf("expected 2 weekly candles, got %d", chart.Series.Len())
	}
	w := chart.Series.Candles[0]
	if w.Open != 10 || w.High != 14 || w.Low != 8 || w.Close != 9 || w.Volume != 600 {
		t.Errorf("first week = %+v", w)
	}
}

func TestRESTSource_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewRESTSource(srv.URL, "", "", logger.Discard()).FetchChart(context.Background(), "NOPE", "1w", "1mo")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAggregateDailyToWeekly_Empty(t *testing.T) {
	if got := aggregateDailyToWeekly(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	one := []model.Candle{{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Open: 1, High: 1, Low: 1, Close: 1}}
	if got := aggregateDailyToWeekly(one); len(got) != 1 {
		t.Errorf("expected 1 week, got %d", len(got))
	}
}
