package pattern

import (
	"errors"
	"testing"

	"marketlens/internal/model"
)

func candle(o, h, l, c float64) model.Candle {
	return model.Candle{Open: o, High: h, Low: l, Close: c, Volume: 1000}
}

// neutral is a plain candle that matches no rule against itself or its neighbours.
func neutral() model.Candle { return candle(100, 106, 99, 105) }

func TestDetect_InsufficientData(t *testing.T) {
	_, err := DetectCandles([]model.Candle{neutral(), neutral()})
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestDetect_NoPatterns(t *testing.T) {
	got, err := DetectCandles([]model.Candle{neutral(), neutral(), neutral(), neutral()})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no patterns, got %+v", got)
	}
}

func TestDoji_ThresholdIsExclusive(t *testing.T) {
	tests := []struct {
		name  string
		c     model.Candle
		match bool
	}{
		// range 2, body 0.2 == 10% of range: not a doji
		{"at threshold", candle(100, 101, 99, 100.2), false},
		{"below threshold", candle(100, 101, 99, 100.19), true},
		{"above threshold", candle(100, 101, 99, 100.3), false},
		{"zero range", candle(100, 100, 100, 100), false},
	}
	for _, tt := range tests {
		if got := isDoji(tt.c, neutral()); got != tt.match {
			t.Errorf("%s: expected doji=%v, got %v", tt.name, tt.match, got)
		}
	}
}

func TestHammer(t *testing.T) {
	// body 1, upper wick 0.2, lower wick 3
	h := candle(100, 101.2, 97, 101)
	if !isHammer(h, neutral()) {
		t.Error("expected hammer")
	}
	if isHammer(candle(101, 101.2, 97, 100), neutral()) {
		t.Error("red candle must not be a hammer")
	}
}

func TestShootingStar(t *testing.T) {
	// body 1, lower wick 0.2, upper wick 3
	s := candle(101, 104, 99.8, 100)
	if !isShootingStar(s, neutral()) {
		t.Error("expected shooting star")
	}
	if isShootingStar(candle(100, 104, 99.8, 101), neutral()) {
		t.Error("green candle must not be a shooting star")
	}
}

func TestBullishEngulfing(t *testing.T) {
	prev := candle(105, 106, 99, 100)
	cur := candle(99, 107, 98, 106)
	if !isBullishEngulfing(cur, prev) {
		t.Error("expected bullish engulfing")
	}
	if isBullishEngulfing(cur, candle(100, 106, 99, 105)) {
		t.Error("green previous candle must not engulf")
	}
}

func TestDetect_OrderAndIndices(t *testing.T) {
	candles := []model.Candle{
		neutral(),
		neutral(),
		neutral(),
		candle(100, 101, 99, 100.05), // doji at index 3
		candle(105, 106, 99, 100),    // red setup candle at index 4
		candle(99.9, 107, 98, 106),   // engulfing at index 5
	}
	got, err := DetectCandles(candles)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 patterns, got %d: %+v", len(got), got)
	}
	if got[0].Name != "Doji" || got[0].CandleIndex != 3 || got[0].Type != model.PatternIndecision {
		t.Errorf("unexpected first pattern: %+v", got[0])
	}
	if got[1].Name != "Bullish Engulfing" || got[1].CandleIndex != 5 || got[1].Type != model.PatternBullish {
		t.Errorf("unexpected second pattern: %+v", got[1])
	}
}

func TestDetect_MultiplePatternsOnOneCandle(t *testing.T) {
	// a tiny green body with long lower wick: doji and hammer at once
	c := candle(100, 100.01, 98, 100.01)
	got, err := DetectCandles([]model.Candle{neutral(), neutral(), c})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "Doji" || got[1].Name != "Hammer" {
		t.Fatalf("expected Doji then Hammer, got %+v", got)
	}
	if got[0].CandleIndex != 2 || got[1].CandleIndex != 2 {
		t.Errorf("expected both on index 2, got %d and %d", got[0].CandleIndex, got[1].CandleIndex)
	}
}
