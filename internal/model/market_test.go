package model

import "testing"

func f(v float64) *float64 { return &v }

func TestBuildSeries_DropsIncompleteAndSorts(t *testing.T) {
	raw := []RawBar{
		{Timestamp: 300, Open: f(3), High: f(3), Low: f(3), Close: f(3), Volume: f(30)},
		{Timestamp: 100, Open: f(1), High: f(1), Low: f(1), Close: f(1), Volume: f(10)},
		{Timestamp: 200, Open: nil, High: f(2), Low: f(2), Close: f(2), Volume: f(20)},
		{Timestamp: 250, Open: f(2), High: f(2), Low: f(2), Close: f(2), Volume: nil},
		{Timestamp: 300, Open: f(4), High: f(4), Low: f(4), Close: f(4), Volume: f(40)},
	}
	s, invalid := BuildSeries("X", raw)

	if invalid != 0 {
		t.Errorf("missing fields are not invalid bars, got %d", invalid)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 candles, got %d", s.Len())
	}
	closes, volumes := s.Closes(), s.Volumes()
	if closes[0] != 1 || closes[1] != 4 {
		t.Errorf("closes = %v, want [1 4]", closes)
	}
	if volumes[0] != 10 || volumes[1] != 40 {
		t.Errorf("volumes = %v, want [10 40]", volumes)
	}
	last, ok := s.Last()
	if !ok || last.Time.Unix() != 300 {
		t.Errorf("Last() = %v, %v", last, ok)
	}
}

func TestBuildSeries_RejectsOutOfBoundsBars(t *testing.T) {
	raw := []RawBar{
		{Timestamp: 100, Open: f(10), High: f(12), Low: f(9), Close: f(11), Volume: f(100)},
		{Timestamp: 200, Open: f(10), High: f(9), Low: f(12), Close: f(11), Volume: f(100)},
		{Timestamp: 300, Open: f(10), High: f(12), Low: f(9), Close: f(11), Volume: f(-5)},
	}
	s, invalid := BuildSeries("X", raw)

	if invalid != 2 {
		t.Errorf("invalid = %d, want 2", invalid)
	}
	if s.Len() != 1 || s.Candles[0].Time.Unix() != 100 {
		t.Fatalf("expected only the first bar, got %+v", s.Candles)
	}
	for _, c := range s.Candles {
		if !c.Valid() {
			t.Errorf("series holds an invalid candle: %+v", c)
		}
	}
}

func TestBuildSeries_Empty(t *testing.T) {
	s, _ := BuildSeries("X", nil)
	if s.Len() != 0 {
		t.Fatalf("expected empty series")
	}
	if _, ok := s.Last(); ok {
		t.Error("Last() on empty series should report false")
	}
}

func TestCandleValid(t *testing.T) {
	tests := []struct {
		name string
		c    Candle
		want bool
	}{
		{"ok", Candle{Open: 10, High: 12, Low: 9, Close: 11, Volume: 5}, true},
		{"high below close", Candle{Open: 10, High: 10.5, Low: 9, Close: 11}, false},
		{"low above open", Candle{Open: 10, High: 12, Low: 10.5, Close: 11}, false},
		{"negative volume", Candle{Open: 10, High: 12, Low: 9, Close: 11, Volume: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
