package collector

import (
	"context"
	"fmt"

	"marketlens/internal/model"
)

// Source is the market data capability the analysis pipeline depends on.
// FetchChart returns model.ErrNotFound when the source has no data for the request
// and a *model.UpstreamError for transport or decoding failures.
type Source interface {
	FetchChart(ctx context.Context, symbol, interval, rng string) (*model.Chart, error)
	Name() string
}

// Intervals and Ranges are the accepted request tokens.
var (
	Intervals = []string{"1m", "5m", "15m", "30m", "1h", "4h", "1d", "1w"}
	Ranges    = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y"}
)

// ValidateInterval rejects interval tokens outside Intervals.
func ValidateInterval(interval string) error {
	if !contains(Intervals, interval) {
		return fmt.Errorf("%q: %w", interval, model.ErrInvalidInterval)
	}
	return nil
}

// ValidateRange rejects range tokens outside Ranges.
func ValidateRange(rng string) error {
	if !contains(Ranges, rng) {
		return fmt.Errorf("%q: %w", rng, model.ErrInvalidRange)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
