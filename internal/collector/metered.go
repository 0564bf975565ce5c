package collector

import (
	"context"
	"errors"

	"marketlens/internal/metrics"
	"marketlens/internal/model"
)

// MeteredSource counts fetch outcomes per source.
type MeteredSource struct {
	Source  Source
	Metrics *metrics.Metrics
}

func (m *MeteredSource) Name() string { return m.Source.Name() }

func (m *MeteredSource) FetchChart(ctx context.Context, symbol, interval, rng string) (*model.Chart, error) {
	chart, err := m.Source.FetchChart(ctx, symbol, interval, rng)
	switch {
	case err == nil:
		m.Metrics.ObserveFetch(m.Source.Name(), "ok")
	case errors.Is(err, model.ErrNotFound):
		m.Metrics.ObserveFetch(m.Source.Name(), "not_found")
	default:
		m.Metrics.ObserveFetch(m.Source.Name(), "error")
	}
	return chart, err
}
