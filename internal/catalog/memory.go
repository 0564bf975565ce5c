package catalog

import (
	"context"
	"strings"

	"marketlens/internal/model"
)

// MemoryCatalog serves the built-in directory without storage. Used when SQLite is not configured.
type MemoryCatalog struct {
	entries []entry
}

func NewMemoryCatalog() *MemoryCatalog { return &MemoryCatalog{entries: seed} }

func (m *MemoryCatalog) Grouped(_ context.Context) (Grouped, error) {
	g := newGrouped()
	for _, e := range m.entries {
		if e.Featured {
			g.add(e.SymbolInfo)
		}
	}
	return g, nil
}

func (m *MemoryCatalog) Search(_ context.Context, q string) ([]model.SymbolInfo, error) {
	results := []model.SymbolInfo{}
	if q == "" {
		return results, nil
	}
	q = strings.ToUpper(q)
	for _, e := range m.entries {
		if strings.Contains(strings.ToUpper(e.Symbol), q) || strings.Contains(strings.ToUpper(e.Name), q) {
			results = append(results, e.SymbolInfo)
			if len(results) == SearchLimit {
				break
			}
		}
	}
	return results, nil
}

func (m *MemoryCatalog) Close() error { return nil }
