// Package catalog is the directory of symbols the API advertises and searches.
package catalog

import (
	"context"

	"marketlens/internal/model"
)

// SearchLimit caps the number of search results.
const SearchLimit = 10

// Grouped is the featured symbol list keyed by asset class.
type Grouped struct {
	Forex   []model.SymbolInfo `json:"forex"`
	Stocks  []model.SymbolInfo `json:"stocks"`
	Crypto  []model.SymbolInfo `json:"crypto"`
	Indices []model.SymbolInfo `json:"indices"`
}

// newGrouped starts every class as an empty list so it encodes as [] rather than null.
func newGrouped() Grouped {
	return Grouped{
		Forex:   []model.SymbolInfo{},
		Stocks:  []model.SymbolInfo{},
		Crypto:  []model.SymbolInfo{},
		Indices: []model.SymbolInfo{},
	}
}

func (g *Grouped) add(s model.SymbolInfo) {
	switch s.Type {
	case model.SymbolForex:
		g.Forex = append(g.Forex, s)
	case model.SymbolStock:
		g.Stocks = append(g.Stocks, s)
	case model.SymbolCrypto:
		g.Crypto = append(g.Crypto, s)
	case model.SymbolIndex:
		g.Indices = append(g.Indices, s)
	}
}

// Catalog lists and searches known symbols.
type Catalog interface {
	// Grouped returns the featured symbols by asset class.
	Grouped(ctx context.Context) (Grouped, error)
	// Search matches q case-insensitively against symbol and name, in catalog order,
	// returning at most SearchLimit entries. An empty q matches nothing.
	Search(ctx context.Context, q string) ([]model.SymbolInfo, error)
	Close() error
}

// entry is one seeded catalog row. Featured rows appear in Grouped; all rows are searchable.
type entry struct {
	model.SymbolInfo
	Featured bool
}
