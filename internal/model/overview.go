package model

// OverviewEntry is one row of the market overview table.
type OverviewEntry struct {
	Symbol        string       `json:"symbol"`
	Name          string       `json:"name"`
	Price         float64      `json:"price"`
	Change        float64      `json:"change"`
	ChangePercent float64      `json:"changePercent"`
	RSI           *float64     `json:"rsi"`
	Signal        CoarseSignal `json:"signal"`
	Trend         Trend        `json:"trend"`
	Currency      string       `json:"currency"`
}

// WatchlistEntry is one row of the default watchlist.
type WatchlistEntry struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Currency      string  `json:"currency"`
}

// SymbolType is the asset class of a catalog entry.
type SymbolType string

const (
	SymbolForex  SymbolType = "forex"
	SymbolStock  SymbolType = "stock"
	SymbolCrypto SymbolType = "crypto"
	SymbolIndex  SymbolType = "index"
)

// SymbolInfo is one entry of the symbol directory.
type SymbolInfo struct {
	Symbol string     `json:"symbol"`
	Name   string     `json:"name"`
	Type   SymbolType `json:"type"`
}
