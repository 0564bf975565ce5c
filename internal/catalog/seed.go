package catalog

import "marketlens/internal/model"

func sym(symbol, name string, typ model.SymbolType, featured bool) entry {
	return entry{SymbolInfo: model.SymbolInfo{Symbol: symbol, Name: name, Type: typ}, Featured: featured}
}

// seed is the built-in symbol directory, in display order.
var seed = []entry{
	sym("EURUSD=X", "EUR/USD", model.SymbolForex, true),
	sym("GBPUSD=X", "GBP/USD", model.SymbolForex, true),
	sym("USDJPY=X", "USD/JPY", model.SymbolForex, true),
	sym("AUDUSD=X", "AUD/USD", model.SymbolForex, true),
	sym("USDCAD=X", "USD/CAD", model.SymbolForex, true),
	sym("USDCHF=X", "USD/CHF", model.SymbolForex, false),
	sym("NZDUSD=X", "NZD/USD", model.SymbolForex, false),
	sym("EURGBP=X", "EUR/GBP", model.SymbolForex, false),

	sym("AAPL", "Apple Inc.", model.SymbolStock, true),
	sym("GOOGL", "Alphabet Inc.", model.SymbolStock, true),
	sym("MSFT", "Microsoft Corp.", model.SymbolStock, true),
	sym("TSLA", "Tesla Inc.", model.SymbolStock, true),
	sym("AMZN", "Amazon.com Inc.", model.SymbolStock, true),
	sym("META", "Meta Platforms Inc.", model.SymbolStock, false),
	sym("NVDA", "NVIDIA Corp.", model.SymbolStock, false),
	sym("NFLX", "Netflix Inc.", model.SymbolStock, false),

	sym("BTC-USD", "Bitcoin", model.SymbolCrypto, true),
	sym("ETH-USD", "Ethereum", model.SymbolCrypto, true),
	sym("ADA-USD", "Cardano", model.SymbolCrypto, true),
	sym("DOT-USD", "Polkadot", model.SymbolCrypto, true),
	sym("LINK-USD", "Chainlink", model.SymbolCrypto, true),
	sym("LTC-USD", "Litecoin", model.SymbolCrypto, false),

	sym("^GSPC", "S&P 500", model.SymbolIndex, true),
	sym("^DJI", "Dow Jones", model.SymbolIndex, true),
	sym("^IXIC", "NASDAQ", model.SymbolIndex, true),
	sym("^FTSE", "FTSE 100", model.SymbolIndex, true),
	sym("^N225", "Nikkei 225", model.SymbolIndex, true),
}
