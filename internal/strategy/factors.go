package strategy

import "marketlens/internal/model"

// A factor inspects the indicators and the current price. It returns false when its
// inputs are missing or no band of the factor applies, in which case it contributes
// neither score nor rationale.
type factor func(ind *model.IndicatorSet, price float64) (model.FactorScore, bool)

// factors are evaluated in this order; rationale order follows it.
var factors = []factor{
	scoreRSI,
	scoreMACD,
	scoreBollinger,
	scoreMATrend,
	scorePriceVsSMA20,
}

// scoreRSI: <30 oversold, >70 overbought, 40..60 neutral. 30..40 and 60..70 are silent.
func scoreRSI(ind *model.IndicatorSet, _ float64) (model.FactorScore, bool) {
	if ind.RSI == nil {
		return model.FactorScore{}, false
	}
	rsi := *ind.RSI
	switch {
	case rsi < 30:
		return model.FactorScore{Name: "RSI", Delta: 20, Rationale: "RSI indicates oversold (possible buy)"}, true
	case rsi > 70:
		return model.FactorScore{Name: "RSI", Delta: -20, Rationale: "RSI indicates overbought (possible sell)"}, true
	case rsi >= 40 && rsi <= 60:
		return model.FactorScore{Name: "RSI", Delta: 5, Rationale: "RSI in neutral zone"}, true
	}
	return model.FactorScore{}, false
}

func scoreMACD(ind *model.IndicatorSet, _ float64) (model.FactorScore, bool) {
	if ind.MACD.MACD == nil || ind.MACD.Signal == nil {
		return model.FactorScore{}, false
	}
	if *ind.MACD.MACD > *ind.MACD.Signal {
		return model.FactorScore{Name: "MACD", Delta: 15, Rationale: "MACD above signal line (bullish)"}, true
	}
	return model.FactorScore{Name: "MACD", Delta: -15, Rationale: "MACD below signal line (bearish)"}, true
}

func scoreBollinger(ind *model.IndicatorSet, price float64) (model.FactorScore, bool) {
	if ind.Bollinger.Upper == nil || ind.Bollinger.Lower == nil {
		return model.FactorScore{}, false
	}
	switch {
	case price > *ind.Bollinger.Upper:
		return model.FactorScore{Name: "Bollinger", Delta: -10, Rationale: "Price above upper Bollinger band (overbought)"}, true
	case price < *ind.Bollinger.Lower:
		return model.FactorScore{Name: "Bollinger", Delta: 10, Rationale: "Price below lower Bollinger band (oversold)"}, true
	}
	return model.FactorScore{Name: "Bollinger", Delta: 0, Rationale: "Price within Bollinger bands"}, true
}

func scoreMATrend(ind *model.IndicatorSet, _ float64) (model.FactorScore, bool) {
	if ind.SMA20 == nil || ind.SMA50 == nil {
		return model.FactorScore{}, false
	}
	if *ind.SMA20 > *ind.SMA50 {
		return model.FactorScore{Name: "MA trend", Delta: 10, Rationale: "SMA 20 above SMA 50 (uptrend)"}, true
	}
	return model.FactorScore{Name: "MA trend", Delta: -10, Rationale: "SMA 20 below SMA 50 (downtrend)"}, true
}

func scorePriceVsSMA20(ind *model.IndicatorSet, price float64) (model.FactorScore, bool) {
	if ind.SMA20 == nil {
		return model.FactorScore{}, false
	}
	if price > *ind.SMA20 {
		return model.FactorScore{Name: "Price/SMA20", Delta: 5, Rationale: "Price above SMA 20"}, true
	}
	return model.FactorScore{Name: "Price/SMA20", Delta: -5, Rationale: "Price below SMA 20"}, true
}
