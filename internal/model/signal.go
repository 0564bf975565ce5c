package model

// Recommendation is the discrete outcome of the signal aggregator.
type Recommendation string

const (
	StrongBuy  Recommendation = "STRONG_BUY"
	Buy        Recommendation = "BUY"
	Hold       Recommendation = "HOLD"
	Sell       Recommendation = "SELL"
	StrongSell Recommendation = "STRONG_SELL"
)

// Strength qualifies a recommendation.
type Strength string

const (
	StrengthStrong   Strength = "FORTE"
	StrengthModerate Strength = "MODERADO"
	StrengthNeutral  Strength = "NEUTRO"
)

// FactorScore represents a single factor's scoring result.
type FactorScore struct {
	Name      string
	Delta     int
	Rationale string
}

// TradingSignal is the final output of the strategy engine.
type TradingSignal struct {
	Recommendation Recommendation `json:"recommendation"`
	Strength       Strength       `json:"strength"`
	Confidence     float64        `json:"confidence"`
	Score          int            `json:"score"`
	Signals        []string       `json:"signals"`
	Factors        []FactorScore  `json:"-"`
}

// CoarseSignal is the RSI-only signal used in the market overview.
type CoarseSignal string

const (
	CoarseBuy  CoarseSignal = "BUY"
	CoarseSell CoarseSignal = "SELL"
	CoarseHold CoarseSignal = "HOLD"
)

// Trend is the short-term direction used in the market overview.
type Trend string

const (
	TrendUp      Trend = "UP"
	TrendDown    Trend = "DOWN"
	TrendNeutral Trend = "NEUTRAL"
)
