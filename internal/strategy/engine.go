package strategy

import (
	"math"

	"marketlens/internal/calculator"
	"marketlens/internal/model"
)

// Tier maps a minimum score to a recommendation.
type Tier struct {
	MinScore       int
	Recommendation model.Recommendation
	Strength       model.Strength
}

// Tiers are checked top to bottom; the first tier whose MinScore is met wins.
var Tiers = []Tier{
	{30, model.StrongBuy, model.StrengthStrong},
	{15, model.Buy, model.StrengthModerate},
	{-15, model.Hold, model.StrengthNeutral},
	{-30, model.Sell, model.StrengthModerate},
}

// DefaultTier applies to scores below -30.
var DefaultTier = Tier{Recommendation: model.StrongSell, Strength: model.StrengthStrong}

// confidenceScale is the absolute score that maps to full confidence.
const confidenceScale = 50.0

func mapTier(score int) Tier {
	for _, t := range Tiers {
		if score >= t.MinScore {
			return t
		}
	}
	return DefaultTier
}

// Evaluate scores the indicators against the current price and maps the total to a
// recommendation. It is a pure function of its inputs.
func Evaluate(ind model.IndicatorSet, price float64) model.TradingSignal {
	score := 0
	applied := make([]model.FactorScore, 0, len(factors))
	rationale := make([]string, 0, len(factors))

	for _, f := range factors {
		fs, ok := f(&ind, price)
		if !ok {
			continue
		}
		score += fs.Delta
		applied = append(applied, fs)
		rationale = append(rationale, fs.Rationale)
	}

	tier := mapTier(score)
	confidence := math.Min(math.Abs(float64(score))/confidenceScale, 1.0)

	return model.TradingSignal{
		Recommendation: tier.Recommendation,
		Strength:       tier.Strength,
		Confidence:     calculator.Round(confidence, 2),
		Score:          score,
		Signals:        rationale,
		Factors:        applied,
	}
}

// CoarseSignal derives the RSI-only signal used by the market overview.
// An undefined RSI yields HOLD.
func CoarseSignal(rsi *float64) model.CoarseSignal {
	switch {
	case rsi == nil:
		return model.CoarseHold
	case *rsi < 30:
		return model.CoarseBuy
	case *rsi > 70:
		return model.CoarseSell
	}
	return model.CoarseHold
}
