package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"marketlens/internal/model"
)

// FormatOverview renders the market overview table.
func FormatOverview(entries []model.OverviewEntry, at time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Market overview</b> | %s\n\n", at.Format("2006-01-02 15:04")))
	if len(entries) == 0 {
		b.WriteString("No data available.\n")
		return b.String()
	}
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %s %s | %+.2f%% | RSI %s | %s\n",
			trendIcon(e.Trend), html.EscapeString(e.Symbol), formatPrice(e.Price), e.Currency,
			e.ChangePercent, formatOptional(e.RSI, 1), e.Signal))
	}
	return b.String()
}

// FormatSignal renders the full indicator analysis for one symbol.
func FormatSignal(symbol string, price float64, ind model.IndicatorSet, sig model.TradingSignal) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s</b> @ %s\n\n", html.EscapeString(symbol), formatPrice(price)))

	b.WriteString(fmt.Sprintf("RSI(14): %s\n", formatOptional(ind.RSI, 2)))
	b.WriteString(fmt.Sprintf("MACD: %s / signal %s\n", formatOptional(ind.MACD.MACD, 4), formatOptional(ind.MACD.Signal, 4)))
	b.WriteString(fmt.Sprintf("Bollinger: %s / %s / %s\n",
		formatOptional(ind.Bollinger.Lower, 2), formatOptional(ind.Bollinger.Middle, 2), formatOptional(ind.Bollinger.Upper, 2)))
	b.WriteString(fmt.Sprintf("SMA20: %s | SMA50: %s | SMA200: %s\n",
		formatOptional(ind.SMA20, 2), formatOptional(ind.SMA50, 2), formatOptional(ind.SMA200, 2)))
	b.WriteString(fmt.Sprintf("Stochastic %%K: %s\n\n", formatOptional(ind.Stochastic.K, 2)))

	b.WriteString(fmt.Sprintf("💡 <b>%s</b> (%s) score %+d, confidence %.0f%%\n",
		sig.Recommendation, sig.Strength, sig.Score, sig.Confidence*100))
	for _, s := range sig.Signals {
		b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(s)))
	}
	return b.String()
}

// FormatSignalChange renders an alert for a symbol whose overview signal changed.
func FormatSignalChange(prev model.CoarseSignal, e model.OverviewEntry) string {
	return fmt.Sprintf("🔔 <b>%s</b> signal %s → <b>%s</b>\nPrice %s %s (%+.2f%%), RSI %s, trend %s\n",
		html.EscapeString(e.Symbol), prev, e.Signal, formatPrice(e.Price), e.Currency,
		e.ChangePercent, formatOptional(e.RSI, 1), e.Trend)
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Commands:\n/overview - market overview\n/signal SYMBOL - indicators and signal\n/addsymbol SYMBOL NAME TYPE - add a searchable symbol\n/help - this message"
}

func trendIcon(t model.Trend) string {
	switch t {
	case model.TrendUp:
		return "🟢"
	case model.TrendDown:
		return "🔴"
	}
	return "⚪"
}

func formatPrice(p float64) string {
	if p != 0 && p < 10 && p > -10 {
		return fmt.Sprintf("%.4f", p)
	}
	return fmt.Sprintf("%.2f", p)
}

func formatOptional(v *float64, places int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", places, *v)
}
