package notifier

import (
	"fmt"
	"html"
	"strings"

	"WTISentinel/internal/model"
)

func statusMark(s model.FactorStatus) string {
	switch s {
	case model.StatusPass:
		return "✅"
	case model.StatusFail:
		return "❌"
	default:
		return "⚪"
	}
}

func tierEmoji(t model.BiasTier) string {
	switch t {
	case model.TierHigh:
		return "🟢"
	case model.TierModerate:
		return "🟡"
	default:
		return "🔴"
	}
}

// FormatBiasReport formats a checklist evaluation into a Telegram message.
// technical is the TradingView rating and may be empty.
func FormatBiasReport(snap *model.MarketSnapshot, signal *model.BiasSignal, technical string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🛢 <b>%s Bullish Bias</b> | %s UTC\n\n",
		html.EscapeString(snap.Symbol), signal.EvaluatedAt.UTC().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Price: %.2f (%s)\n", snap.Indicators.CurrentPrice, html.EscapeString(snap.Source)))
	if technical != "" {
		b.WriteString(fmt.Sprintf("TradingView: %s\n", html.EscapeString(technical)))
	}
	b.WriteString("\n📋 <b>Checklist:</b>\n")
	for _, f := range signal.Factors {
		manual := ""
		if f.Manual {
			manual = " ✋"
		}
		b.WriteString(fmt.Sprintf("  %s %s%s", statusMark(f.Status), f.Name, manual))
		if f.Commentary != "" {
			b.WriteString(fmt.Sprintf(" (%s)", html.EscapeString(f.Commentary)))
		}
		b.WriteString("\n")
	}
	b.WriteString("  ─────────────────\n")
	b.WriteString(fmt.Sprintf("  Score: %d/%d", signal.Score, signal.MaxScore))
	if signal.Unavailable > 0 {
		b.WriteString(fmt.Sprintf(" (%d unavailable)", signal.Unavailable))
	}
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s <b>Bias: %s</b>\n", tierEmoji(signal.Tier), signal.Tier))

	if w := snap.Indicators.Wave; w.Available() {
		b.WriteString("\n" + FormatWave(w, model.Interval2h))
	}
	return b.String()
}

// FormatWave formats an impulse-leg classification.
func FormatWave(w model.WaveClassification, interval model.Interval) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🌊 <b>Elliott stage (%s):</b> %s\n", interval, w.Tag.Label()))
	if !w.Available() {
		b.WriteString("Not enough candles to find an impulse leg.\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Leg: %.2f → %.2f\n", w.LegLow, w.LegHigh))
	b.WriteString(fmt.Sprintf("Retracement band: %.2f → %.2f\n", w.Level618, w.Level382))
	b.WriteString(fmt.Sprintf("Current: %.2f\n", w.CurrentPrice))
	return b.String()
}

// FormatSignal formats the TradingView technicals rating.
func FormatSignal(symbol, technical string) string {
	return fmt.Sprintf("📡 <b>TradingView %s</b>: %s", html.EscapeString(symbol), html.EscapeString(technical))
}

// FormatChecklist lists the manual overrides currently in force.
func FormatChecklist(overrides map[model.FactorID]bool) string {
	if len(overrides) == 0 {
		return "✋ No manual overrides, all factors are automatic."
	}
	var b strings.Builder
	b.WriteString("✋ <b>Manual overrides:</b>\n")
	for _, id := range model.AllFactors {
		v, ok := overrides[id]
		if !ok {
			continue
		}
		mark := "❌ off"
		if v {
			mark = "✅ on"
		}
		b.WriteString(fmt.Sprintf("  %s: %s\n", id, mark))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	ids := make([]string, len(model.AllFactors))
	for i, id := range model.AllFactors {
		ids[i] = string(id)
	}
	return "Available commands:\n" +
		"• /bias: evaluate the checklist now\n" +
		"• /wave: 2h impulse leg and retracement band\n" +
		"• /signal: TradingView technicals rating\n" +
		"• /set &lt;factor&gt; on|off: manual override\n" +
		"• /clear &lt;factor&gt;: back to automatic\n" +
		"• /reset: clear all overrides\n" +
		"Factors: " + strings.Join(ids, ", ")
}
