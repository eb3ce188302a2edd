package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"ReturnLens/internal/model"
)

const dateLayout = "2006-01-02"

// FormatComparison formats one strategy comparison into a Telegram message.
func FormatComparison(cmp *model.Comparison, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 <b>%s</b> | %s → %s\n", html.EscapeString(cmp.Symbol),
		cmp.Start.Format(dateLayout), cmp.End.Format(dateLayout))
	fmt.Fprintf(&b, "Horizon %dm, buying every %dm (%d installments)\n\n",
		cmp.HorizonMonths, cmp.FrequencyMonths, cmp.Installments)

	if cmp.LumpSumSummary.Count == 0 {
		b.WriteString("No purchase date has enough price history for this horizon.\n")
		return b.String()
	}

	b.WriteString("📈 <b>Annualized ROI</b>\n")
	writeSummary(&b, "Lump sum", cmp.LumpSumSummary)
	writeSummary(&b, "DAC", cmp.DACSummary)

	fmt.Fprintf(&b, "\n🏁 Lump sum beats DAC on %s of %d dates\n",
		percent(cmp.LumpSumWinShare), cmp.LumpSumSummary.Count)

	b.WriteString("\n💰 <b>Expected amounts</b>\n")
	writeProjection(&b, "Lump sum", cmp.LumpSumSummary.Projection, currency)
	writeProjection(&b, "DAC", cmp.DACSummary.Projection, currency)

	if cmp.Volatility > 0 {
		fmt.Fprintf(&b, "\n🌊 Volatility (30d, annualized): %s\n", percent(cmp.Volatility))
	}
	if failed := cmp.LumpSumSummary.Failed; failed > 0 {
		fmt.Fprintf(&b, "\n⚠️ %d dates skipped: not enough forward price history\n", failed)
	}
	return b.String()
}

func writeSummary(b *strings.Builder, label string, s model.Summary) {
	fmt.Fprintf(b, "  %s: mean %s | median %s | range %s … %s | positive %s\n",
		label, signedPercent(s.Mean), signedPercent(s.Median),
		signedPercent(s.Min), signedPercent(s.Max), percent(s.PositiveShare))
}

func writeProjection(b *strings.Builder, label string, p model.Projection, currency string) {
	sign := ""
	if !p.Delta.IsNegative() {
		sign = "+"
	}
	fmt.Fprintf(b, "  %s: %s %s → %s (%s%s)\n",
		label, p.Amount.StringFixed(2), currency, p.Final.StringFixed(2), sign, p.Delta.StringFixed(2))
}

// FormatDigest formats a watchlist comparison digest. Symbols that failed are
// listed at the end with their error.
func FormatDigest(cmps []*model.Comparison, errs map[string]error, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 <b>ReturnLens digest</b> | %s\n\n", now.Format(dateLayout))

	header := false
	for _, cmp := range cmps {
		if cmp == nil {
			continue
		}
		if !header {
			fmt.Fprintf(&b, "Horizon %dm, every %dm\n", cmp.HorizonMonths, cmp.FrequencyMonths)
			header = true
		}
		verdict := "DAC"
		if cmp.LumpSumSummary.Mean > cmp.DACSummary.Mean {
			verdict = "LS"
		}
		fmt.Fprintf(&b, "<b>%s</b> LS %s | DAC %s | LS wins %s → %s\n",
			html.EscapeString(cmp.Symbol),
			signedPercent(cmp.LumpSumSummary.Mean), signedPercent(cmp.DACSummary.Mean),
			percent(cmp.LumpSumWinShare), verdict)
	}
	if !header {
		b.WriteString("No comparisons available.\n")
	}

	if len(errs) > 0 {
		symbols := make([]string, 0, len(errs))
		for s := range errs {
			symbols = append(symbols, s)
		}
		sort.Strings(symbols)
		b.WriteString("\n⚠️ <b>Failed</b>\n")
		for _, s := range symbols {
			fmt.Fprintf(&b, "  %s: %s\n", html.EscapeString(s), html.EscapeString(errs[s].Error()))
		}
	}
	return b.String()
}

// FormatSymbols lists the watchlist.
func FormatSymbols(symbols []string) string {
	if len(symbols) == 0 {
		return "Watchlist is empty."
	}
	return "👀 <b>Watchlist</b>\n" + html.EscapeString(strings.Join(symbols, ", "))
}

func percent(v float64) string { return fmt.Sprintf("%.1f%%", v*100) }

func signedPercent(v float64) string { return fmt.Sprintf("%+.1f%%", v*100) }
