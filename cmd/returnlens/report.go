package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"ReturnLens/internal/model"
)

// writeReport prints one block per comparison with both strategy summaries.
func writeReport(out io.Writer, cmps []*model.Comparison, currency string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, cmp := range cmps {
		if cmp == nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s → %s\thorizon %dm, every %dm (%d installments)\n",
			cmp.Symbol, cmp.Start.Format(time.DateOnly), cmp.End.Format(time.DateOnly),
			cmp.HorizonMonths, cmp.FrequencyMonths, cmp.Installments)
		fmt.Fprintln(tw, "STRATEGY\tDATES\tMEAN\tMEDIAN\tQ1\tQ3\tMIN\tMAX\tPOSITIVE\tEXPECTED")
		for _, s := range []model.Summary{cmp.LumpSumSummary, cmp.DACSummary} {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s %s (%s)\n",
				s.Strategy, s.Count,
				pct(s.Mean), pct(s.Median), pct(s.Q1), pct(s.Q3), pct(s.Min), pct(s.Max),
				fmt.Sprintf("%.1f%%", s.PositiveShare*100),
				s.Projection.Final.StringFixed(2), currency, s.Projection.Delta.StringFixed(2))
		}
		fmt.Fprintf(tw, "lump sum wins\t%.1f%%\tvolatility\t%.1f%%\n", cmp.LumpSumWinShare*100, cmp.Volatility*100)
		if cmp.LumpSumSummary.Failed > 0 {
			fmt.Fprintf(tw, "skipped\t%d dates without forward history\n", cmp.LumpSumSummary.Failed)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func pct(v float64) string { return fmt.Sprintf("%+.1f%%", v*100) }
