package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"ReturnLens/internal/plan"
	"ReturnLens/internal/strategy"

	"github.com/spf13/cobra"
)

type compareOptions struct {
	amount    float64
	horizon   int
	frequency int
	from      string
	to        string
}

func newCompareCmd() *cobra.Command {
	var opts compareOptions
	cmd := &cobra.Command{
		Use:   "compare SYMBOL [SYMBOL...]",
		Short: "Compare lump-sum and DAC returns for one or more symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := opts.plan(cmd, a.plan)
			if err != nil {
				return err
			}
			window, err := opts.window()
			if err != nil {
				return err
			}

			symbols := make([]string, len(args))
			for i, s := range args {
				symbols[i] = strings.ToUpper(s)
			}

			ctx := logger.WithContext(cmd.Context())
			cmps, errs := a.analyzer.AnalyzeAll(ctx, symbols, window, p)
			if err := writeReport(os.Stdout, cmps, a.cfg.Investment.Currency); err != nil {
				return err
			}
			for _, s := range symbols {
				if err, ok := errs[s]; ok {
					fmt.Fprintf(os.Stderr, "%s: %v\n", s, err)
				}
			}
			if len(errs) == len(symbols) {
				return fmt.Errorf("no symbol could be compared")
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&opts.amount, "amount", 0, "Amount to invest (default from config)")
	f.IntVar(&opts.horizon, "horizon", 0, "Investment horizon in months (default from config)")
	f.IntVar(&opts.frequency, "frequency", 0, "Months between DAC installments (default from config)")
	f.StringVar(&opts.from, "from", "", "First purchase date, YYYY-MM-DD (default: start of history)")
	f.StringVar(&opts.to, "to", "", "End of the analysis window, YYYY-MM-DD (default: end of history)")
	return cmd
}

// plan overrides the configured plan with the flags the user set.
func (o compareOptions) plan(cmd *cobra.Command, base *plan.Plan) (*plan.Plan, error) {
	amount := base.Amount.InexactFloat64()
	horizon, frequency := base.HorizonMonths, base.FrequencyMonths
	if cmd.Flags().Changed("amount") {
		amount = o.amount
	}
	if cmd.Flags().Changed("horizon") {
		horizon = o.horizon
	}
	if cmd.Flags().Changed("frequency") {
		frequency = o.frequency
	}
	return plan.New(amount, horizon, frequency)
}

func (o compareOptions) window() (strategy.Window, error) {
	var w strategy.Window
	var err error
	if o.from != "" {
		if w.Start, err = time.Parse(time.DateOnly, o.from); err != nil {
			return w, fmt.Errorf("invalid --from date %q: expected YYYY-MM-DD", o.from)
		}
	}
	if o.to != "" {
		if w.End, err = time.Parse(time.DateOnly, o.to); err != nil {
			return w, fmt.Errorf("invalid --to date %q: expected YYYY-MM-DD", o.to)
		}
	}
	return w, nil
}
