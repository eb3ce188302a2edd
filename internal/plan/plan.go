package plan

import (
	"errors"
	"fmt"
	"math"
	"time"

	"ReturnLens/internal/calculator"
	"ReturnLens/internal/model"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for a negative amount to invest.
var ErrInvalidAmount = errors.New("amount to invest must not be negative")

// Plan describes one investment: a total amount, how long it is held and, for
// dollar-average-cost, how often an installment is bought.
type Plan struct {
	Amount          decimal.Decimal
	HorizonMonths   int
	FrequencyMonths int
}

// Installment is one scheduled DAC purchase.
type Installment struct {
	Date   time.Time
	Amount decimal.Decimal
}

// New builds and validates a plan.
func New(amount float64, horizonMonths, frequencyMonths int) (*Plan, error) {
	p := &Plan{
		Amount:          decimal.NewFromFloat(amount),
		HorizonMonths:   horizonMonths,
		FrequencyMonths: frequencyMonths,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the amount and the horizon/frequency pair.
func (p *Plan) Validate() error {
	if p.Amount.IsNegative() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, p.Amount)
	}
	if _, err := calculator.InstallmentCount(p.HorizonMonths, p.FrequencyMonths); err != nil {
		return err
	}
	return nil
}

// Installments returns the number of DAC purchases, horizon / frequency.
func (p *Plan) Installments() int {
	n, _ := calculator.InstallmentCount(p.HorizonMonths, p.FrequencyMonths)
	return n
}

// RemainderMonths is the tail of the horizon not covered by any installment
// period when the frequency does not divide the horizon. That money stays
// uninvested; it is reported, not redistributed.
func (p *Plan) RemainderMonths() int {
	if p.FrequencyMonths <= 0 {
		return 0
	}
	return p.HorizonMonths % p.FrequencyMonths
}

// InstallmentAmount is the amount bought at each DAC installment, rounded to cents.
func (p *Plan) InstallmentAmount() decimal.Decimal {
	n := p.Installments()
	if n == 0 {
		return decimal.Zero
	}
	return p.Amount.DivRound(decimal.NewFromInt(int64(n)), 2)
}

// Schedule lists the DAC installments for a position opened on start.
func (p *Plan) Schedule(start time.Time) []Installment {
	n := p.Installments()
	each := p.InstallmentAmount()
	out := make([]Installment, n)
	for k := 0; k < n; k++ {
		out[k] = Installment{Date: calculator.AddMonths(start, k*p.FrequencyMonths), Amount: each}
	}
	return out
}

// Project returns the expected value of Amount compounded at the annualized
// meanROI over the plan horizon.
func (p *Plan) Project(meanROI float64) model.Projection {
	factor := math.Pow(1+meanROI, float64(p.HorizonMonths)/calculator.MonthsPerYear)
	final := p.Amount.Mul(decimal.NewFromFloat(factor)).Round(2)
	return model.Projection{
		Amount: p.Amount,
		Final:  final,
		Delta:  final.Sub(p.Amount),
	}
}

// String renders the plan for logs and reports.
func (p *Plan) String() string {
	return fmt.Sprintf("%s over %dm every %dm", p.Amount.StringFixed(2), p.HorizonMonths, p.FrequencyMonths)
}
