// Package finance holds the fixed-rate amortization math used for loan
// schedules and investor returns. Rates are annual percentages; every
// formula works on the monthly rate r = rate/100/12.
package finance

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ArithmeticError reports inputs the amortization formulas cannot be applied to.
type ArithmeticError struct {
	Op     string
	Reason string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("finance: %s: %s", e.Op, e.Reason)
}

// Payment is one row of an amortization schedule.
type Payment struct {
	Sequence  int       `json:"sequence"`
	Amount    float64   `json:"amount"`
	Principal float64   `json:"principal"`
	Interest  float64   `json:"interest"`
	Balance   float64   `json:"balance"`
	DueDate   time.Time `json:"due_date"`
}

func monthlyRate(ratePercent float64) float64 { return ratePercent / 100 / 12 }

func checkInputs(op string, amount, ratePercent float64, term int) error {
	switch {
	case term <= 0:
		return &ArithmeticError{Op: op, Reason: "term must be at least one month"}
	case amount <= 0:
		return &ArithmeticError{Op: op, Reason: "amount must be positive"}
	case ratePercent < 0 || math.IsNaN(ratePercent) || math.IsInf(ratePercent, 0):
		return &ArithmeticError{Op: op, Reason: "rate must be a non-negative number"}
	}
	return nil
}

// MonthlyPayment returns the constant installment P·r·(1+r)^n / ((1+r)^n − 1),
// rounded up to the cent so that n payments always cover the principal.
// A zero rate degenerates to P/n.
func MonthlyPayment(principal, ratePercent float64, term int) (float64, error) {
	p, err := monthlyPayment(principal, ratePercent, term)
	if err != nil {
		return 0, err
	}
	return p.InexactFloat64(), nil
}

func monthlyPayment(principal, ratePercent float64, term int) (decimal.Decimal, error) {
	if err := checkInputs("monthly payment", principal, ratePercent, term); err != nil {
		return decimal.Zero, err
	}
	r := monthlyRate(ratePercent)
	if r == 0 {
		return decimal.NewFromFloat(principal).
			Div(decimal.NewFromInt(int64(term))).
			RoundCeil(2), nil
	}
	f := math.Pow(1+r, float64(term))
	raw := principal * r * f / (f - 1)
	if math.IsInf(raw, 0) || math.IsNaN(raw) {
		return decimal.Zero, &ArithmeticError{Op: "monthly payment", Reason: "result overflows"}
	}
	return decimal.NewFromFloat(raw).RoundCeil(2), nil
}

// ExpectedReturn is the compound gain amount·(1+r)^n − amount, rounded to the cent.
func ExpectedReturn(amount, ratePercent float64, term int) (float64, error) {
	if err := checkInputs("expected return", amount, ratePercent, term); err != nil {
		return 0, err
	}
	f := math.Pow(1+monthlyRate(ratePercent), float64(term))
	gain := amount*f - amount
	return decimal.NewFromFloat(gain).Round(2).InexactFloat64(), nil
}

// Schedule builds the full amortization table. Due dates start one calendar
// month after start and stay one calendar month apart.
func Schedule(principal, ratePercent float64, term int, start time.Time) ([]Payment, error) {
	pmt, err := monthlyPayment(principal, ratePercent, term)
	if err != nil {
		return nil, err
	}
	r := decimal.NewFromFloat(monthlyRate(ratePercent))
	balance := decimal.NewFromFloat(principal)
	out := make([]Payment, 0, term)
	for seq := 1; seq <= term; seq++ {
		interest := balance.Mul(r).Round(2)
		principalPart := pmt.Sub(interest)
		if seq == term || principalPart.GreaterThan(balance) {
			// last row absorbs rounding so the balance closes at zero
			principalPart = balance
			interest = pmt.Sub(balance)
			if interest.IsNegative() {
				interest = decimal.Zero
			}
		}
		balance = balance.Sub(principalPart)
		out = append(out, Payment{
			Sequence:  seq,
			Amount:    pmt.InexactFloat64(),
			Principal: principalPart.InexactFloat64(),
			Interest:  interest.InexactFloat64(),
			Balance:   balance.InexactFloat64(),
			DueDate:   AddMonths(start, seq),
		})
	}
	return out, nil
}

// AddMonths moves t forward n calendar months, clamping the day to the end of
// the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// Share splits amount proportionally to part/whole, rounded down to the cent.
func Share(amount, part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(part)).
		Div(decimal.NewFromFloat(whole)).
		RoundFloor(2).
		InexactFloat64()
}

// Sum adds amounts without accumulating binary floating point drift.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.InexactFloat64()
}

// Sub returns a − b computed in decimal.
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
}
