package loan

import (
	"time"

	"lending-backend/pkg/finance"
)

// Transition records one state change applied to a loan.
type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
}

var allowed = map[State][]State{
	StatePending: {StateFunding},
	StateFunding: {StateActive},
	StateActive:  {StateCompleted, StateDefaulted},
}

func CanTransition(from, to State) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// moveTo is the only place that changes State. It refuses any edge that is
// not in the allowed table and leaves the loan untouched in that case.
func (l *Loan) moveTo(to State, now time.Time) (Transition, error) {
	if !CanTransition(l.State, to) {
		return Transition{}, &StateError{LoanID: l.LoanID, State: l.State, Op: "move to " + string(to)}
	}
	t := Transition{From: l.State, To: to, At: now}
	l.State = to
	l.StateUpdatedAt = now
	return t, nil
}

// FundingProgress is funded/principal·100 clamped to [0, 100].
func FundingProgress(funded, principal float64) float64 {
	if principal <= 0 || funded <= 0 {
		return 0
	}
	p := funded / principal * 100
	if p > 100 {
		return 100
	}
	return p
}

// Remaining is how much can still be invested before the loan is fully funded.
func (l *Loan) Remaining() float64 {
	r := finance.Sub(l.Principal, l.FundedAmount)
	if r < 0 {
		return 0
	}
	return r
}

// ApplyInvestment records a contribution against the loan. The loan is left
// untouched on error. The first investment moves pending -> funding and the
// one that makes funded equal principal moves funding -> active; both may
// happen in a single call.
func ApplyInvestment(l *Loan, amount float64, now time.Time) ([]Transition, error) {
	if !l.State.Open() {
		return nil, &StateError{LoanID: l.LoanID, State: l.State, Op: "accept investments"}
	}
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	remaining := l.Remaining()
	if amount > remaining {
		return nil, &CapacityError{LoanID: l.LoanID, Requested: amount, Remaining: remaining}
	}

	var out []Transition
	next := *l
	next.FundedAmount = finance.Sum(next.FundedAmount, amount)
	next.FundingProgress = FundingProgress(next.FundedAmount, next.Principal)
	if next.State == StatePending {
		t, err := next.moveTo(StateFunding, now)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if next.Remaining() == 0 {
		next.FundingProgress = 100
		t, err := next.moveTo(StateActive, now)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	*l = next
	return out, nil
}

// Complete moves an active loan to completed once every installment is paid.
// It reports whether the transition happened.
func Complete(l *Loan, installments []Installment, now time.Time) (bool, error) {
	if l.State != StateActive {
		return false, &StateError{LoanID: l.LoanID, State: l.State, Op: "complete"}
	}
	if len(installments) == 0 {
		return false, nil
	}
	for _, i := range installments {
		if i.Status != InstallmentPaid {
			return false, nil
		}
	}
	if _, err := l.moveTo(StateCompleted, now); err != nil {
		return false, err
	}
	return true, nil
}

// Default moves an active loan to defaulted when its delinquency reaches the
// configured threshold (in days). It reports whether the transition happened.
func Default(l *Loan, overdueDays, thresholdDays int, now time.Time) (bool, error) {
	if l.State != StateActive {
		return false, &StateError{LoanID: l.LoanID, State: l.State, Op: "default"}
	}
	if thresholdDays <= 0 || overdueDays < thresholdDays {
		return false, nil
	}
	if _, err := l.moveTo(StateDefaulted, now); err != nil {
		return false, err
	}
	return true, nil
}

// MarkPaid settles an installment. Overdue installments can still be paid.
func MarkPaid(i *Installment, now time.Time) error {
	if i.Status == InstallmentPaid {
		return ErrInstallmentPaid
	}
	i.Status = InstallmentPaid
	i.PaidAt = &now
	return nil
}

// MarkOverdue flags a pending installment whose due date has passed.
func MarkOverdue(i *Installment, now time.Time) bool {
	if i.Status != InstallmentPending || !now.After(i.DueDate) {
		return false
	}
	i.Status = InstallmentOverdue
	return true
}
