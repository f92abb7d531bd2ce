package contract

import (
	"time"

	"lending-backend/internal/domain/investment"
	"lending-backend/internal/domain/loan"
)

// NewDocument renders the agreement for an activated loan from its persisted
// investments and installments.
func NewDocument(contractID string, l *loan.Loan, invs []investment.Investment, items []loan.Installment, signedAt time.Time) Document {
	d := Document{
		ContractID: contractID,
		LoanID:     l.LoanID,
		Principal:  l.Principal,
		AnnualRate: l.Rate,
		TermMonths: l.TermMonths,
		Parties:    []Party{{UserID: l.BorrowerID, Role: "borrower", Amount: l.Principal}},
		Schedule:   make([]ScheduleLine, 0, len(items)),
		SignedAt:   signedAt,
	}
	if len(items) > 0 {
		d.MonthlyPayment = items[0].Amount
	}
	for _, i := range invs {
		d.Parties = append(d.Parties, Party{UserID: i.InvestorID, Role: "investor", Amount: i.Amount})
	}
	for _, it := range items {
		d.Schedule = append(d.Schedule, ScheduleLine{Sequence: it.Sequence, Amount: it.Amount, DueDate: it.DueDate})
	}
	return d
}
