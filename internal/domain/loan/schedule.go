package loan

import (
	"time"

	"lending-backend/pkg/finance"
	"lending-backend/pkg/id"
)

// GenerateInstallments builds the loan's full repayment schedule, first due
// one calendar month after now.
func GenerateInstallments(l *Loan, now time.Time) ([]Installment, error) {
	rows, err := finance.Schedule(l.Principal, l.Rate, l.TermMonths, now)
	if err != nil {
		return nil, err
	}
	out := make([]Installment, 0, len(rows))
	for _, r := range rows {
		out = append(out, Installment{
			InstallmentID: id.NewID32(),
			LoanID:        l.LoanID,
			Sequence:      r.Sequence,
			Amount:        r.Amount,
			PrincipalPart: r.Principal,
			InterestPart:  r.Interest,
			DueDate:       r.DueDate,
			Status:        InstallmentPending,
		})
	}
	return out, nil
}
