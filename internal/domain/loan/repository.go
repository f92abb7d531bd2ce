package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row until the surrounding tx ends
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// Latest pending or funding loan of a borrower
	GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*Loan, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Loan, error)
	// ListByStates returns every loan when states is empty; limit <= 0 means no limit
	ListByStates(ctx context.Context, states []State, limit int) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}

type InstallmentRepository interface {
	CreateBatch(ctx context.Context, items []Installment) error
	ListByLoanID(ctx context.Context, loanID string) ([]Installment, error)
	GetBySequence(ctx context.Context, loanID string, seq int) (*Installment, error)
	// Unpaid (pending or overdue) installments due before the given instant
	ListUnpaidDueBefore(ctx context.Context, before time.Time, limit int) ([]Installment, error)
	Save(ctx context.Context, i *Installment) error
}
