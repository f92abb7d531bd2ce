package uow

import (
	"context"

	"lending-backend/internal/domain/contract"
	"lending-backend/internal/domain/investment"
	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/notification"
	"lending-backend/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Loans         loan.Repository
	Installments  loan.InstallmentRepository
	Investments   investment.Repository
	Notifications notification.Repository
	Contracts     contract.Repository
	Users         user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in; concurrent callers on the same
	// loan are serialized until the tx ends
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
