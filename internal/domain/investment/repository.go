package investment

import "context"

type Repository interface {
	Create(ctx context.Context, i *Investment) error
	GetByInvestmentID(ctx context.Context, investmentID string) (*Investment, error)
	// Ordered by creation, i.e. the loan's contribution order
	ListByLoanID(ctx context.Context, loanID string) ([]Investment, error)
	ListByInvestorID(ctx context.Context, investorID string) ([]Investment, error)
	Save(ctx context.Context, i *Investment) error

	AddReturn(ctx context.Context, r *MonthlyReturn) error
	ListReturns(ctx context.Context, investmentID string) ([]MonthlyReturn, error)
}
