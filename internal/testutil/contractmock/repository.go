package contractmock

import (
	"context"

	domain "lending-backend/internal/domain/contract"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn          func(ctx context.Context, c *domain.Contract) error
	GetByLoanIDFn     func(ctx context.Context, loanNumericID uint64) (*domain.Contract, error)
	GetByContractIDFn func(ctx context.Context, contractID string) (*domain.Contract, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Contract) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanNumericID uint64) (*domain.Contract, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanNumericID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByContractID(ctx context.Context, contractID string) (*domain.Contract, error) {
	if m.GetByContractIDFn != nil {
		return m.GetByContractIDFn(ctx, contractID)
	}
	return nil, context.Canceled
}
