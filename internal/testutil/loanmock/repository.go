package loanmock

import (
	"context"
	"time"

	domain "lending-backend/internal/domain/loan"
)

var (
	_ domain.Repository            = (*Repo)(nil)
	_ domain.InstallmentRepository = (*InstallmentRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes succeed.
type Repo struct {
	CreateFn                  func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn             func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn    func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetOpenLoanByBorrowerIDFn func(ctx context.Context, borrowerID string) (*domain.Loan, error)
	ListByBorrowerIDFn        func(ctx context.Context, borrowerID string) ([]domain.Loan, error)
	ListByStatesFn            func(ctx context.Context, states []domain.State, limit int) ([]domain.Loan, error)
	SaveFn                    func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*domain.Loan, error) {
	if m.GetOpenLoanByBorrowerIDFn != nil {
		return m.GetOpenLoanByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStates(ctx context.Context, states []domain.State, limit int) ([]domain.Loan, error) {
	if m.ListByStatesFn != nil {
		return m.ListByStatesFn(ctx, states, limit)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

// InstallmentRepo is a function-backed mock of domain.InstallmentRepository.
type InstallmentRepo struct {
	CreateBatchFn         func(ctx context.Context, items []domain.Installment) error
	ListByLoanIDFn        func(ctx context.Context, loanID string) ([]domain.Installment, error)
	GetBySequenceFn       func(ctx context.Context, loanID string, seq int) (*domain.Installment, error)
	ListUnpaidDueBeforeFn func(ctx context.Context, before time.Time, limit int) ([]domain.Installment, error)
	SaveFn                func(ctx context.Context, i *domain.Installment) error
}

func (m *InstallmentRepo) CreateBatch(ctx context.Context, items []domain.Installment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, items)
	}
	return nil
}

func (m *InstallmentRepo) ListByLoanID(ctx context.Context, loanID string) ([]domain.Installment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *InstallmentRepo) GetBySequence(ctx context.Context, loanID string, seq int) (*domain.Installment, error) {
	if m.GetBySequenceFn != nil {
		return m.GetBySequenceFn(ctx, loanID, seq)
	}
	return nil, context.Canceled
}

func (m *InstallmentRepo) ListUnpaidDueBefore(ctx context.Context, before time.Time, limit int) ([]domain.Installment, error) {
	if m.ListUnpaidDueBeforeFn != nil {
		return m.ListUnpaidDueBeforeFn(ctx, before, limit)
	}
	return nil, context.Canceled
}

func (m *InstallmentRepo) Save(ctx context.Context, i *domain.Installment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, i)
	}
	return nil
}
