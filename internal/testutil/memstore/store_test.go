package memstore

import (
	"context"
	"errors"
	"testing"

	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/uow"

	"gorm.io/gorm"
)

var _ uow.UnitOfWork = (*Store)(nil)

func TestStore_RollbackRestoresState(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Repos().Loans.Create(ctx, &loan.Loan{LoanID: "LN-1", Principal: 1000, State: loan.StatePending}); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := s.WithinLoanTx(ctx, "LN-1", func(r uow.Repos, l *loan.Loan) error {
		l.State = loan.StateFunding
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	got, _ := s.Repos().Loans.GetByLoanID(ctx, "LN-1")
	if got.State != loan.StatePending {
		t.Fatalf("state after rollback = %s", got.State)
	}

	if err := s.WithinLoanTx(ctx, "LN-404", func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Repos().Loans.Create(ctx, &loan.Loan{LoanID: "LN-1", Principal: 1000})

	a, _ := s.Repos().Loans.GetByLoanID(ctx, "LN-1")
	a.Principal = 1
	b, _ := s.Repos().Loans.GetByLoanID(ctx, "LN-1")
	if b.Principal != 1000 {
		t.Fatal("stored loan mutated through a returned pointer")
	}
}
