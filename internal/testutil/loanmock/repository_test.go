package loanmock

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "lending-backend/internal/domain/loan"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{LoanID: "LN-1"}

	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Loan) error {
			called = true
			if gotCtx != ctx || got != l {
				t.Fatalf("Create args not forwarded")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	if err := (&Repo{}).Create(ctx, l); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_Lookups(t *testing.T) {
	ctx := context.Background()
	want := &domain.Loan{LoanID: "LN-5"}
	get := func(_ context.Context, loanID string) (*domain.Loan, error) {
		if loanID != "LN-5" {
			t.Fatalf("loanID mismatch: got %s", loanID)
		}
		return want, nil
	}
	m := &Repo{GetByLoanIDFn: get, GetByLoanIDForUpdateFn: get, GetOpenLoanByBorrowerIDFn: get}

	for name, fn := range map[string]func(context.Context, string) (*domain.Loan, error){
		"GetByLoanID":             m.GetByLoanID,
		"GetByLoanIDForUpdate":    m.GetByLoanIDForUpdate,
		"GetOpenLoanByBorrowerID": m.GetOpenLoanByBorrowerID,
	} {
		if got, err := fn(ctx, "LN-5"); err != nil || got != want {
			t.Fatalf("%s: got %+v, %v", name, got, err)
		}
	}

	// Default (nil func) → context.Canceled
	empty := &Repo{}
	if _, err := empty.GetByLoanIDForUpdate(ctx, "LN-5"); err != context.Canceled {
		t.Fatalf("GetByLoanIDForUpdate default: want context.Canceled, got %v", err)
	}
	if _, err := empty.ListByStates(ctx, nil, 0); err != context.Canceled {
		t.Fatalf("ListByStates default: want context.Canceled, got %v", err)
	}
}

func TestInstallmentRepo(t *testing.T) {
	ctx := context.Background()
	before := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	m := &InstallmentRepo{
		ListUnpaidDueBeforeFn: func(_ context.Context, got time.Time, limit int) ([]domain.Installment, error) {
			if !got.Equal(before) || limit != 5 {
				t.Fatalf("args not forwarded: %v %d", got, limit)
			}
			return []domain.Installment{{Sequence: 1}}, nil
		},
	}
	items, err := m.ListUnpaidDueBefore(ctx, before, 5)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListUnpaidDueBefore: %v %v", items, err)
	}
	if _, err := m.GetBySequence(ctx, "LN", 1); err != context.Canceled {
		t.Fatalf("GetBySequence default: %v", err)
	}
	if err := m.Save(ctx, &domain.Installment{}); err != nil {
		t.Fatalf("Save default: %v", err)
	}
}
