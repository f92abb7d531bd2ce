package contractmock

import (
	"context"
	"testing"

	domain "lending-backend/internal/domain/contract"
)

func TestRepo(t *testing.T) {
	ctx := context.Background()
	want := &domain.Contract{ContractID: "C-1", LoanID: 7}
	m := &Repo{
		GetByLoanIDFn: func(_ context.Context, id uint64) (*domain.Contract, error) {
			if id != 7 {
				t.Fatalf("loan id mismatch: %d", id)
			}
			return want, nil
		},
	}
	if got, err := m.GetByLoanID(ctx, 7); err != nil || got != want {
		t.Fatalf("GetByLoanID: %+v %v", got, err)
	}
	if _, err := m.GetByContractID(ctx, "C-1"); err != context.Canceled {
		t.Fatalf("GetByContractID default: want context.Canceled, got %v", err)
	}
	if err := m.Create(ctx, want); err != nil {
		t.Fatalf("Create default: %v", err)
	}
}
