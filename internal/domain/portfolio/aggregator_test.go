package portfolio

import (
	"testing"

	"lending-backend/internal/domain/investment"
	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/user"
)

func TestEmptyCollections(t *testing.T) {
	if got := Borrower(nil); got != (BorrowerMetrics{}) {
		t.Fatalf("Borrower(nil) = %+v", got)
	}
	if got := Investor(nil); got != (InvestorMetrics{}) || got.AverageReturn != 0 {
		t.Fatalf("Investor(nil) = %+v", got)
	}
	if got := Market(nil, nil); got != (MarketMetrics{}) {
		t.Fatalf("Market(nil, nil) = %+v", got)
	}
}

func TestBorrower(t *testing.T) {
	got := Borrower([]loan.Loan{
		{Principal: 10_000, FundedAmount: 10_000, State: loan.StateActive},
		{Principal: 5_000, FundedAmount: 5_000, State: loan.StateCompleted},
		{Principal: 2_000.1, FundedAmount: 0.2, State: loan.StateFunding},
	})
	want := BorrowerMetrics{LoanCount: 3, TotalRequested: 17_000.1, TotalFunded: 15_000.2, ActiveCount: 1, CompletedCount: 1}
	if got != want {
		t.Fatalf("Borrower = %+v, want %+v", got, want)
	}
}

func TestInvestor(t *testing.T) {
	got := Investor([]investment.Investment{
		{Amount: 1_000, ActualReturn: 10, Status: investment.StatusActive},
		{Amount: 2_000, ActualReturn: 20.5, Status: investment.StatusCompleted},
		{Amount: 500, ActualReturn: 0, Status: investment.StatusDefaulted},
	})
	if got.TotalInvested != 3_500 || got.ActiveCount != 1 || got.CompletedCount != 1 || got.InvestmentCount != 3 {
		t.Fatalf("Investor = %+v", got)
	}
	if got.TotalReturn != 30.5 || got.AverageReturn != 10.17 {
		t.Fatalf("returns = %v avg %v", got.TotalReturn, got.AverageReturn)
	}
}

func TestMarket(t *testing.T) {
	loans := []loan.Loan{
		{Rate: 12, FundedAmount: 10_000, State: loan.StateActive},
		{Rate: 18, FundedAmount: 5_000, State: loan.StateDefaulted},
		{Rate: 24, FundedAmount: 0, State: loan.StatePending},
		{Rate: 10, FundedAmount: 3_000, State: loan.StateCompleted},
	}
	users := []user.User{
		{UserID: "b1", Role: user.RoleBorrower},
		{UserID: "b2", Role: user.RoleBorrower},
		{UserID: "i1", Role: user.RoleInvestor},
		{UserID: "i1", Role: user.RoleInvestor},
	}
	got := Market(loans, users)
	want := MarketMetrics{
		LoanCount: 4, ActiveLoans: 1, TotalFunded: 18_000, AverageRate: 16,
		DefaultRate: 25, InvestorCount: 1, BorrowerCount: 2,
	}
	if got != want {
		t.Fatalf("Market = %+v, want %+v", got, want)
	}
}
