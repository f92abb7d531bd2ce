// Package portfolio folds loan, investment and user collections into the
// dashboard metrics. Every function is pure and returns zero values for
// empty input.
package portfolio

import (
	"lending-backend/internal/domain/investment"
	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/user"

	"github.com/shopspring/decimal"
)

type BorrowerMetrics struct {
	LoanCount      int     `json:"loan_count"`
	TotalRequested float64 `json:"total_requested"`
	TotalFunded    float64 `json:"total_funded"`
	ActiveCount    int     `json:"active_count"`
	CompletedCount int     `json:"completed_count"`
}

type InvestorMetrics struct {
	InvestmentCount int     `json:"investment_count"`
	TotalInvested   float64 `json:"total_invested"`
	TotalReturn     float64 `json:"total_return"`
	ActiveCount     int     `json:"active_count"`
	CompletedCount  int     `json:"completed_count"`
	AverageReturn   float64 `json:"average_return"`
}

type MarketMetrics struct {
	LoanCount     int     `json:"loan_count"`
	ActiveLoans   int     `json:"active_loans"`
	TotalFunded   float64 `json:"total_funded"`
	AverageRate   float64 `json:"average_rate"`
	DefaultRate   float64 `json:"default_rate"`
	InvestorCount int     `json:"investor_count"`
	BorrowerCount int     `json:"borrower_count"`
}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func mean(total decimal.Decimal, n int) float64 {
	if n == 0 {
		return 0
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2).InexactFloat64()
}

func Borrower(loans []loan.Loan) BorrowerMetrics {
	requested, funded := decimal.Zero, decimal.Zero
	m := BorrowerMetrics{LoanCount: len(loans)}
	for _, l := range loans {
		requested = requested.Add(dec(l.Principal))
		funded = funded.Add(dec(l.FundedAmount))
		switch l.State {
		case loan.StateActive:
			m.ActiveCount++
		case loan.StateCompleted:
			m.CompletedCount++
		}
	}
	m.TotalRequested = requested.InexactFloat64()
	m.TotalFunded = funded.InexactFloat64()
	return m
}

func Investor(investments []investment.Investment) InvestorMetrics {
	invested, returned := decimal.Zero, decimal.Zero
	m := InvestorMetrics{InvestmentCount: len(investments)}
	for _, i := range investments {
		invested = invested.Add(dec(i.Amount))
		returned = returned.Add(dec(i.ActualReturn))
		switch i.Status {
		case investment.StatusActive:
			m.ActiveCount++
		case investment.StatusCompleted:
			m.CompletedCount++
		}
	}
	m.TotalInvested = invested.InexactFloat64()
	m.TotalReturn = returned.InexactFloat64()
	m.AverageReturn = mean(returned, len(investments))
	return m
}

// Market summarizes every loan; users are counted by role.
func Market(loans []loan.Loan, users []user.User) MarketMetrics {
	funded, rates := decimal.Zero, decimal.Zero
	var defaulted int
	m := MarketMetrics{LoanCount: len(loans)}
	for _, l := range loans {
		funded = funded.Add(dec(l.FundedAmount))
		rates = rates.Add(dec(l.Rate))
		switch l.State {
		case loan.StateActive:
			m.ActiveLoans++
		case loan.StateDefaulted:
			defaulted++
		}
	}
	m.TotalFunded = funded.InexactFloat64()
	m.AverageRate = mean(rates, len(loans))
	if len(loans) > 0 {
		m.DefaultRate = decimal.NewFromInt(int64(defaulted)).
			Div(decimal.NewFromInt(int64(len(loans)))).
			Mul(decimal.NewFromInt(100)).
			Round(2).InexactFloat64()
	}

	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if _, dup := seen[u.UserID]; dup {
			continue
		}
		seen[u.UserID] = struct{}{}
		switch u.Role {
		case user.RoleInvestor:
			m.InvestorCount++
		case user.RoleBorrower:
			m.BorrowerCount++
		}
	}
	return m
}
