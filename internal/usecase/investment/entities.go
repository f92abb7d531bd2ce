package investment

import (
	"time"

	"lending-backend/internal/domain/loan"
)

type InvestInput struct {
	InvestorID string  `json:"investor_id"`
	LoanID     string  `json:"loan_id"`
	Amount     float64 `json:"amount"`
}

type InvestmentDTO struct {
	InvestmentID   string     `json:"investment_id"`
	InvestorID     string     `json:"investor_id"`
	LoanID         string     `json:"loan_id"`
	Amount         float64    `json:"amount"`
	ExpectedReturn float64    `json:"expected_return"`
	ActualReturn   float64    `json:"actual_return"`
	Status         string     `json:"status"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
}

type InvestResultDTO struct {
	Investment      InvestmentDTO     `json:"investment"`
	LoanState       string            `json:"loan_state"`
	FundingProgress float64           `json:"funding_progress"`
	Remaining       float64           `json:"remaining"`
	Transitions     []loan.Transition `json:"transitions"`
	ContractID      string            `json:"contract_id,omitempty"`
}
