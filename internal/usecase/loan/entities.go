package loan

import (
	"time"

	domain "lending-backend/internal/domain/loan"
	"lending-backend/pkg/finance"
)

type CreateLoanInput struct {
	BorrowerID string  `json:"borrower_id"`
	Principal  float64 `json:"principal"`
	Rate       float64 `json:"rate"`
	TermMonths int     `json:"term_months"`
	Purpose    string  `json:"purpose"`
}

type ListInput struct {
	State string
	Limit int
}

type LoanDTO struct {
	LoanID          string    `json:"loan_id"`
	BorrowerID      string    `json:"borrower_id"`
	Principal       float64   `json:"principal"`
	Rate            float64   `json:"rate"`
	TermMonths      int       `json:"term_months"`
	Purpose         string    `json:"purpose"`
	State           string    `json:"state"`
	CreditScore     int       `json:"credit_score"`
	RiskTier        string    `json:"risk_tier"`
	FundedAmount    float64   `json:"funded_amount"`
	FundingProgress float64   `json:"funding_progress"`
	Remaining       float64   `json:"remaining"`
	MonthlyPayment  float64   `json:"monthly_payment"`
	CreatedAt       time.Time `json:"created_at"`
}

type Contribution struct {
	InvestmentID string    `json:"investment_id"`
	InvestorID   string    `json:"investor_id"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	StartDate    time.Time `json:"start_date"`
}

type LoanDetailDTO struct {
	LoanDTO
	Investments  []Contribution       `json:"investments"`
	Installments []domain.Installment `json:"installments"`
}

type ScheduleDTO struct {
	LoanID         string            `json:"loan_id"`
	MonthlyPayment float64           `json:"monthly_payment"`
	TotalPayable   float64           `json:"total_payable"`
	TotalInterest  float64           `json:"total_interest"`
	Payments       []finance.Payment `json:"payments"`
}

type ContractLinkDTO struct {
	LoanID     string    `json:"loan_id"`
	ContractID string    `json:"contract_id"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}
