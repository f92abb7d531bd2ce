package repayment

import "time"

type PayInput struct {
	LoanID   string `json:"loan_id"`
	Sequence int    `json:"sequence"`
	PayerID  string `json:"payer_id"`
}

type Distribution struct {
	InvestmentID string  `json:"investment_id"`
	InvestorID   string  `json:"investor_id"`
	Amount       float64 `json:"amount"`
	Principal    float64 `json:"principal"`
	Interest     float64 `json:"interest"`
}

type PaymentDTO struct {
	LoanID        string         `json:"loan_id"`
	Sequence      int            `json:"sequence"`
	Amount        float64        `json:"amount"`
	PaidAt        time.Time      `json:"paid_at"`
	LoanState     string         `json:"loan_state"`
	Remaining     int            `json:"remaining_installments"`
	Distributions []Distribution `json:"distributions"`
}
