package investment

import (
	"errors"
	"time"

	"lending-backend/pkg/finance"
)

var ErrNotFound = errors.New("investment not found")

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

type Investment struct {
	ID           uint64     `gorm:"primaryKey;column:id" json:"-"`
	InvestmentID string     `gorm:"size:32;uniqueIndex" json:"investment_id"`
	InvestorID   string     `gorm:"size:32;index" json:"investor_id"`
	LoanID       string     `gorm:"size:32;index" json:"loan_id"`
	Amount       float64    `gorm:"type:decimal(18,2)" json:"amount"`
	ActualReturn float64    `gorm:"type:decimal(18,2);default:0" json:"actual_return"`
	Status       Status     `gorm:"type:varchar(16);default:'active';index" json:"status"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Investment) TableName() string { return "investments" }

// MonthlyReturn is the investor's share of one paid installment.
type MonthlyReturn struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	InvestmentID string    `gorm:"size:32;uniqueIndex:ux_returns_investment_seq" json:"investment_id"`
	Sequence     int       `gorm:"uniqueIndex:ux_returns_investment_seq" json:"sequence"`
	Amount       float64   `gorm:"type:decimal(18,2)" json:"amount"`
	Principal    float64   `gorm:"type:decimal(18,2)" json:"principal"`
	Interest     float64   `gorm:"type:decimal(18,2)" json:"interest"`
	PaidAt       time.Time `json:"paid_at"`
}

func (MonthlyReturn) TableName() string { return "investment_returns" }

// ExpectedReturn is derived from the funded loan's terms; it is never stored.
func (i Investment) ExpectedReturn(ratePercent float64, termMonths int) (float64, error) {
	return finance.ExpectedReturn(i.Amount, ratePercent, termMonths)
}

// Credit books an installment share against the investment. Only the interest
// portion counts as realized return.
func (i *Investment) Credit(seq int, installmentAmount, principalPart, interestPart, loanPrincipal float64, at time.Time) MonthlyReturn {
	r := MonthlyReturn{
		InvestmentID: i.InvestmentID,
		Sequence:     seq,
		Amount:       finance.Share(installmentAmount, i.Amount, loanPrincipal),
		Principal:    finance.Share(principalPart, i.Amount, loanPrincipal),
		Interest:     finance.Share(interestPart, i.Amount, loanPrincipal),
		PaidAt:       at,
	}
	i.ActualReturn = finance.Sum(i.ActualReturn, r.Interest)
	return r
}

// Close ends an active investment with the given terminal status.
func (i *Investment) Close(status Status, at time.Time) bool {
	if i.Status != StatusActive || status == StatusActive {
		return false
	}
	i.Status = status
	i.EndDate = &at
	return true
}
