package loan

import (
	"time"

	"gorm.io/gorm"
)

type State string

const (
	StatePending   State = "pending"
	StateFunding   State = "funding"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateDefaulted State = "defaulted"
)

// Open reports whether the loan still accepts investments.
func (s State) Open() bool { return s == StatePending || s == StateFunding }

func (s State) Terminal() bool { return s == StateCompleted || s == StateDefaulted }

func ParseState(s string) (State, bool) {
	switch st := State(s); st {
	case StatePending, StateFunding, StateActive, StateCompleted, StateDefaulted:
		return st, true
	}
	return "", false
}

type Loan struct {
	ID              uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string         `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	BorrowerID      string         `gorm:"size:32;index:idx_loans_borrower_active" json:"borrower_id"`
	Principal       float64        `gorm:"type:decimal(18,2)" json:"principal"`
	Rate            float64        `gorm:"type:decimal(6,2)" json:"rate"`
	TermMonths      int            `gorm:"column:term_months" json:"term_months"`
	Purpose         string         `gorm:"type:text" json:"purpose"`
	State           State          `gorm:"type:varchar(16);default:'pending';index" json:"state"`
	CreditScore     int            `json:"credit_score"`
	RiskTier        string         `gorm:"size:8" json:"risk_tier"`
	FundedAmount    float64        `gorm:"type:decimal(18,2);default:0" json:"funded_amount"`
	FundingProgress float64        `gorm:"type:double;default:0" json:"funding_progress"`
	AgreementLink   string         `gorm:"type:text" json:"agreement_link,omitempty"`
	StateUpdatedAt  time.Time      `json:"state_updated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy       string         `gorm:"size:32" json:"-"`
}

func (Loan) TableName() string { return "loans" }

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

// Installment is one repayment unit; created with its loan at activation and
// never recomputed.
type Installment struct {
	ID            uint64            `gorm:"primaryKey;column:id" json:"-"`
	InstallmentID string            `gorm:"size:32;uniqueIndex" json:"installment_id"`
	LoanID        string            `gorm:"size:32;uniqueIndex:ux_installments_loan_seq" json:"loan_id"`
	Sequence      int               `gorm:"uniqueIndex:ux_installments_loan_seq" json:"sequence"`
	Amount        float64           `gorm:"type:decimal(18,2)" json:"amount"`
	PrincipalPart float64           `gorm:"type:decimal(18,2)" json:"principal_part"`
	InterestPart  float64           `gorm:"type:decimal(18,2)" json:"interest_part"`
	DueDate       time.Time         `gorm:"index" json:"due_date"`
	PaidAt        *time.Time        `json:"paid_at,omitempty"`
	RemindedAt    *time.Time        `json:"-"`
	Status        InstallmentStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Installment) TableName() string { return "installments" }

// OverdueDays is the number of whole days past the due date, 0 when paid or not yet due.
func (i Installment) OverdueDays(now time.Time) int {
	if i.Status == InstallmentPaid || !now.After(i.DueDate) {
		return 0
	}
	return int(now.Sub(i.DueDate) / (24 * time.Hour))
}
