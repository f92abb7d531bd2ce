package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("contract not found")

// Table: contracts. One simulated loan agreement per active loan.
type Contract struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	ContractID string `gorm:"column:contract_id;type:char(32);not null;uniqueIndex:ux_contracts_contract_id_active"`
	// FK to loans.id (numeric)
	LoanID      uint64         `gorm:"column:loan_id;not null;uniqueIndex:ux_contracts_loan_active"`
	BorrowerID  string         `gorm:"column:borrower_id;type:char(32);not null"`
	DocumentKey string         `gorm:"column:document_key;type:text;not null"`
	SignedAt    time.Time      `gorm:"column:signed_at;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
	DeletedBy   *string        `gorm:"column:deleted_by;type:char(32);"`
}

func (Contract) TableName() string { return "contracts" }

// DocumentKey is the object key the agreement artifact is stored under.
func DocumentKey(loanID, contractID string) string {
	return fmt.Sprintf("contracts/%s/%s.json", loanID, contractID)
}

type Party struct {
	UserID string  `json:"user_id"`
	Role   string  `json:"role"`
	Amount float64 `json:"amount"`
}

type ScheduleLine struct {
	Sequence int       `json:"sequence"`
	Amount   float64   `json:"amount"`
	DueDate  time.Time `json:"due_date"`
}

// Document is the body of the simulated agreement artifact.
type Document struct {
	ContractID     string         `json:"contract_id"`
	LoanID         string         `json:"loan_id"`
	Principal      float64        `json:"principal"`
	AnnualRate     float64        `json:"annual_rate_percent"`
	TermMonths     int            `json:"term_months"`
	MonthlyPayment float64        `json:"monthly_payment"`
	Parties        []Party        `json:"parties"`
	Schedule       []ScheduleLine `json:"schedule"`
	SignedAt       time.Time      `json:"signed_at"`
}

func (d Document) Marshal() ([]byte, error) { return json.MarshalIndent(d, "", "  ") }
