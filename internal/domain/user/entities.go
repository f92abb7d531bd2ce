package user

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrWrongRole  = errors.New("user has the wrong role for this operation")
)

type Role string

const (
	RoleBorrower Role = "borrower"
	RoleInvestor Role = "investor"
)

// User is the stored account. Borrower and investor fields share one row;
// Profile turns it into the role-specific variant.
type User struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID        string    `gorm:"size:32;uniqueIndex" json:"user_id"`
	Role          Role      `gorm:"type:varchar(16);index" json:"role"`
	Name          string    `gorm:"size:191" json:"name"`
	Email         string    `gorm:"size:191;uniqueIndex" json:"email"`
	TaxID         string    `gorm:"size:14" json:"tax_id"`
	Phone         string    `gorm:"size:20" json:"phone"`
	PasswordHash  string    `gorm:"size:72" json:"-"`
	CreditScore   int       `json:"credit_score,omitempty"`
	MonthlyIncome float64   `gorm:"type:decimal(18,2)" json:"monthly_income,omitempty"`
	CreditLimit   float64   `gorm:"type:decimal(18,2)" json:"credit_limit,omitempty"`
	RiskScore     *float64  `gorm:"type:decimal(4,2)" json:"risk_score,omitempty"`
	RiskProfile   string    `gorm:"size:16" json:"risk_profile,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Profile is either a BorrowerProfile or an InvestorProfile.
type Profile interface {
	Kind() Role
	isProfile()
}

type BorrowerProfile struct {
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	CreditScore   int     `json:"credit_score"`
	MonthlyIncome float64 `json:"monthly_income"`
	CreditLimit   float64 `json:"credit_limit"`
}

type InvestorProfile struct {
	UserID      string   `json:"user_id"`
	Name        string   `json:"name"`
	RiskScore   *float64 `json:"risk_score,omitempty"`
	RiskProfile string   `json:"risk_profile,omitempty"`
}

func (BorrowerProfile) Kind() Role { return RoleBorrower }
func (BorrowerProfile) isProfile() {}
func (InvestorProfile) Kind() Role { return RoleInvestor }
func (InvestorProfile) isProfile() {}

func (u User) Profile() (Profile, error) {
	switch u.Role {
	case RoleBorrower:
		return BorrowerProfile{UserID: u.UserID, Name: u.Name, CreditScore: u.CreditScore, MonthlyIncome: u.MonthlyIncome, CreditLimit: u.CreditLimit}, nil
	case RoleInvestor:
		return InvestorProfile{UserID: u.UserID, Name: u.Name, RiskScore: u.RiskScore, RiskProfile: u.RiskProfile}, nil
	default:
		return nil, fmt.Errorf("user %s: unknown role %q", u.UserID, u.Role)
	}
}

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleBorrower, RoleInvestor:
		return r, true
	}
	return "", false
}
