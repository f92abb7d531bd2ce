package user

import (
	"time"

	domain "lending-backend/internal/domain/user"
)

type RegisterInput struct {
	Role          string  `json:"role"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	TaxID         string  `json:"tax_id"`
	Phone         string  `json:"phone"`
	Password      string  `json:"password"`
	CreditScore   int     `json:"credit_score"`
	MonthlyIncome float64 `json:"monthly_income"`
}

type UserDTO struct {
	UserID    string         `json:"user_id"`
	Role      string         `json:"role"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Profile   domain.Profile `json:"profile"`
	CreatedAt time.Time      `json:"created_at"`
}

type RiskProfileDTO struct {
	UserID  string  `json:"user_id"`
	Score   float64 `json:"score"`
	Profile string  `json:"profile"`
}
