package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Result is the outcome of a single field validator. Errors keeps the order
// in which rules were checked.
type Result struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

func result(errs []string) Result {
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

var (
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	rePhone = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)
)

func Email(s string) Result {
	s = strings.TrimSpace(s)
	if s == "" {
		return result([]string{"email is required"})
	}
	if !reEmail.MatchString(s) {
		return result([]string{"email is invalid"})
	}
	return result(nil)
}

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TaxID validates an individual tax id (CPF): 11 digits once punctuation is removed.
func TaxID(s string) Result {
	d := Digits(s)
	if d == "" {
		return result([]string{"tax id is required"})
	}
	if len(d) != 11 {
		return result([]string{"tax id must have 11 digits"})
	}
	return result(nil)
}

// BusinessTaxID validates a company tax id (CNPJ): 14 digits once punctuation is removed.
func BusinessTaxID(s string) Result {
	d := Digits(s)
	if d == "" {
		return result([]string{"business tax id is required"})
	}
	if len(d) != 14 {
		return result([]string{"business tax id must have 14 digits"})
	}
	return result(nil)
}

// Phone accepts "(DD) DDDDD-DDDD" (mobile) and "(DD) DDDD-DDDD" (landline).
func Phone(s string) Result {
	s = strings.TrimSpace(s)
	if s == "" {
		return result([]string{"phone is required"})
	}
	if !rePhone.MatchString(s) {
		return result([]string{"phone must match (DD) DDDDD-DDDD or (DD) DDDD-DDDD"})
	}
	return result(nil)
}

func Password(s string) Result {
	var errs []string
	if len(s) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if !lower {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if !digit {
		errs = append(errs, "password must contain a digit")
	}
	return result(errs)
}

// LoanAmount checks a requested principal against the policy floor and ceiling.
func LoanAmount(amount, min, max float64) Result {
	if amount <= 0 {
		return result([]string{"loan amount must be greater than zero"})
	}
	var errs []string
	if amount < min {
		errs = append(errs, fmt.Sprintf("loan amount must be at least %.2f", min))
	}
	if amount > max {
		errs = append(errs, fmt.Sprintf("loan amount must not exceed %.2f", max))
	}
	return result(errs)
}

// InvestmentAmount checks a contribution against the policy floor and what is
// still fundable on the loan.
func InvestmentAmount(amount, min, available float64) Result {
	if amount <= 0 {
		return result([]string{"investment amount must be greater than zero"})
	}
	var errs []string
	if amount < min {
		errs = append(errs, fmt.Sprintf("investment amount must be at least %.2f", min))
	}
	if amount > available {
		errs = append(errs, fmt.Sprintf("investment amount must not exceed available %.2f", available))
	}
	return result(errs)
}
