package http

import (
	"errors"
	"strings"
	"testing"
)

func hasField(fe []FieldError, field, msgPart string) bool {
	for _, e := range fe {
		if e.Field == field && strings.Contains(e.Message, msgPart) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		UserID string `json:"user_id" validate:"hex32"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{UserID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}
	for _, s := range []string{
		"",
		strings.Repeat("A", 32),
		"deadbeef",
		strings.Repeat("g", 32),
		strings.Repeat("a", 33),
	} {
		err := cv.Validate(P{UserID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !hasField(fe, "user_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestCreateLoanReqValidation(t *testing.T) {
	cv := NewValidator()
	tests := []struct {
		name  string
		req   createLoanReq
		field string
		msg   string
	}{
		{"ok", createLoanReq{Principal: 5000, Rate: 12.5, TermMonths: 12}, "", ""},
		{"zero rate ok", createLoanReq{Principal: 5000, TermMonths: 6}, "", ""},
		{"missing principal", createLoanReq{Rate: 12, TermMonths: 12}, "principal", "is required"},
		{"three decimals", createLoanReq{Principal: 1000.125, Rate: 12, TermMonths: 12}, "principal", "at most 2 decimal places"},
		{"negative rate", createLoanReq{Principal: 1000, Rate: -1, TermMonths: 12}, "rate", "greater than or equal to 0"},
		{"rate above 100", createLoanReq{Principal: 1000, Rate: 101, TermMonths: 12}, "rate", "less than or equal to 100"},
		{"missing term", createLoanReq{Principal: 1000, Rate: 12}, "term_months", "is required"},
		{"long purpose", createLoanReq{Principal: 1000, Rate: 12, TermMonths: 3, Purpose: strings.Repeat("x", 501)}, "purpose", "less than or equal to 500"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := cv.Validate(tc.req)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if fe := ToFieldErrors(err); !hasField(fe, tc.field, tc.msg) {
				t.Fatalf("want %s %q, got %+v", tc.field, tc.msg, fe)
			}
		})
	}
}

func TestRegisterAndInvestReqValidation(t *testing.T) {
	cv := NewValidator()

	err := cv.Validate(registerReq{Role: "lender", Name: "", MonthlyIncome: 10.001})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	fe := ToFieldErrors(err)
	for _, want := range []struct{ field, msg string }{
		{"role", "must be one of: borrower investor"},
		{"name", "is required"},
		{"email", "is required"},
		{"monthly_income", "at most 2 decimal places"},
	} {
		if !hasField(fe, want.field, want.msg) {
			t.Fatalf("missing %s %q in %+v", want.field, want.msg, fe)
		}
	}

	if fe := ToFieldErrors(cv.Validate(investReq{Amount: -5})); !hasField(fe, "amount", "greater than 0") {
		t.Fatalf("negative amount: %+v", fe)
	}
	if err := cv.Validate(investReq{Amount: 250.5}); err != nil {
		t.Fatalf("valid amount rejected: %v", err)
	}
	if fe := ToFieldErrors(cv.Validate(loginReq{Email: "nope", Password: "x"})); !hasField(fe, "email", "valid email") {
		t.Fatalf("bad email: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
