package loan

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("loan not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrInvalidTransition   = errors.New("invalid loan state transition")
	ErrOpenLoanExists      = errors.New("borrower already has an open loan")
	ErrInstallmentPaid     = errors.New("installment already paid")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
)

// CapacityError is returned when an investment would push the funded amount
// above the principal. Remaining is what the investor may still contribute.
type CapacityError struct {
	LoanID    string
	Requested float64
	Remaining float64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("loan %s: investment of %.2f exceeds remaining capacity %.2f", e.LoanID, e.Requested, e.Remaining)
}

// StateError is returned when an operation is not allowed in the loan's
// current lifecycle state. It matches ErrInvalidTransition with errors.Is.
type StateError struct {
	LoanID string
	State  State
	Op     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("loan %s: cannot %s while %s", e.LoanID, e.Op, e.State)
}

func (e *StateError) Is(target error) bool { return target == ErrInvalidTransition }
