package notification

import (
	"fmt"
	"time"

	"lending-backend/pkg/id"

	"gorm.io/datatypes"
)

// Emitter builds notification records for lifecycle events. It only
// constructs values; persisting and delivering them is up to the caller.
type Emitter struct {
	Now func() time.Time
}

func NewEmitter(now func() time.Time) Emitter {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return Emitter{Now: now}
}

func (e Emitter) build(userID string, t Type, title, msg string, data datatypes.JSONMap) Notification {
	return Notification{
		NotificationID: id.NewEventID(),
		UserID:         userID,
		Type:           t,
		Title:          title,
		Message:        msg,
		Data:           data,
		CreatedAt:      e.Now(),
	}
}

func (e Emitter) LoanFunded(borrowerID, loanID string, principal float64) Notification {
	return e.build(borrowerID, TypeLoanFunded,
		"Loan fully funded",
		fmt.Sprintf("Your loan of %.2f has been fully funded and is now active.", principal),
		datatypes.JSONMap{"loan_id": loanID, "amount": principal})
}

func (e Emitter) PaymentReceived(investorID, loanID string, sequence int, amount float64) Notification {
	return e.build(investorID, TypePaymentReceived,
		"Payment received",
		fmt.Sprintf("You received %.2f from installment %d.", amount, sequence),
		datatypes.JSONMap{"loan_id": loanID, "sequence": sequence, "amount": amount})
}

func (e Emitter) PaymentDue(borrowerID, loanID string, sequence int, amount float64, due time.Time) Notification {
	return e.build(borrowerID, TypePaymentDue,
		"Payment due",
		fmt.Sprintf("Installment %d of %.2f is due on %s.", sequence, amount, due.Format("2006-01-02")),
		datatypes.JSONMap{"loan_id": loanID, "sequence": sequence, "amount": amount, "due_date": due.Format(time.RFC3339)})
}

func (e Emitter) LoanCompleted(userID, loanID string) Notification {
	return e.build(userID, TypeLoanCompleted,
		"Loan completed",
		"All installments have been paid.",
		datatypes.JSONMap{"loan_id": loanID})
}

func (e Emitter) LoanDefaulted(userID, loanID string, overdueDays int) Notification {
	return e.build(userID, TypeLoanDefaulted,
		"Loan defaulted",
		fmt.Sprintf("The loan is in default after %d days overdue.", overdueDays),
		datatypes.JSONMap{"loan_id": loanID, "overdue_days": overdueDays})
}
