package notification

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypeLoanFunded      Type = "loan_funded"
	TypePaymentReceived Type = "payment_received"
	TypePaymentDue      Type = "payment_due"
	TypeLoanCompleted   Type = "loan_completed"
	TypeLoanDefaulted   Type = "loan_defaulted"
)

type Notification struct {
	ID             uint64            `gorm:"primaryKey;column:id" json:"-"`
	NotificationID string            `gorm:"size:36;uniqueIndex" json:"notification_id"`
	UserID         string            `gorm:"size:32;index" json:"user_id"`
	Type           Type              `gorm:"type:varchar(32)" json:"type"`
	Title          string            `gorm:"size:191" json:"title"`
	Message        string            `gorm:"type:text" json:"message"`
	Data           datatypes.JSONMap `gorm:"type:text" json:"data,omitempty"`
	Read           bool              `gorm:"column:is_read;default:false" json:"read"`
	CreatedAt      time.Time         `json:"created_at"`
	PublishedAt    *time.Time        `gorm:"index" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

// MarkRead is the only mutation a notification goes through after creation.
func (n *Notification) MarkRead() bool {
	if n.Read {
		return false
	}
	n.Read = true
	return true
}
