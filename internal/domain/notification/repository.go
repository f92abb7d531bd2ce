package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByNotificationID(ctx context.Context, notificationID string) (*Notification, error)
	// Newest first
	ListByUserID(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	Save(ctx context.Context, n *Notification) error

	// Dispatch bookkeeping, oldest first
	ListUnpublished(ctx context.Context, limit int) ([]Notification, error)
	MarkPublished(ctx context.Context, notificationID string, at time.Time) error
}
