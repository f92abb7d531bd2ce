package mysql

import (
	"context"
	"time"

	notifDomain "lending-backend/internal/domain/notification"

	"gorm.io/gorm"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notifDomain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) GetByNotificationID(ctx context.Context, notificationID string) (*notifDomain.Notification, error) {
	var out notifDomain.Notification
	res := r.db.WithContext(ctx).Where("notification_id = ?", notificationID).First(&out)
	return &out, res.Error
}

func (r *NotificationRepository) ListByUserID(ctx context.Context, userID string, unreadOnly bool) ([]notifDomain.Notification, error) {
	var out []notifDomain.Notification
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	return out, q.Order("created_at DESC, id DESC").Find(&out).Error
}

func (r *NotificationRepository) Save(ctx context.Context, n *notifDomain.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *NotificationRepository) ListUnpublished(ctx context.Context, limit int) ([]notifDomain.Notification, error) {
	var out []notifDomain.Notification
	q := r.db.WithContext(ctx).Where("published_at IS NULL").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

func (r *NotificationRepository) MarkPublished(ctx context.Context, notificationID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&notifDomain.Notification{}).
		Where("notification_id = ?", notificationID).
		Update("published_at", at).Error
}
