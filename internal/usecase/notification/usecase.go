package notification

import (
	"context"
	"errors"

	domain "lending-backend/internal/domain/notification"

	"gorm.io/gorm"
)

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

func (u *Usecase) List(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	out, err := u.repo.ListByUserID(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Notification{}
	}
	return out, nil
}

// MarkRead flags the caller's own notification as read. Someone else's
// notification is reported as not found.
func (u *Usecase) MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	n, err := u.repo.GetByNotificationID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if n.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if n.MarkRead() {
		if err := u.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	return n, nil
}
