package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// GetByUserIDForUpdate reads the user row with a write lock held until
	// the surrounding transaction ends.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Save(ctx context.Context, u *User) error
}
