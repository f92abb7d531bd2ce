package portfolio

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domain "lending-backend/internal/domain/portfolio"
	"lending-backend/internal/domain/uow"
	"lending-backend/internal/domain/user"

	"gorm.io/gorm"
)

// Cache is the read-through store for market metrics.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

const marketKey = "metrics:market"

type Usecase struct {
	repos  uow.Repos
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewUsecase accepts a nil cache; market metrics are then computed per call.
func NewUsecase(r uow.Repos, cache Cache, ttl time.Duration, logger *slog.Logger) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{repos: r, cache: cache, ttl: ttl, logger: logger.With("layer", "usecase", "module", "portfolio")}
}

func (u *Usecase) Borrower(ctx context.Context, userID string) (*domain.BorrowerMetrics, error) {
	if err := u.requireRole(ctx, userID, user.RoleBorrower); err != nil {
		return nil, err
	}
	ls, err := u.repos.Loans.ListByBorrowerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := domain.Borrower(ls)
	return &m, nil
}

func (u *Usecase) Investor(ctx context.Context, userID string) (*domain.InvestorMetrics, error) {
	if err := u.requireRole(ctx, userID, user.RoleInvestor); err != nil {
		return nil, err
	}
	invs, err := u.repos.Investments.ListByInvestorID(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := domain.Investor(invs)
	return &m, nil
}

func (u *Usecase) Market(ctx context.Context) (*domain.MarketMetrics, error) {
	var m domain.MarketMetrics
	if u.cache != nil {
		hit, err := u.cache.Get(ctx, marketKey, &m)
		if err != nil {
			u.logger.WarnContext(ctx, "market metrics cache read failed", "error", err)
		} else if hit {
			return &m, nil
		}
	}
	ls, err := u.repos.Loans.ListByStates(ctx, nil, 0)
	if err != nil {
		return nil, err
	}
	us, err := u.repos.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	m = domain.Market(ls, us)
	if u.cache != nil && u.ttl > 0 {
		if err := u.cache.Set(ctx, marketKey, m, u.ttl); err != nil {
			u.logger.WarnContext(ctx, "market metrics cache write failed", "error", err)
		}
	}
	return &m, nil
}

func (u *Usecase) requireRole(ctx context.Context, userID string, role user.Role) error {
	usr, err := u.repos.Users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.ErrNotFound
		}
		return err
	}
	if usr.Role != role {
		return user.ErrWrongRole
	}
	return nil
}
