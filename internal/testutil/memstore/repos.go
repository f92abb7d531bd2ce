package memstore

import (
	"context"
	"sort"
	"time"

	"lending-backend/internal/domain/contract"
	"lending-backend/internal/domain/investment"
	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/notification"
	"lending-backend/internal/domain/user"

	"gorm.io/gorm"
)

type Loans struct{ s *Store }

func (r *Loans) Create(_ context.Context, l *loan.Loan) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.d.loans {
		if x.LoanID == l.LoanID {
			return gorm.ErrDuplicatedKey
		}
	}
	l.ID = s.nextID()
	now := s.Now()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	s.d.loans = append(s.d.loans, *l)
	return nil
}

func (r *Loans) find(loanID string) (*loan.Loan, error) {
	for i := range r.s.d.loans {
		if r.s.d.loans[i].LoanID == loanID {
			out := r.s.d.loans[i]
			return &out, nil
		}
	}
	return nil, errNotFound
}

func (r *Loans) GetByLoanID(_ context.Context, loanID string) (*loan.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(loanID)
}

// Row locking is provided by the store-wide transaction lock.
func (r *Loans) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loan.Loan, error) {
	return r.GetByLoanID(ctx, loanID)
}

func (r *Loans) GetOpenLoanByBorrowerID(_ context.Context, borrowerID string) (*loan.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *loan.Loan
	for _, l := range r.s.d.loans {
		if l.BorrowerID != borrowerID || !l.State.Open() {
			continue
		}
		if best == nil || l.StateUpdatedAt.After(best.StateUpdatedAt) ||
			(l.StateUpdatedAt.Equal(best.StateUpdatedAt) && l.ID > best.ID) {
			c := l
			best = &c
		}
	}
	if best == nil {
		return nil, errNotFound
	}
	return best, nil
}

func (r *Loans) ListByBorrowerID(_ context.Context, borrowerID string) ([]loan.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []loan.Loan
	for _, l := range r.s.d.loans {
		if l.BorrowerID == borrowerID {
			out = append(out, l)
		}
	}
	newestFirst(out, func(l loan.Loan) time.Time { return l.CreatedAt }, func(l loan.Loan) uint64 { return l.ID })
	return out, nil
}

func (r *Loans) ListByStates(_ context.Context, states []loan.State, limit int) ([]loan.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := map[loan.State]bool{}
	for _, st := range states {
		want[st] = true
	}
	var out []loan.Loan
	for _, l := range r.s.d.loans {
		if len(want) == 0 || want[l.State] {
			out = append(out, l)
		}
	}
	newestFirst(out, func(l loan.Loan) time.Time { return l.CreatedAt }, func(l loan.Loan) uint64 { return l.ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Loans) Save(_ context.Context, l *loan.Loan) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.d.loans {
		if s.d.loans[i].ID == l.ID {
			l.UpdatedAt = s.Now()
			s.d.loans[i] = *l
			return nil
		}
	}
	return errNotFound
}

type Installments struct{ s *Store }

func (r *Installments) CreateBatch(_ context.Context, items []loan.Installment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range items {
		for _, x := range s.d.installments {
			if x.LoanID == items[k].LoanID && x.Sequence == items[k].Sequence {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	for k := range items {
		items[k].ID = s.nextID()
		items[k].CreatedAt = s.Now()
		items[k].UpdatedAt = items[k].CreatedAt
		s.d.installments = append(s.d.installments, items[k])
	}
	return nil
}

func (r *Installments) ListByLoanID(_ context.Context, loanID string) ([]loan.Installment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []loan.Installment
	for _, i := range r.s.d.installments {
		if i.LoanID == loanID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Sequence < out[b].Sequence })
	return out, nil
}

func (r *Installments) GetBySequence(_ context.Context, loanID string, seq int) (*loan.Installment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.d.installments {
		if i.LoanID == loanID && i.Sequence == seq {
			out := i
			return &out, nil
		}
	}
	return nil, errNotFound
}

func (r *Installments) ListUnpaidDueBefore(_ context.Context, before time.Time, limit int) ([]loan.Installment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []loan.Installment
	for _, i := range r.s.d.installments {
		if i.Status != loan.InstallmentPaid && i.DueDate.Before(before) {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].DueDate.Equal(out[b].DueDate) {
			return out[a].DueDate.Before(out[b].DueDate)
		}
		return out[a].ID < out[b].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Installments) Save(_ context.Context, it *loan.Installment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.d.installments {
		if s.d.installments[k].ID == it.ID {
			it.UpdatedAt = s.Now()
			s.d.installments[k] = *it
			return nil
		}
	}
	return errNotFound
}

type Investments struct{ s *Store }

func (r *Investments) Create(_ context.Context, i *investment.Investment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	i.ID = s.nextID()
	i.CreatedAt = s.Now()
	i.UpdatedAt = i.CreatedAt
	s.d.investments = append(s.d.investments, *i)
	return nil
}

func (r *Investments) GetByInvestmentID(_ context.Context, investmentID string) (*investment.Investment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.d.investments {
		if i.InvestmentID == investmentID {
			out := i
			return &out, nil
		}
	}
	return nil, errNotFound
}

func (r *Investments) ListByLoanID(_ context.Context, loanID string) ([]investment.Investment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []investment.Investment
	for _, i := range r.s.d.investments {
		if i.LoanID == loanID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *Investments) ListByInvestorID(_ context.Context, investorID string) ([]investment.Investment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []investment.Investment
	for k := len(r.s.d.investments) - 1; k >= 0; k-- {
		if i := r.s.d.investments[k]; i.InvestorID == investorID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *Investments) Save(_ context.Context, i *investment.Investment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.d.investments {
		if s.d.investments[k].ID == i.ID {
			i.UpdatedAt = s.Now()
			s.d.investments[k] = *i
			return nil
		}
	}
	return errNotFound
}

func (r *Investments) AddReturn(_ context.Context, ret *investment.MonthlyReturn) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.d.returns {
		if x.InvestmentID == ret.InvestmentID && x.Sequence == ret.Sequence {
			return gorm.ErrDuplicatedKey
		}
	}
	ret.ID = s.nextID()
	s.d.returns = append(s.d.returns, *ret)
	return nil
}

func (r *Investments) ListReturns(_ context.Context, investmentID string) ([]investment.MonthlyReturn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []investment.MonthlyReturn
	for _, x := range r.s.d.returns {
		if x.InvestmentID == investmentID {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Sequence < out[b].Sequence })
	return out, nil
}

type Notifications struct{ s *Store }

func (r *Notifications) Create(_ context.Context, n *notification.Notification) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.nextID()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.Now()
	}
	s.d.notifications = append(s.d.notifications, *n)
	return nil
}

func (r *Notifications) GetByNotificationID(_ context.Context, notificationID string) (*notification.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.d.notifications {
		if n.NotificationID == notificationID {
			out := n
			return &out, nil
		}
	}
	return nil, errNotFound
}

func (r *Notifications) ListByUserID(_ context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []notification.Notification
	for _, n := range r.s.d.notifications {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	newestFirst(out, func(n notification.Notification) time.Time { return n.CreatedAt },
		func(n notification.Notification) uint64 { return n.ID })
	return out, nil
}

func (r *Notifications) Save(_ context.Context, n *notification.Notification) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.d.notifications {
		if s.d.notifications[k].NotificationID == n.NotificationID {
			s.d.notifications[k] = *n
			return nil
		}
	}
	return errNotFound
}

func (r *Notifications) ListUnpublished(_ context.Context, limit int) ([]notification.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []notification.Notification
	for _, n := range r.s.d.notifications {
		if n.PublishedAt == nil {
			out = append(out, n)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *Notifications) MarkPublished(_ context.Context, notificationID string, at time.Time) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.d.notifications {
		if s.d.notifications[k].NotificationID == notificationID {
			t := at
			s.d.notifications[k].PublishedAt = &t
			return nil
		}
	}
	return nil
}

type Contracts struct{ s *Store }

func (r *Contracts) Create(_ context.Context, c *contract.Contract) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.d.contracts {
		if x.LoanID == c.LoanID {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = s.nextID()
	c.CreatedAt = s.Now()
	c.UpdatedAt = c.CreatedAt
	s.d.contracts = append(s.d.contracts, *c)
	return nil
}

func (r *Contracts) GetByLoanID(_ context.Context, loanNumericID uint64) (*contract.Contract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.d.contracts {
		if c.LoanID == loanNumericID {
			out := c
			return &out, nil
		}
	}
	return nil, errNotFound
}

func (r *Contracts) GetByContractID(_ context.Context, contractID string) (*contract.Contract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.d.contracts {
		if c.ContractID == contractID {
			out := c
			return &out, nil
		}
	}
	return nil, errNotFound
}

type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, u *user.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.d.users {
		if x.Email == u.Email || x.UserID == u.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = s.nextID()
	u.CreatedAt = s.Now()
	u.UpdatedAt = u.CreatedAt
	s.d.users = append(s.d.users, *u)
	return nil
}

func (r *Users) GetByUserID(_ context.Context, userID string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.d.users {
		if u.UserID == userID {
			out := u
			return &out, nil
		}
	}
	return nil, errNotFound
}

// GetByUserIDForUpdate is a plain read; WithinTx already serializes writers.
func (r *Users) GetByUserIDForUpdate(ctx context.Context, userID string) (*user.User, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *Users) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.d.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, errNotFound
}

func (r *Users) List(_ context.Context) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]user.User(nil), r.s.d.users...), nil
}

func (r *Users) Save(_ context.Context, u *user.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.d.users {
		if s.d.users[k].ID == u.ID {
			u.UpdatedAt = s.Now()
			s.d.users[k] = *u
			return nil
		}
	}
	return errNotFound
}
