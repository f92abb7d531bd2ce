// Package memstore is an in-memory implementation of every repository and of
// uow.UnitOfWork. Transactions are serialized and roll back on error, which
// matches what the gorm adapter guarantees for row-locked loan updates.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"lending-backend/internal/domain/contract"
	"lending-backend/internal/domain/investment"
	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/notification"
	"lending-backend/internal/domain/uow"
	"lending-backend/internal/domain/user"

	"gorm.io/gorm"
)

type data struct {
	loans         []loan.Loan
	installments  []loan.Installment
	investments   []investment.Investment
	returns       []investment.MonthlyReturn
	notifications []notification.Notification
	contracts     []contract.Contract
	users         []user.User
}

func (d data) clone() data {
	return data{
		loans:         append([]loan.Loan(nil), d.loans...),
		installments:  append([]loan.Installment(nil), d.installments...),
		investments:   append([]investment.Investment(nil), d.investments...),
		returns:       append([]investment.MonthlyReturn(nil), d.returns...),
		notifications: append([]notification.Notification(nil), d.notifications...),
		contracts:     append([]contract.Contract(nil), d.contracts...),
		users:         append([]user.User(nil), d.users...),
	}
}

type Store struct {
	txMu sync.Mutex // one transaction at a time
	mu   sync.Mutex // guards d and seq
	d    data
	seq  uint64

	// Now stamps created/updated timestamps; defaults to time.Now.
	Now func() time.Time
	// Hooks run at the start of WithinLoanTx after the lock is held.
	OnLoanLocked func(loanID string)
}

func New() *Store { return &Store{Now: func() time.Time { return time.Now().UTC() }} }

func (s *Store) nextID() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) Repos() uow.Repos {
	return uow.Repos{
		Loans:         &Loans{s: s},
		Installments:  &Installments{s: s},
		Investments:   &Investments{s: s},
		Notifications: &Notifications{s: s},
		Contracts:     &Contracts{s: s},
		Users:         &Users{s: s},
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.run(func() error { return fn(s.Repos()) })
}

func (s *Store) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if s.OnLoanLocked != nil {
		s.OnLoanLocked(loanID)
	}
	return s.run(func() error {
		r := s.Repos()
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

func (s *Store) run(fn func() error) error {
	s.mu.Lock()
	snap := s.d.clone()
	s.mu.Unlock()
	if err := fn(); err != nil {
		s.mu.Lock()
		s.d = snap
		s.mu.Unlock()
		return err
	}
	return nil
}

// Snapshot accessors for assertions.

func (s *Store) AllLoans() []loan.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]loan.Loan(nil), s.d.loans...)
}

func (s *Store) AllNotifications() []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Notification(nil), s.d.notifications...)
}

func (s *Store) AllInvestments() []investment.Investment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]investment.Investment(nil), s.d.investments...)
}

func newestFirst[T any](items []T, at func(T) time.Time, id func(T) uint64) {
	sort.SliceStable(items, func(i, j int) bool {
		ai, aj := at(items[i]), at(items[j])
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return id(items[i]) > id(items[j])
	})
}

var errNotFound = gorm.ErrRecordNotFound
