// Package delinquency runs the periodic sweep over unpaid installments:
// overdue marking, loan defaults past the configured threshold, and
// payment-due reminders.
package delinquency

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"lending-backend/internal/config"
	"lending-backend/internal/domain/investment"
	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/notification"
	"lending-backend/internal/domain/uow"
)

type Report struct {
	MarkedOverdue int      `json:"marked_overdue"`
	Defaulted     []string `json:"defaulted"`
	Reminders     int      `json:"reminders"`
}

type Usecase struct {
	repos  uow.Repos
	uow    uow.UnitOfWork
	policy config.Lending
	emit   notification.Emitter
	now    func() time.Time
	logger *slog.Logger
}

func NewUsecase(r uow.Repos, tx uow.UnitOfWork, policy config.Lending, now func() time.Time, logger *slog.Logger) *Usecase {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{
		repos:  r,
		uow:    tx,
		policy: policy,
		emit:   notification.NewEmitter(now),
		now:    now,
		logger: logger.With("layer", "usecase", "module", "delinquency"),
	}
}

// Sweep finds loans with unpaid installments due before the reminder horizon
// and settles each one under its loan lock, so a payment committed after the
// listing is never overwritten.
func (u *Usecase) Sweep(ctx context.Context) (*Report, error) {
	now := u.now()
	rep := &Report{Defaulted: []string{}}

	horizon := now
	if u.policy.PaymentDueReminderDays > 0 {
		horizon = now.AddDate(0, 0, u.policy.PaymentDueReminderDays)
	}
	candidates, err := u.repos.Installments.ListUnpaidDueBefore(ctx, horizon, 0)
	if err != nil {
		return nil, err
	}
	var loanIDs []string
	seen := map[string]bool{}
	for _, it := range candidates {
		if !seen[it.LoanID] {
			seen[it.LoanID] = true
			loanIDs = append(loanIDs, it.LoanID)
		}
	}
	sort.Strings(loanIDs)

	for _, loanID := range loanIDs {
		res, err := u.sweepLoan(ctx, loanID, now, horizon)
		if err != nil {
			return rep, err
		}
		rep.MarkedOverdue += res.MarkedOverdue
		rep.Reminders += res.Reminders
		rep.Defaulted = append(rep.Defaulted, res.Defaulted...)
	}

	u.logger.InfoContext(ctx, "delinquency sweep finished",
		"operation", "sweep", "marked_overdue", rep.MarkedOverdue,
		"defaulted", len(rep.Defaulted), "reminders", rep.Reminders)
	return rep, nil
}

func (u *Usecase) sweepLoan(ctx context.Context, loanID string, now, horizon time.Time) (Report, error) {
	var res Report
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		res = Report{}
		items, err := r.Installments.ListByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		worst := 0
		for k := range items {
			it := &items[k]
			if it.Status == loan.InstallmentPaid {
				continue
			}
			if loan.MarkOverdue(it, now) {
				if err := r.Installments.Save(ctx, it); err != nil {
					return err
				}
				res.MarkedOverdue++
			}
			if d := it.OverdueDays(now); d > worst {
				worst = d
			}
		}
		if l.State != loan.StateActive {
			return nil
		}
		if worst >= u.policy.DelinquencyThresholdDays {
			if err := u.defaultLoan(ctx, r, l, worst, now); err != nil {
				return err
			}
			res.Defaulted = append(res.Defaulted, l.LoanID)
			return nil
		}
		if u.policy.PaymentDueReminderDays <= 0 {
			return nil
		}
		for k := range items {
			it := &items[k]
			if it.Status != loan.InstallmentPending || it.RemindedAt != nil ||
				it.DueDate.Before(now) || !it.DueDate.Before(horizon) {
				continue
			}
			n := u.emit.PaymentDue(l.BorrowerID, l.LoanID, it.Sequence, it.Amount, it.DueDate)
			if err := r.Notifications.Create(ctx, &n); err != nil {
				return err
			}
			at := now
			it.RemindedAt = &at
			if err := r.Installments.Save(ctx, it); err != nil {
				return err
			}
			res.Reminders++
		}
		return nil
	})
	return res, err
}

// defaultLoan moves an active loan to defaulted and closes its investments.
// It runs inside the caller's loan transaction.
func (u *Usecase) defaultLoan(ctx context.Context, r uow.Repos, l *loan.Loan, days int, now time.Time) error {
	ok, err := loan.Default(l, days, u.policy.DelinquencyThresholdDays, now)
	if err != nil || !ok {
		return err
	}
	if err := r.Loans.Save(ctx, l); err != nil {
		return err
	}
	n := u.emit.LoanDefaulted(l.BorrowerID, l.LoanID, days)
	if err := r.Notifications.Create(ctx, &n); err != nil {
		return err
	}
	invs, err := r.Investments.ListByLoanID(ctx, l.LoanID)
	if err != nil {
		return err
	}
	for k := range invs {
		if !invs[k].Close(investment.StatusDefaulted, now) {
			continue
		}
		if err := r.Investments.Save(ctx, &invs[k]); err != nil {
			return err
		}
		n := u.emit.LoanDefaulted(invs[k].InvestorID, l.LoanID, days)
		if err := r.Notifications.Create(ctx, &n); err != nil {
			return err
		}
	}
	return nil
}

// Run sweeps on every tick until ctx is done.
func (u *Usecase) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		if _, err := u.Sweep(ctx); err != nil && ctx.Err() == nil {
			u.logger.ErrorContext(ctx, "delinquency sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
