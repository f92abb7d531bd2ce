package repayment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lending-backend/internal/domain/investment"
	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/notification"
	"lending-backend/internal/domain/uow"

	"gorm.io/gorm"
)

var ErrNotBorrower = errors.New("only the loan's borrower can pay its installments")

type Usecase struct {
	uow    uow.UnitOfWork
	emit   notification.Emitter
	now    func() time.Time
	logger *slog.Logger
}

func NewUsecase(tx uow.UnitOfWork, now func() time.Time, logger *slog.Logger) *Usecase {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{
		uow:    tx,
		emit:   notification.NewEmitter(now),
		now:    now,
		logger: logger.With("layer", "usecase", "module", "repayment"),
	}
}

// Pay settles one installment and splits it across the loan's investors in
// proportion to their contribution. Paying the last open installment
// completes the loan and its investments.
func (u *Usecase) Pay(ctx context.Context, in PayInput) (*PaymentDTO, error) {
	var out *PaymentDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if in.PayerID != "" && in.PayerID != l.BorrowerID {
			return ErrNotBorrower
		}
		if l.State != loan.StateActive {
			return &loan.StateError{LoanID: l.LoanID, State: l.State, Op: "accept payments"}
		}
		it, err := r.Installments.GetBySequence(ctx, l.LoanID, in.Sequence)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrInstallmentNotFound
			}
			return err
		}
		now := u.now()
		if err := loan.MarkPaid(it, now); err != nil {
			return err
		}
		if err := r.Installments.Save(ctx, it); err != nil {
			return err
		}

		invs, err := r.Investments.ListByLoanID(ctx, l.LoanID)
		if err != nil {
			return err
		}
		dto := &PaymentDTO{
			LoanID:        l.LoanID,
			Sequence:      it.Sequence,
			Amount:        it.Amount,
			PaidAt:        now,
			Distributions: make([]Distribution, 0, len(invs)),
		}
		for k := range invs {
			inv := &invs[k]
			ret := inv.Credit(it.Sequence, it.Amount, it.PrincipalPart, it.InterestPart, l.Principal, now)
			if err := r.Investments.AddReturn(ctx, &ret); err != nil {
				return err
			}
			if err := r.Investments.Save(ctx, inv); err != nil {
				return err
			}
			n := u.emit.PaymentReceived(inv.InvestorID, l.LoanID, it.Sequence, ret.Amount)
			if err := r.Notifications.Create(ctx, &n); err != nil {
				return err
			}
			dto.Distributions = append(dto.Distributions, Distribution{
				InvestmentID: inv.InvestmentID,
				InvestorID:   inv.InvestorID,
				Amount:       ret.Amount,
				Principal:    ret.Principal,
				Interest:     ret.Interest,
			})
		}

		items, err := r.Installments.ListByLoanID(ctx, l.LoanID)
		if err != nil {
			return err
		}
		for _, x := range items {
			if x.Status != loan.InstallmentPaid {
				dto.Remaining++
			}
		}
		done, err := loan.Complete(l, items, now)
		if err != nil {
			return err
		}
		if done {
			if err := u.closeOut(ctx, r, l, invs, now); err != nil {
				return err
			}
		}
		dto.LoanState = string(l.State)
		out = dto
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	u.logger.InfoContext(ctx, "installment paid",
		"operation", "pay", "loan_id", out.LoanID, "sequence", out.Sequence, "loan_state", out.LoanState)
	return out, nil
}

func (u *Usecase) closeOut(ctx context.Context, r uow.Repos, l *loan.Loan, invs []investment.Investment, now time.Time) error {
	if err := r.Loans.Save(ctx, l); err != nil {
		return err
	}
	n := u.emit.LoanCompleted(l.BorrowerID, l.LoanID)
	if err := r.Notifications.Create(ctx, &n); err != nil {
		return err
	}
	for k := range invs {
		if !invs[k].Close(investment.StatusCompleted, now) {
			continue
		}
		if err := r.Investments.Save(ctx, &invs[k]); err != nil {
			return err
		}
		n := u.emit.LoanCompleted(invs[k].InvestorID, l.LoanID)
		if err := r.Notifications.Create(ctx, &n); err != nil {
			return err
		}
	}
	return nil
}
