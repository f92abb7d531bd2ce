package investment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lending-backend/internal/config"
	"lending-backend/internal/domain/contract"
	domain "lending-backend/internal/domain/investment"
	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/notification"
	"lending-backend/internal/domain/uow"
	"lending-backend/internal/domain/user"
	"lending-backend/internal/infrastructure/storage"
	"lending-backend/pkg/finance"
	"lending-backend/pkg/id"
	"lending-backend/pkg/validate"

	"gorm.io/gorm"
)

type Usecase struct {
	users     user.Repository
	repos     uow.Repos
	uow       uow.UnitOfWork
	artifacts storage.ArtifactStore
	policy    config.Lending
	emit      notification.Emitter
	now       func() time.Time
	logger    *slog.Logger
}

func NewUsecase(r uow.Repos, tx uow.UnitOfWork, artifacts storage.ArtifactStore, policy config.Lending, now func() time.Time, logger *slog.Logger) *Usecase {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{
		users:     r.Users,
		repos:     r,
		uow:       tx,
		artifacts: artifacts,
		policy:    policy,
		emit:      notification.NewEmitter(now),
		now:       now,
		logger:    logger.With("layer", "usecase", "module", "investment"),
	}
}

// pendingDoc is an agreement to upload once the funding tx has committed.
type pendingDoc struct {
	key  string
	body []byte
}

// Invest records a contribution under the loan's row lock. The contribution
// that completes funding also activates the loan: installments, the agreement
// record and the borrower's loan_funded notification are written in the same
// transaction.
func (u *Usecase) Invest(ctx context.Context, in InvestInput) (*InvestResultDTO, error) {
	investor, err := u.users.GetByUserID(ctx, in.InvestorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	if investor.Role != user.RoleInvestor {
		return nil, user.ErrWrongRole
	}

	var (
		out *InvestResultDTO
		doc *pendingDoc
	)
	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.State.Open() {
			return &loan.StateError{LoanID: l.LoanID, State: l.State, Op: "accept investments"}
		}
		if in.Amount <= 0 {
			return (&validate.Collector{}).Fail("amount", "investment amount must be greater than zero").Err()
		}
		// below the floor is allowed only when it closes out the loan
		if in.Amount < u.policy.MinInvestmentAmount && in.Amount < l.Remaining() {
			return (&validate.Collector{}).Add("amount",
				validate.InvestmentAmount(in.Amount, u.policy.MinInvestmentAmount, l.Remaining())).Err()
		}

		now := u.now()
		transitions, err := loan.ApplyInvestment(l, in.Amount, now)
		if err != nil {
			return err
		}

		inv := &domain.Investment{
			InvestmentID: id.NewID32(),
			InvestorID:   in.InvestorID,
			LoanID:       l.LoanID,
			Amount:       in.Amount,
			Status:       domain.StatusActive,
			StartDate:    now,
		}
		if err := r.Investments.Create(ctx, inv); err != nil {
			return err
		}

		res := &InvestResultDTO{
			Investment:  toDTO(inv, l),
			Transitions: transitions,
		}
		if l.State == loan.StateActive {
			c, d, err := u.activate(ctx, r, l, now)
			if err != nil {
				return err
			}
			res.ContractID = c.ContractID
			doc = d
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		res.LoanState = string(l.State)
		res.FundingProgress = l.FundingProgress
		res.Remaining = l.Remaining()
		out = res
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}

	if doc != nil {
		// after commit; lendctl contracts render re-uploads a missing document
		if err := u.artifacts.Put(ctx, doc.key, doc.body, "application/json"); err != nil {
			u.logger.ErrorContext(ctx, "agreement upload failed",
				"operation", "invest", "loan_id", in.LoanID, "key", doc.key, "error", err)
		}
	}
	u.logger.InfoContext(ctx, "investment recorded",
		"operation", "invest", "loan_id", in.LoanID, "investment_id", out.Investment.InvestmentID,
		"amount", in.Amount, "loan_state", out.LoanState)
	return out, nil
}

func (u *Usecase) activate(ctx context.Context, r uow.Repos, l *loan.Loan, now time.Time) (*contract.Contract, *pendingDoc, error) {
	items, err := loan.GenerateInstallments(l, now)
	if err != nil {
		return nil, nil, err
	}
	if err := r.Installments.CreateBatch(ctx, items); err != nil {
		return nil, nil, err
	}

	invs, err := r.Investments.ListByLoanID(ctx, l.LoanID)
	if err != nil {
		return nil, nil, err
	}
	contractID := id.NewID32()
	body, err := contract.NewDocument(contractID, l, invs, items, now).Marshal()
	if err != nil {
		return nil, nil, err
	}

	c := &contract.Contract{
		ContractID:  contractID,
		LoanID:      l.ID,
		BorrowerID:  l.BorrowerID,
		DocumentKey: contract.DocumentKey(l.LoanID, contractID),
		SignedAt:    now,
	}
	if err := r.Contracts.Create(ctx, c); err != nil {
		return nil, nil, err
	}
	l.AgreementLink = c.DocumentKey

	n := u.emit.LoanFunded(l.BorrowerID, l.LoanID, l.Principal)
	if err := r.Notifications.Create(ctx, &n); err != nil {
		return nil, nil, err
	}
	return c, &pendingDoc{key: c.DocumentKey, body: body}, nil
}

// ListByInvestor returns the investor's contributions, newest first, each with
// its expected return derived from the loan terms.
func (u *Usecase) ListByInvestor(ctx context.Context, investorID string) ([]InvestmentDTO, error) {
	invs, err := u.repos.Investments.ListByInvestorID(ctx, investorID)
	if err != nil {
		return nil, err
	}
	loans := map[string]*loan.Loan{}
	out := make([]InvestmentDTO, 0, len(invs))
	for k := range invs {
		l, ok := loans[invs[k].LoanID]
		if !ok {
			l, err = u.repos.Loans.GetByLoanID(ctx, invs[k].LoanID)
			if err != nil {
				return nil, fmt.Errorf("investment %s: %w", invs[k].InvestmentID, err)
			}
			loans[l.LoanID] = l
		}
		out = append(out, toDTO(&invs[k], l))
	}
	return out, nil
}

func (u *Usecase) Returns(ctx context.Context, investmentID string) ([]domain.MonthlyReturn, error) {
	if _, err := u.repos.Investments.GetByInvestmentID(ctx, investmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	rets, err := u.repos.Investments.ListReturns(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	if rets == nil {
		rets = []domain.MonthlyReturn{}
	}
	return rets, nil
}

func toDTO(i *domain.Investment, l *loan.Loan) InvestmentDTO {
	dto := InvestmentDTO{
		InvestmentID: i.InvestmentID,
		InvestorID:   i.InvestorID,
		LoanID:       i.LoanID,
		Amount:       i.Amount,
		ActualReturn: i.ActualReturn,
		Status:       string(i.Status),
		StartDate:    i.StartDate,
		EndDate:      i.EndDate,
	}
	if exp, err := finance.ExpectedReturn(i.Amount, l.Rate, l.TermMonths); err == nil {
		dto.ExpectedReturn = exp
	}
	return dto
}
