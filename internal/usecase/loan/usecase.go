package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lending-backend/internal/config"
	"lending-backend/internal/domain/contract"
	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/uow"
	"lending-backend/internal/domain/user"
	"lending-backend/internal/infrastructure/storage"
	"lending-backend/pkg/finance"
	"lending-backend/pkg/id"
	"lending-backend/pkg/risk"
	"lending-backend/pkg/validate"

	"gorm.io/gorm"
)

const maxRatePercent = 100

type Usecase struct {
	repos      uow.Repos
	uow        uow.UnitOfWork
	artifacts  storage.ArtifactStore
	policy     config.Lending
	now        func() time.Time
	presignTTL time.Duration
}

func NewUsecase(r uow.Repos, tx uow.UnitOfWork, artifacts storage.ArtifactStore, policy config.Lending, now func() time.Time) *Usecase {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Usecase{repos: r, uow: tx, artifacts: artifacts, policy: policy, now: now, presignTTL: 15 * time.Minute}
}

func (u *Usecase) WithPresignTTL(ttl time.Duration) *Usecase {
	if ttl > 0 {
		u.presignTTL = ttl
	}
	return u
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	var dto *LoanDTO
	// The borrower row lock serializes creates per borrower so the open-loan
	// check and the insert see the same state.
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		borrower, err := r.Users.GetByUserIDForUpdate(ctx, in.BorrowerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}
		if borrower.Role != user.RoleBorrower {
			return user.ErrWrongRole
		}
		if err := u.validateCreate(borrower, in); err != nil {
			return err
		}

		// Block if the borrower already has a loan still collecting funds.
		switch open, err := r.Loans.GetOpenLoanByBorrowerID(ctx, in.BorrowerID); {
		case err == nil:
			return fmt.Errorf("%w: %s", loan.ErrOpenLoanExists, open.LoanID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		pmt, err := finance.MonthlyPayment(in.Principal, in.Rate, in.TermMonths)
		if err != nil {
			return err
		}

		now := u.now()
		l := &loan.Loan{
			LoanID:         id.NewID32(),
			BorrowerID:     in.BorrowerID,
			Principal:      in.Principal,
			Rate:           in.Rate,
			TermMonths:     in.TermMonths,
			Purpose:        in.Purpose,
			State:          loan.StatePending,
			CreditScore:    borrower.CreditScore,
			RiskTier:       string(risk.LoanRisk(borrower.CreditScore, borrower.MonthlyIncome, in.Principal)),
			StateUpdatedAt: now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		dto.MonthlyPayment = pmt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) validateCreate(borrower *user.User, in CreateLoanInput) error {
	var v validate.Collector
	v.Add("principal", validate.LoanAmount(in.Principal, u.policy.MinLoanAmount, u.policy.MaxLoanAmount))
	if borrower.CreditLimit > 0 && in.Principal > borrower.CreditLimit {
		v.Fail("principal", fmt.Sprintf("loan amount exceeds credit limit %.2f", borrower.CreditLimit))
	}
	if in.Rate < 0 || in.Rate > maxRatePercent {
		v.Fail("rate", "rate must be between 0 and 100 percent")
	}
	if in.TermMonths < 1 || in.TermMonths > u.policy.MaxTermMonths {
		v.Fail("term_months", fmt.Sprintf("term must be between 1 and %d months", u.policy.MaxTermMonths))
	}
	return v.Err()
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDetailDTO, error) {
	l, err := u.load(ctx, loanID)
	if err != nil {
		return nil, err
	}
	invs, err := u.repos.Investments.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	items, err := u.repos.Installments.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := &LoanDetailDTO{LoanDTO: *u.quoted(l), Installments: items, Investments: make([]Contribution, 0, len(invs))}
	for _, i := range invs {
		out.Investments = append(out.Investments, Contribution{
			InvestmentID: i.InvestmentID,
			InvestorID:   i.InvestorID,
			Amount:       i.Amount,
			Status:       string(i.Status),
			StartDate:    i.StartDate,
		})
	}
	if out.Installments == nil {
		out.Installments = []loan.Installment{}
	}
	return out, nil
}

// List is the marketplace view: loans still open for funding unless a state
// filter is given.
func (u *Usecase) List(ctx context.Context, in ListInput) ([]LoanDTO, error) {
	states := []loan.State{loan.StatePending, loan.StateFunding}
	if in.State != "" {
		st, ok := loan.ParseState(in.State)
		if !ok {
			return nil, (&validate.Collector{}).Fail("state", fmt.Sprintf("unknown loan state %q", in.State)).Err()
		}
		states = []loan.State{st}
	}
	ls, err := u.repos.Loans.ListByStates(ctx, states, in.Limit)
	if err != nil {
		return nil, err
	}
	return u.quoteAll(ls), nil
}

func (u *Usecase) ListByBorrower(ctx context.Context, borrowerID string) ([]LoanDTO, error) {
	ls, err := u.repos.Loans.ListByBorrowerID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	return u.quoteAll(ls), nil
}

// Schedule returns the persisted installments for funded loans and a quote
// starting today otherwise.
func (u *Usecase) Schedule(ctx context.Context, loanID string) (*ScheduleDTO, error) {
	l, err := u.load(ctx, loanID)
	if err != nil {
		return nil, err
	}
	start := u.now()
	if !l.State.Open() {
		start = l.StateUpdatedAt
	}
	rows, err := finance.Schedule(l.Principal, l.Rate, l.TermMonths, start)
	if err != nil {
		return nil, err
	}
	if !l.State.Open() {
		items, err := u.repos.Installments.ListByLoanID(ctx, loanID)
		if err != nil {
			return nil, err
		}
		for k := range items {
			if k < len(rows) {
				rows[k].DueDate = items[k].DueDate
			}
		}
	}
	out := &ScheduleDTO{LoanID: l.LoanID, Payments: rows}
	amounts := make([]float64, 0, len(rows))
	interest := make([]float64, 0, len(rows))
	for _, r := range rows {
		amounts = append(amounts, r.Amount)
		interest = append(interest, r.Interest)
	}
	if len(rows) > 0 {
		out.MonthlyPayment = rows[0].Amount
	}
	out.TotalPayable = finance.Sum(amounts...)
	out.TotalInterest = finance.Sum(interest...)
	return out, nil
}

var ErrContractNotReady = errors.New("loan has no agreement until it is fully funded")

func (u *Usecase) ContractLink(ctx context.Context, loanID string) (*ContractLinkDTO, error) {
	l, err := u.load(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.State.Open() {
		return nil, ErrContractNotReady
	}
	c, err := u.repos.Contracts.GetByLoanID(ctx, l.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.ErrNotFound
		}
		return nil, err
	}
	url, err := u.artifacts.PresignGet(ctx, c.DocumentKey, u.presignTTL)
	if err != nil {
		return nil, err
	}
	return &ContractLinkDTO{
		LoanID:     l.LoanID,
		ContractID: c.ContractID,
		URL:        url,
		ExpiresAt:  u.now().Add(u.presignTTL),
	}, nil
}

// RenderContract rebuilds the agreement document of an activated loan from
// stored rows and uploads it again under the same key.
func (u *Usecase) RenderContract(ctx context.Context, loanID string) (string, error) {
	l, err := u.load(ctx, loanID)
	if err != nil {
		return "", err
	}
	if l.State.Open() {
		return "", ErrContractNotReady
	}
	c, err := u.repos.Contracts.GetByLoanID(ctx, l.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", contract.ErrNotFound
		}
		return "", err
	}
	invs, err := u.repos.Investments.ListByLoanID(ctx, loanID)
	if err != nil {
		return "", err
	}
	items, err := u.repos.Installments.ListByLoanID(ctx, loanID)
	if err != nil {
		return "", err
	}
	body, err := contract.NewDocument(c.ContractID, l, invs, items, c.SignedAt).Marshal()
	if err != nil {
		return "", err
	}
	if err := u.artifacts.Put(ctx, c.DocumentKey, body, "application/json"); err != nil {
		return "", err
	}
	return c.DocumentKey, nil
}

func (u *Usecase) load(ctx context.Context, loanID string) (*loan.Loan, error) {
	l, err := u.repos.Loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (u *Usecase) quoted(l *loan.Loan) *LoanDTO {
	dto := toDTO(l)
	// stored loans always passed validation; a failure here leaves the quote at 0
	if pmt, err := finance.MonthlyPayment(l.Principal, l.Rate, l.TermMonths); err == nil {
		dto.MonthlyPayment = pmt
	}
	return dto
}

func (u *Usecase) quoteAll(ls []loan.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(ls))
	for k := range ls {
		out = append(out, *u.quoted(&ls[k]))
	}
	return out
}

func toDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:          l.LoanID,
		BorrowerID:      l.BorrowerID,
		Principal:       l.Principal,
		Rate:            l.Rate,
		TermMonths:      l.TermMonths,
		Purpose:         l.Purpose,
		State:           string(l.State),
		CreditScore:     l.CreditScore,
		RiskTier:        l.RiskTier,
		FundedAmount:    l.FundedAmount,
		FundingProgress: l.FundingProgress,
		Remaining:       l.Remaining(),
		CreatedAt:       l.CreatedAt,
	}
}
