package mysql

import (
	"context"
	"time"

	loanDomain "lending-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

// SELECT ... FOR UPDATE; only meaningful inside a transaction.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower_id = ? AND state IN ?", borrowerID, []loanDomain.State{loanDomain.StatePending, loanDomain.StateFunding}).
		Order("state_updated_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByStates(ctx context.Context, states []loanDomain.State, limit int) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if len(states) > 0 {
		q = q.Where("state IN ?", states)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

type InstallmentRepository struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) CreateBatch(ctx context.Context, items []loanDomain.Installment) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *InstallmentRepository) ListByLoanID(ctx context.Context, loanID string) ([]loanDomain.Installment, error) {
	var out []loanDomain.Installment
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("sequence ASC").Find(&out)
	return out, res.Error
}

func (r *InstallmentRepository) GetBySequence(ctx context.Context, loanID string, seq int) (*loanDomain.Installment, error) {
	var out loanDomain.Installment
	res := r.db.WithContext(ctx).Where("loan_id = ? AND sequence = ?", loanID, seq).First(&out)
	return &out, res.Error
}

func (r *InstallmentRepository) ListUnpaidDueBefore(ctx context.Context, before time.Time, limit int) ([]loanDomain.Installment, error) {
	var out []loanDomain.Installment
	q := r.db.WithContext(ctx).
		Where("status <> ? AND due_date < ?", loanDomain.InstallmentPaid, before).
		Order("due_date ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

func (r *InstallmentRepository) Save(ctx context.Context, i *loanDomain.Installment) error {
	return r.db.WithContext(ctx).Save(i).Error
}
