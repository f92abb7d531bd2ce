package mysql

import (
	"context"

	invDomain "lending-backend/internal/domain/investment"

	"gorm.io/gorm"
)

type InvestmentRepository struct{ db *gorm.DB }

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) Create(ctx context.Context, i *invDomain.Investment) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *InvestmentRepository) GetByInvestmentID(ctx context.Context, investmentID string) (*invDomain.Investment, error) {
	var out invDomain.Investment
	res := r.db.WithContext(ctx).Where("investment_id = ?", investmentID).First(&out)
	return &out, res.Error
}

func (r *InvestmentRepository) ListByLoanID(ctx context.Context, loanID string) ([]invDomain.Investment, error) {
	var out []invDomain.Investment
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *InvestmentRepository) ListByInvestorID(ctx context.Context, investorID string) ([]invDomain.Investment, error) {
	var out []invDomain.Investment
	res := r.db.WithContext(ctx).Where("investor_id = ?", investorID).Order("id DESC").Find(&out)
	return out, res.Error
}

func (r *InvestmentRepository) Save(ctx context.Context, i *invDomain.Investment) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *InvestmentRepository) AddReturn(ctx context.Context, ret *invDomain.MonthlyReturn) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

func (r *InvestmentRepository) ListReturns(ctx context.Context, investmentID string) ([]invDomain.MonthlyReturn, error) {
	var out []invDomain.MonthlyReturn
	res := r.db.WithContext(ctx).Where("investment_id = ?", investmentID).Order("sequence ASC").Find(&out)
	return out, res.Error
}
