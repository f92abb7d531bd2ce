package mysql

import (
	"context"

	contractDomain "lending-backend/internal/domain/contract"

	"gorm.io/gorm"
)

type ContractRepository struct{ db *gorm.DB }

func NewContractRepository(db *gorm.DB) *ContractRepository { return &ContractRepository{db: db} }

func (r *ContractRepository) Create(ctx context.Context, c *contractDomain.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*contractDomain.Contract, error) {
	var out contractDomain.Contract
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND deleted_at IS NULL", loanNumericID).
		First(&out)
	return &out, res.Error
}

func (r *ContractRepository) GetByContractID(ctx context.Context, contractID string) (*contractDomain.Contract, error) {
	var out contractDomain.Contract
	res := r.db.WithContext(ctx).
		Where("contract_id = ? AND deleted_at IS NULL", contractID).
		First(&out)
	return &out, res.Error
}
