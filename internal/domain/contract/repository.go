package contract

import "context"

type Repository interface {
	// Create a contract (DB uniqueness ensures at most one per loan)
	Create(ctx context.Context, c *Contract) error

	// Get contract by numeric loan ID
	GetByLoanID(ctx context.Context, loanID uint64) (*Contract, error)

	// Get by public contract_id
	GetByContractID(ctx context.Context, contractID string) (*Contract, error)
}
