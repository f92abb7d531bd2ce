package mysql

import (
	"lending-backend/internal/domain/contract"
	"lending-backend/internal/domain/investment"
	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/notification"
	"lending-backend/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&loan.Loan{},
		&loan.Installment{},
		&investment.Investment{},
		&investment.MonthlyReturn{},
		&contract.Contract{},
		&notification.Notification{},
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
