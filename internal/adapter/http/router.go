package http

import (
	"log/slog"
	"time"

	mw "lending-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Health        *Handler
	Users         *UserHandler
	Loans         *LoanHandler
	Investments   *InvestmentHandler
	Repayments    *RepaymentHandler
	Notifications *NotificationHandler
	Portfolio     *PortfolioHandler
}

type RouterConfig struct {
	JWTSecret []byte
	// Redis backs the idempotency store; nil disables it.
	Redis    *redis.Client
	IdempTTL time.Duration
	Logger   *slog.Logger
}

// Register mounts every route on e. Registration and login are public;
// everything else needs a bearer token, and mutating calls also go through
// the idempotency layer.
func Register(e *echo.Echo, h Handlers, cfg RouterConfig) {
	if e.Validator == nil {
		e.Validator = NewValidator()
	}
	e.GET("/health", h.Health.Health)
	e.POST("/users", h.Users.Register)
	e.POST("/sessions", h.Users.Login)

	api := e.Group("", mw.JWTAuth(cfg.JWTSecret))
	if cfg.Redis != nil {
		api.Use(mw.Idempotency(cfg.Redis, cfg.IdempTTL, cfg.Logger))
	}

	api.GET("/users/:user_id", h.Users.Get)
	api.POST("/investors/:user_id/risk-profile", h.Users.AssessRisk)

	api.POST("/loans", h.Loans.CreateLoan)
	api.GET("/loans", h.Loans.ListLoans)
	api.GET("/loans/:loan_id", h.Loans.GetLoan)
	api.GET("/loans/:loan_id/schedule", h.Loans.Schedule)
	api.GET("/loans/:loan_id/contract", h.Loans.Contract)
	api.GET("/borrowers/:user_id/loans", h.Loans.ListBorrowerLoans)

	api.POST("/loans/:loan_id/investments", h.Investments.Invest)
	api.GET("/investors/:user_id/investments", h.Investments.ListByInvestor)
	api.GET("/investments/:investment_id/returns", h.Investments.Returns)

	api.POST("/loans/:loan_id/installments/:sequence/pay", h.Repayments.Pay)

	api.GET("/users/:user_id/notifications", h.Notifications.List)
	api.POST("/notifications/:notification_id/read", h.Notifications.MarkRead)

	api.GET("/borrowers/:user_id/metrics", h.Portfolio.Borrower)
	api.GET("/investors/:user_id/metrics", h.Portfolio.Investor)
	api.GET("/market/metrics", h.Portfolio.Market)
}
