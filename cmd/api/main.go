package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "lending-backend/internal/adapter/http"
	"lending-backend/internal/bootstrap"
	"lending-backend/internal/config"
	"lending-backend/internal/infrastructure/cache"
	"lending-backend/internal/infrastructure/events"
	"lending-backend/internal/usecase/delinquency"
	"lending-backend/internal/usecase/investment"
	"lending-backend/internal/usecase/loan"
	"lending-backend/internal/usecase/notification"
	"lending-backend/internal/usecase/portfolio"
	"lending-backend/internal/usecase/repayment"
	"lending-backend/internal/usecase/user"
)

const (
	tokenTTL   = 24 * time.Hour
	metricsTTL = time.Minute
)

func main() {
	logger := bootstrap.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.Open(ctx, cfg, logger, bootstrap.Options{RequireRedis: true, Migrate: true})
	if err != nil {
		return err
	}
	defer deps.Close()

	now := func() time.Time { return time.Now().UTC() }
	repos := deps.Repos

	loans := loan.NewUsecase(repos, deps.UoW, deps.Artifacts, cfg.Lending, now).WithPresignTTL(cfg.PresignTTL)
	sweeper := delinquency.NewUsecase(repos, deps.UoW, cfg.Lending, now, logger)
	dispatcher := events.NewDispatcher(repos.Notifications, deps.Publisher, cfg.DispatchBatch, now, logger)

	checks := map[string]httpadp.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() },
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover())

	httpadp.Register(e, httpadp.Handlers{
		Health:        httpadp.NewHandler(checks),
		Users:         httpadp.NewUserHandler(user.NewUsecase(repos.Users, cfg.Lending, cfg.Risk, now), []byte(cfg.JWTSecret), tokenTTL),
		Loans:         httpadp.NewLoanHandler(loans),
		Investments:   httpadp.NewInvestmentHandler(investment.NewUsecase(repos, deps.UoW, deps.Artifacts, cfg.Lending, now, logger)),
		Repayments:    httpadp.NewRepaymentHandler(repayment.NewUsecase(deps.UoW, now, logger)),
		Notifications: httpadp.NewNotificationHandler(notification.NewUsecase(repos.Notifications)),
		Portfolio:     httpadp.NewPortfolioHandler(portfolio.NewUsecase(repos, cache.NewJSONCache(deps.Redis, "lending:"), metricsTTL, logger)),
	}, httpadp.RouterConfig{
		JWTSecret: []byte(cfg.JWTSecret),
		Redis:     deps.Redis,
		IdempTTL:  time.Duration(cfg.IdempTTLSecs) * time.Second,
		Logger:    logger,
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); sweeper.Run(ctx, cfg.DelinquencyInterval) }()
	go func() { defer wg.Done(); dispatcher.Run(ctx, cfg.DispatchInterval) }()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		logger.Info("http server started", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-errCh:
		logger.Error("server failure", "error", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if serr := e.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("http shutdown", "error", serr)
	}
	wg.Wait()
	return err
}
