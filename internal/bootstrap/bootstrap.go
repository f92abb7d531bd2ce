// Package bootstrap opens the process-wide dependencies shared by the API
// server and the maintenance CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"lending-backend/internal/adapter/repository/mysql"
	"lending-backend/internal/config"
	"lending-backend/internal/domain/uow"
	"lending-backend/internal/infrastructure/cache"
	"lending-backend/internal/infrastructure/db"
	"lending-backend/internal/infrastructure/events"
	"lending-backend/internal/infrastructure/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Options struct {
	// RequireRedis fails Open when Redis is unreachable instead of running
	// without it.
	RequireRedis bool
	// Migrate runs AutoMigrate right after connecting.
	Migrate bool
	// DB replaces dialing the configured driver. The caller keeps ownership
	// and Close leaves it open.
	DB *gorm.DB
}

type Deps struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *gorm.DB
	UoW       *mysql.GormUoW
	Repos     uow.Repos
	Redis     *redis.Client
	Artifacts storage.ArtifactStore
	Publisher events.Publisher

	closers []func() error
}

// NewLogger installs a JSON slog handler as the process default.
func NewLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	return logger
}

func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Deps, error) {
	d := &Deps{Config: cfg, Logger: logger}

	gdb := opts.DB
	if gdb == nil {
		var err error
		if gdb, err = db.OpenGorm(cfg.DBDriver, cfg.DSN()); err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if sqlDB, err := gdb.DB(); err == nil {
			d.closers = append(d.closers, sqlDB.Close)
		}
	}
	d.DB = gdb
	if opts.Migrate {
		if err := mysql.Migrate(gdb); err != nil {
			d.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	d.UoW = mysql.NewGormUoW(gdb)
	d.Repos = d.UoW.Repos()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	switch {
	case err == nil:
		d.Redis = rdb
		d.closers = append(d.closers, rdb.Close)
	case opts.RequireRedis:
		d.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	default:
		logger.Warn("redis unavailable, continuing without it", "addr", cfg.RedisAddr, "error", err)
	}

	if cfg.S3Bucket != "" {
		s3, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			d.Close()
			return nil, err
		}
		d.Artifacts = s3
	} else {
		logger.Warn("S3_BUCKET not set, contract documents are kept in memory")
		d.Artifacts = storage.NewMemoryStore("http://localhost:" + cfg.AppPort + "/artifacts")
	}

	if len(cfg.KafkaBrokers) > 0 {
		pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.Publisher = pub
	} else {
		d.Publisher = events.NewLogPublisher(logger)
	}
	d.closers = append(d.closers, d.Publisher.Close)
	return d, nil
}

// Close releases everything Open acquired, newest first.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
