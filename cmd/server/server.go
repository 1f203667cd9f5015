package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"codeberg.org/pixelforge/server/internal/clock"
	"codeberg.org/pixelforge/server/internal/config"
	"codeberg.org/pixelforge/server/internal/imagen"
	"codeberg.org/pixelforge/server/internal/logger"
	"codeberg.org/pixelforge/server/pixelforge/accounts"
	"codeberg.org/pixelforge/server/pixelforge/ledger"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
	"codeberg.org/pixelforge/server/pixelforge/users"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// configure connection pool for managed pooler compatibility
	// hosted poolers hand out few connections, so keep our pool small
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// use simple protocol for PgBouncer compatibility: transaction-mode
	// pooling doesn't support prepared statements, which causes connections
	// to hang on subsequent queries
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	redisClient := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis")

	// the day boundary clock fails fast on a bad timezone so every later
	// quota decision is made in a known zone
	clk, err := clock.New(cfg.Timezone)
	if err != nil {
		redisClient.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to initialize clock: %w", err)
	}

	userRepo := users.NewRepository(db)
	accountRepo := accounts.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)

	engine := limiter.New(limiter.Config{
		AnonymousDailyLimit: cfg.AnonymousDailyLimit,
		GenerationCost:      cfg.GenerationCost,
		RemixCost:           cfg.RemixCost,
		DailyBonusAmount:    cfg.DailyBonusAmount,
		SignupBonusAmount:   cfg.SignupBonusAmount,
		ExemptActors:        cfg.ExemptActors,
	}, accountRepo, ledgerRepo, clk)

	generator, err := imagen.NewOpenAIGenerator()
	if err != nil {
		redisClient.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to initialize image generator: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		db:          db,
		redis:       redisClient,
		config:      cfg,
		clock:       clk,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		engine:      engine,
		generator:   generator,
		router:      router,
	}

	if err := RegisterRoutes(router, server); err != nil {
		redisClient.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return server, nil
}
