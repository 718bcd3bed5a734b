package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/finboard/internal/adapter/http"
	"github.com/iho/finboard/internal/adapter/http/handler"
	postgresRepo "github.com/iho/finboard/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/finboard/internal/adapter/repository/redis"
	"github.com/iho/finboard/internal/infrastructure/auth"
	"github.com/iho/finboard/internal/infrastructure/config"
	"github.com/iho/finboard/internal/infrastructure/logger"
	"github.com/iho/finboard/internal/infrastructure/metrics"
	"github.com/iho/finboard/internal/infrastructure/postgres"
	"github.com/iho/finboard/internal/infrastructure/redis"
	"github.com/iho/finboard/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	holdingRepo := postgresRepo.NewHoldingRepository(pool)
	tradeRepo := postgresRepo.NewTradeRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize use cases
	balanceUC := usecase.NewBalanceUseCase(entryRepo, tradeRepo, cache)
	entryUC := usecase.NewEntryUseCase(entryRepo, idGen, balanceUC)
	transferUC := usecase.NewTransferUseCase(txManager, entryRepo, tradeRepo, idGen, balanceUC)
	holdingUC := usecase.NewHoldingUseCase(txManager, holdingRepo, entryRepo, tradeRepo, idGen, balanceUC)
	tradeUC := usecase.NewTradeUseCase(txManager, tradeRepo, entryRepo, idGen, balanceUC)
	valuationUC := usecase.NewValuationUseCase(holdingRepo, balanceUC)
	seriesUC := usecase.NewSeriesUseCase(entryRepo, holdingRepo)
	reconcileUC := usecase.NewReconcileUseCase(entryRepo)
	userUC := usecase.NewUserUseCase(userRepo, idGen, jwtManager, cfg.DemoPin)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(userUC, appMetrics),
		EntryHandler:     handler.NewEntryHandler(entryUC, appMetrics),
		TransferHandler:  handler.NewTransferHandler(transferUC, appMetrics),
		LedgerHandler:    handler.NewLedgerHandler(balanceUC, seriesUC, reconcileUC),
		HoldingHandler:   handler.NewHoldingHandler(holdingUC, appMetrics),
		TradeHandler:     handler.NewTradeHandler(tradeUC, appMetrics),
		PortfolioHandler: handler.NewPortfolioHandler(valuationUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		JWTManager:       jwtManager,
		PinVerifier:      userUC,
		Metrics:          appMetrics,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	rollCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	go rollCandles(rollCtx, holdingUC, retrier, appMetrics, cfg.CandleRollInterval)
	go trackPoolStats(rollCtx, pool, appMetrics)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// rollCandles periodically appends a daily candle to running holdings
// that have none for the current day. Transient database failures are
// retried with backoff before the tick is given up.
func rollCandles(ctx context.Context, holdingUC *usecase.HoldingUseCase, retrier *postgresRepo.Retrier, m *metrics.Metrics, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var rolled int
			err := retrier.Retry(ctx, func() error {
				var err error
				rolled, err = holdingUC.RollDailyCandles(ctx)
				return err
			})
			if err != nil {
				log.Error().Err(err).Msg("candle roll failed")
				continue
			}
			if rolled > 0 {
				m.CandlesRolled.Add(float64(rolled))
				log.Info().Int("holdings", rolled).Msg("rolled daily candles")
			}
		}
	}
}

func trackPoolStats(ctx context.Context, pool *pgxpool.Pool, m *metrics.Metrics) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}
}
