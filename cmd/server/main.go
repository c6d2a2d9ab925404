package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/accountpro/bookkeeper/internal/adapter/http"
	"github.com/accountpro/bookkeeper/internal/adapter/http/handler"
	"github.com/accountpro/bookkeeper/internal/adapter/http/middleware"
	"github.com/accountpro/bookkeeper/internal/adapter/repository/memory"
	postgresRepo "github.com/accountpro/bookkeeper/internal/adapter/repository/postgres"
	redisRepo "github.com/accountpro/bookkeeper/internal/adapter/repository/redis"
	"github.com/accountpro/bookkeeper/internal/infrastructure/chart"
	"github.com/accountpro/bookkeeper/internal/infrastructure/config"
	"github.com/accountpro/bookkeeper/internal/infrastructure/eventpublisher"
	"github.com/accountpro/bookkeeper/internal/infrastructure/logger"
	"github.com/accountpro/bookkeeper/internal/infrastructure/metrics"
	"github.com/accountpro/bookkeeper/internal/infrastructure/postgres"
	"github.com/accountpro/bookkeeper/internal/infrastructure/redis"
	"github.com/accountpro/bookkeeper/internal/infrastructure/scripts"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

const rateLimiterIdleTimeout = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.Setup(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

// storage is the set of ports backed by the configured driver.
type storage struct {
	txManager    usecase.TransactionManager
	accountRepo  usecase.AccountRepository
	voucherRepo  usecase.VoucherRepository
	sequenceRepo usecase.SequenceRepository
	companyRepo  usecase.CompanyRepository
	ledgerRepo   usecase.LedgerRepository
	outboxRepo   usecase.OutboxRepository
	retrier      *postgresRepo.Retrier
	checks       map[string]handler.Checker
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, l zerolog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memory.NewStore(cfg.VoucherStartNumber)
		l.Warn().Msg("using in-memory storage; data is lost on restart")

		return &storage{
			txManager:    memory.NewTxManager(store),
			accountRepo:  memory.NewAccountRepository(store),
			voucherRepo:  memory.NewVoucherRepository(store),
			sequenceRepo: memory.NewSequenceRepository(store),
			companyRepo:  memory.NewCompanyRepository(store),
			ledgerRepo:   memory.NewLedgerRepository(store),
			outboxRepo:   memory.NewOutboxRepository(store),
			checks:       map[string]handler.Checker{},
			close:        func() {},
		}, nil
	}

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	l.Info().Msg("connected to postgres")

	sequenceRepo := postgresRepo.NewSequenceRepository(pool)
	if err := sequenceRepo.Ensure(ctx, cfg.VoucherStartNumber); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize voucher sequence: %w", err)
	}

	return &storage{
		txManager:    postgresRepo.NewTxManager(pool),
		accountRepo:  postgresRepo.NewAccountRepository(pool),
		voucherRepo:  postgresRepo.NewVoucherRepository(pool),
		sequenceRepo: sequenceRepo,
		companyRepo:  postgresRepo.NewCompanyRepository(pool),
		ledgerRepo:   postgresRepo.NewLedgerRepository(pool),
		outboxRepo:   postgresRepo.NewOutboxRepository(pool),
		retrier:      postgresRepo.NewRetrier(l),
		checks: map[string]handler.Checker{
			"postgres": pool.Ping,
		},
		close: pool.Close,
	}, nil
}

func newPublisher(cfg *config.Config, client *goredis.Client, l zerolog.Logger) eventpublisher.Publisher {
	switch cfg.EventPublisher {
	case config.PublisherRedis:
		return eventpublisher.NewRedisStreamPublisher(client, cfg.EventStreamName, 0)
	case config.PublisherLog:
		return eventpublisher.NewLogPublisher(l)
	default:
		return nil
	}
}

// app is the wired service, ready to serve.
type app struct {
	handler     http.Handler
	accounts    *usecase.AccountUseCase
	publisher   *eventpublisher.EventPublisher
	rateLimiter *middleware.RateLimiter
	idempotency *memory.IdempotencyStore
}

func newApp(cfg *config.Config, store *storage, redisClient *goredis.Client, l zerolog.Logger) *app {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	idGen := postgresRepo.NewULIDGenerator()

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
		memoryIdem       *memory.IdempotencyStore
	)
	if redisClient != nil {
		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		store.checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	} else {
		memoryIdem = memory.NewIdempotencyStore()
		idempotencyStore = memoryIdem
	}

	accountUC := usecase.NewAccountUseCase(store.txManager, store.accountRepo, store.outboxRepo, cache, idGen, m).
		WithLogger(l)
	voucherUC := usecase.NewVoucherUseCase(store.txManager, store.voucherRepo, store.sequenceRepo, store.accountRepo, store.outboxRepo, idGen, m).
		WithLogger(l)
	if store.retrier != nil {
		store.retrier.WithMetrics(m)
		voucherUC.WithRetrier(store.retrier)
	}
	ledgerUC := usecase.NewLedgerUseCase(store.ledgerRepo, store.voucherRepo, store.accountRepo)
	companyUC := usecase.NewCompanyUseCase(store.txManager, store.companyRepo, store.outboxRepo, idGen)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC, voucherUC),
		VoucherHandler:   handler.NewVoucherHandler(voucherUC),
		CompanyHandler:   handler.NewCompanyHandler(companyUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		ScriptHandler:    handler.NewScriptHandler(scripts.NewClient(cfg.ScriptAPIBaseURL, cfg.ScriptTimeout, l)),
		HealthHandler:    handler.NewHealthHandler(store.checks),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		Gatherer:         registry,
		Logger:           l,
	})

	var publisher *eventpublisher.EventPublisher
	if pub := newPublisher(cfg, redisClient, l); pub != nil {
		publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: store.outboxRepo,
			Publisher:  pub,
			Metrics:    m,
			Logger:     l,
			BatchSize:  cfg.EventPublishBatchSize,
			Interval:   cfg.EventPublishInterval,
			Retention:  cfg.PublishedEventRetention,
		})
	}

	return &app{
		handler:     router,
		accounts:    accountUC,
		publisher:   publisher,
		rateLimiter: rateLimiter,
		idempotency: memoryIdem,
	}
}

// seedAccounts installs the default chart and then any accounts from the
// configured CSV file. Both steps skip numbers that already exist.
func (a *app) seedAccounts(ctx context.Context, cfg *config.Config, l zerolog.Logger) error {
	seeded, err := a.accounts.EnsureDefaultChart(ctx)
	if err != nil {
		return fmt.Errorf("seed default chart: %w", err)
	}
	if seeded > 0 {
		l.Info().Int("accounts", seeded).Msg("seeded default chart of accounts")
	}

	if cfg.AccountsFile == "" {
		return nil
	}

	inputs, err := chart.ReadFile(cfg.AccountsFile)
	if err != nil {
		return fmt.Errorf("read accounts file: %w", err)
	}

	imported, err := a.accounts.ImportAccounts(ctx, inputs)
	if err != nil {
		return fmt.Errorf("import accounts: %w", err)
	}
	l.Info().Str("file", cfg.AccountsFile).Int("accounts", imported).Msg("imported chart of accounts")

	return nil
}

// housekeeping prunes idle rate limiters and expired idempotency keys until
// ctx is cancelled.
func (a *app) housekeeping(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if a.rateLimiter != nil {
				a.rateLimiter.CleanupLimiters(rateLimiterIdleTimeout)
			}
			if a.idempotency != nil {
				a.idempotency.Purge()
			}
		}
	}
}

func run(ctx context.Context, cfg *config.Config, l zerolog.Logger) error {
	store, err := openStorage(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer store.close()

	// Connect to Redis
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		l.Info().Msg("connected to redis")
	}

	a := newApp(cfg, store, redisClient, l)

	if err := a.seedAccounts(ctx, cfg, l); err != nil {
		return err
	}

	bgCtx, cancelBackground := context.WithCancel(ctx)
	defer cancelBackground()

	if a.publisher != nil {
		go func() {
			if err := a.publisher.Start(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				l.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}
	go a.housekeeping(bgCtx, 10*time.Minute)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		l.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	l.Info().Msg("shutting down server...")
	cancelBackground()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	l.Info().Msg("server stopped")
	return nil
}
