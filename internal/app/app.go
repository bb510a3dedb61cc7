package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MattHalloran/NLN-sub003/internal/config"
	"github.com/MattHalloran/NLN-sub003/internal/domain/repository/postgres"
	"github.com/MattHalloran/NLN-sub003/internal/domain/service"
	"github.com/MattHalloran/NLN-sub003/internal/events/kafka"
	httphandler "github.com/MattHalloran/NLN-sub003/internal/handler/http"
	"github.com/MattHalloran/NLN-sub003/internal/infrastructure/ratelimit"
	"github.com/MattHalloran/NLN-sub003/internal/infrastructure/security"
	"github.com/MattHalloran/NLN-sub003/internal/utils/logger"
	"github.com/MattHalloran/NLN-sub003/migrations"
)

// App wires the authentication service together and owns the lifecycle of its
// external connections.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	producer   *kafka.Producer
	httpServer *http.Server
}

// NewApp builds every component from configuration. A failure here is fatal;
// the process has nothing useful to do without its dependencies.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	zapLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.NewManager(cfg.Database, zapLogger).Up(); err != nil {
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, logger.WithComponent(zapLogger, "kafka"), cfg.Kafka.CloudEventSource)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to kafka: %w", err)
	}

	tokens, err := security.NewJWTService(cfg.JWT)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		_ = producer.Close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	customerRepo := postgres.NewCustomerRepositoryPostgres(pool)
	auditRepo := postgres.NewAuditLogRepositoryPostgres(pool)
	passwords := security.NewBcryptPasswordService(cfg.Security.BcryptCost)
	audit := service.NewAuditLogService(auditRepo, logger.WithComponent(zapLogger, "audit"))
	authService := service.NewAuthService(cfg, logger.WithComponent(zapLogger, "auth"), customerRepo, passwords, tokens, producer, audit)
	limiter := ratelimit.NewRedisRateLimiter(redisClient, cfg.Security.RateLimiting, logger.WithComponent(zapLogger, "ratelimit"))

	router := httphandler.NewRouter(httphandler.RouterDeps{
		Config:      cfg,
		Logger:      zapLogger,
		Auth:        authService,
		Tokens:      tokens,
		RateLimiter: limiter,
		Health:      httphandler.NewHealthHandler(zapLogger, pool, redisClient),
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     zapLogger,
		pool:       pool,
		redis:      redisClient,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until a shutdown signal or a server
// error, then tears everything down in dependency order.
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", zap.String("address", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("HTTP server failed", zap.Error(err))
		a.shutdown()
		return err
	case sig := <-quit:
		a.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		a.shutdown()
		return nil
	}
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close failed", zap.Error(err))
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close failed", zap.Error(err))
	}
	a.pool.Close()

	a.logger.Info("shutdown complete")
	_ = a.logger.Sync()
}
