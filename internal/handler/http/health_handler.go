package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HealthHandler reports service liveness and dependency readiness.
type HealthHandler struct {
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redis.Client
}

func NewHealthHandler(logger *zap.Logger, pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		logger: logger.Named("health_handler"),
		pool:   pool,
		redis:  redisClient,
	}
}

// Healthz pings Postgres and Redis. A failed dependency turns the response
// into a 503 so the orchestrator stops routing traffic here.
// GET /healthz
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	checks := gin.H{"postgres": "ok", "redis": "ok"}

	if err := h.pool.Ping(ctx); err != nil {
		h.logger.Error("postgres health check failed", zap.Error(err))
		checks["postgres"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.logger.Error("redis health check failed", zap.Error(err))
		checks["redis"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
	})
}
