package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MattHalloran/NLN-sub003/internal/config"
	"github.com/MattHalloran/NLN-sub003/internal/domain/service"
	"github.com/MattHalloran/NLN-sub003/internal/handler/http/middleware"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Auth        service.Authenticator
	Tokens      service.TokenService
	RateLimiter middleware.RateLimiter
	Health      *HealthHandler
}

// NewRouter builds the gin engine with the full middleware chain and all
// routes. Every request passes through the session resolver, so handlers can
// always ask for the caller's identity.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestAuthenticator(deps.Tokens, deps.Logger))

	authHandler := NewAuthHandler(deps.Logger, deps.Auth, deps.Config)
	rl := deps.Config.Security.RateLimiting

	authGroup := router.Group("/api/auth")
	authGroup.Use(middleware.RateLimitMiddleware(deps.RateLimiter, "auth", rl.GeneralAuth, deps.Logger))
	{
		authGroup.POST("/login",
			middleware.RateLimitMiddleware(deps.RateLimiter, "login", rl.Login, deps.Logger),
			authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.POST("/signup",
			middleware.RateLimitMiddleware(deps.RateLimiter, "signup", rl.Signup, deps.Logger),
			authHandler.Signup)
		authGroup.POST("/request-password-reset",
			middleware.RateLimitMiddleware(deps.RateLimiter, "password_reset", rl.PasswordReset, deps.Logger),
			authHandler.RequestPasswordReset)
		authGroup.POST("/reset-password",
			middleware.RateLimitMiddleware(deps.RateLimiter, "password_reset", rl.PasswordReset, deps.Logger),
			authHandler.ResetPassword)
		authGroup.GET("/profile", authHandler.Profile)
	}

	router.GET("/healthz", deps.Health.Healthz)
	if deps.Config.Telemetry.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return router
}
