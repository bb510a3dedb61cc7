package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/MattHalloran/NLN-sub003/internal/domain/errors"
	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
	"github.com/MattHalloran/NLN-sub003/internal/domain/service"
	"github.com/MattHalloran/NLN-sub003/internal/utils/metrics"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "nln_session"

// identityContextKey is where the resolved identity lives inside gin's context.
const identityContextKey = "request_identity"

// RequestAuthenticator resolves the session cookie into a request identity.
// It never aborts: a missing, expired, or forged token yields the anonymous
// identity and the request continues. Handlers that require authentication
// check the identity themselves.
func RequestAuthenticator(tokens service.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			metrics.TokenVerificationsTotal.WithLabelValues("absent").Inc()
			c.Next()
			return
		}

		ident, err := tokens.Verify(tokenString)
		if err != nil {
			result := "invalid"
			if errors.Is(err, domainErrors.ErrExpiredToken) {
				result = "expired"
			}
			metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
			logger.Debug("session token rejected",
				zap.String("result", result),
				zap.String("client_ip", c.ClientIP()))
			c.Next()
			return
		}

		metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
		c.Set(identityContextKey, ident)
		c.Next()
	}
}

// IdentityFrom returns the identity resolved by RequestAuthenticator, or the
// anonymous identity when no valid token was presented.
func IdentityFrom(c *gin.Context) *models.RequestIdentity {
	if v, ok := c.Get(identityContextKey); ok {
		if ident, ok := v.(*models.RequestIdentity); ok {
			return ident
		}
	}
	return &models.RequestIdentity{}
}
