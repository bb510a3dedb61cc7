package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/MattHalloran/NLN-sub003/internal/domain/errors"
)

// ResponseError is the error envelope every failed request returns.
type ResponseError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RespondWithError sends an error envelope and logs it.
func RespondWithError(c *gin.Context, statusCode int, message string, errorCode string, logger *zap.Logger) {
	logger.Warn("API error response",
		zap.Int("status_code", statusCode),
		zap.String("error_message", message),
		zap.String("error_code", errorCode),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)

	c.JSON(statusCode, ResponseError{
		Error: message,
		Code:  errorCode,
	})
}

// RespondWithDomainError maps a domain error to status, message, and code. The
// wrapped internal detail stays in the logs, never in the body.
func RespondWithDomainError(c *gin.Context, err error, logger *zap.Logger) {
	logger.Debug("domain error", zap.Error(err), zap.String("path", c.Request.URL.Path))
	RespondWithError(c,
		domainErrors.HTTPStatusOf(err),
		domainErrors.MessageOf(err),
		domainErrors.CodeOf(err),
		logger)
}

// RespondWithData sends a raw JSON payload.
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// RespondWithMessage sends a message-only success envelope.
func RespondWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// RespondWithCreated sends a 201 with the created resource.
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}
