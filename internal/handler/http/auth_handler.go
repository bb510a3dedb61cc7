package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MattHalloran/NLN-sub003/internal/config"
	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
	"github.com/MattHalloran/NLN-sub003/internal/domain/service"
	"github.com/MattHalloran/NLN-sub003/internal/handler/http/middleware"
)

// AuthHandler exposes the authentication core over HTTP.
type AuthHandler struct {
	logger *zap.Logger
	auth   service.Authenticator
	cfg    *config.Config
}

func NewAuthHandler(logger *zap.Logger, auth service.Authenticator, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		logger: logger.Named("auth_handler"),
		auth:   auth,
		cfg:    cfg,
	}
}

func (h *AuthHandler) clientInfo(c *gin.Context) models.ClientInfo {
	return models.ClientInfo{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// setSessionCookie attaches the signed session token. HttpOnly keeps it away
// from page scripts; SameSite=Lax blocks cross-site POSTs from carrying it.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookieName,
		token,
		int(h.cfg.JWT.TokenTTL.Seconds()),
		"/",
		h.cfg.JWT.CookieDomain,
		h.cfg.JWT.CookieSecure,
		true,
	)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookieName,
		"",
		-1,
		"/",
		h.cfg.JWT.CookieDomain,
		h.cfg.JWT.CookieSecure,
		true,
	)
}

// Login handles credential login and session echo.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request payload", "InvalidRequest", h.logger)
		return
	}

	ident := middleware.IdentityFrom(c)
	profile, token, err := h.auth.Login(c.Request.Context(), req, ident, h.clientInfo(c))
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}

	// token is empty when the caller was answered from an existing session, in
	// which case the cookie it already holds stays untouched.
	if token != "" {
		h.setSessionCookie(c, token)
	}
	RespondWithData(c, http.StatusOK, profile)
}

// Logout clears the session cookie. It always succeeds; there is no server
// side session to tear down.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	RespondWithMessage(c, http.StatusOK, "Logged out")
}

// Signup registers a new customer account and logs it in.
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request payload", "InvalidRequest", h.logger)
		return
	}

	profile, token, err := h.auth.Signup(c.Request.Context(), req, h.clientInfo(c))
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}

	h.setSessionCookie(c, token)
	RespondWithCreated(c, profile)
}

// RequestPasswordReset issues a reset code for the account, if one exists. The
// response is identical either way so the endpoint cannot be used to probe for
// registered emails.
// POST /api/auth/request-password-reset
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req models.RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request payload", "InvalidRequest", h.logger)
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req, h.clientInfo(c)); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "If that email is registered, a reset link has been sent.")
}

// ResetPassword redeems a reset code for a new password.
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request payload", "InvalidRequest", h.logger)
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req, h.clientInfo(c)); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "Password updated. You can now log in.")
}

// Profile returns the account behind the current session cookie.
// GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	ident := middleware.IdentityFrom(c)
	profile, err := h.auth.Profile(c.Request.Context(), ident)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, profile)
}
