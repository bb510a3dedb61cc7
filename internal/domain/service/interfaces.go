package service

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
	"github.com/MattHalloran/NLN-sub003/internal/events/kafka"
)

// PasswordService hashes and compares passwords with a deliberately slow,
// timing-safe algorithm.
type PasswordService interface {
	Hash(password string) (string, error)
	// Compare returns (false, nil) on a clean mismatch and a non-nil error only
	// for malformed hashes or internal failures.
	Compare(password, hash string) (bool, error)
}

// Claims is the signed payload carried in the session cookie. isCustomer and
// isAdmin are derived from the role set at issuance time, never cached.
type Claims struct {
	CustomerID string   `json:"customerId"`
	BusinessID string   `json:"businessId,omitempty"`
	Roles      []string `json:"roles"`
	IsCustomer bool     `json:"isCustomer"`
	IsAdmin    bool     `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies session tokens. Verification is a pure
// computation; any signature, structure, or expiry problem is an error the
// caller treats as "no identity".
type TokenService interface {
	Issue(customer *models.Customer) (string, *Claims, error)
	Verify(token string) (*models.RequestIdentity, error)
}

// EventPublisher sends CloudEvents to the platform event bus.
type EventPublisher interface {
	PublishCloudEvent(ctx context.Context, topic string, eventType kafka.EventType, subject *string, payload interface{}) error
}

// AuditRecorder persists structured security events. Recording is best-effort;
// failures are logged, never propagated into the request path.
type AuditRecorder interface {
	RecordEvent(ctx context.Context, customerID *uuid.UUID, email, action string, status models.AuditStatus, details map[string]interface{}, client models.ClientInfo)
}

// Authenticator is the surface the HTTP handlers consume.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest, ident *models.RequestIdentity, client models.ClientInfo) (*models.CustomerProfile, string, error)
	Signup(ctx context.Context, req models.SignupRequest, client models.ClientInfo) (*models.CustomerProfile, string, error)
	RequestPasswordReset(ctx context.Context, req models.RequestPasswordResetRequest, client models.ClientInfo) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest, client models.ClientInfo) error
	Profile(ctx context.Context, ident *models.RequestIdentity) (*models.CustomerProfile, error)
}
