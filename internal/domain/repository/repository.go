package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
)

// CustomerRepository is the account storage collaborator used by the
// authentication core. Counter/status/code updates are single-row UPDATEs;
// concurrent login attempts for the same account race last-writer-wins on the
// attempt counter, which is accepted behavior (see DESIGN.md).
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)

	// AssignRole links a customer to a role by title.
	AssignRole(ctx context.Context, customerID uuid.UUID, roleTitle string) error

	// RecordFailedLogin persists the incremented attempt counter, the possibly
	// escalated status, and the attempt timestamp.
	RecordFailedLogin(ctx context.Context, id uuid.UUID, attempts int, status models.AccountStatus, at time.Time) error

	// RecordSuccessfulLogin zeroes the counter, stamps the attempt time, and
	// clears any pending reset code together with its request timestamp.
	RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// ResetLoginAttempts zeroes the counter and applies the given status after
	// the soft-lockout window elapses.
	ResetLoginAttempts(ctx context.Context, id uuid.UUID, status models.AccountStatus) error

	// SetResetPasswordCode stores the code and its request timestamp together.
	SetResetPasswordCode(ctx context.Context, id uuid.UUID, code string, at time.Time) error

	// MarkEmailVerified flips the account to verified and unlocked and clears
	// the verification code and expiry.
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error

	// UpdatePasswordHash installs a new hash, clears the reset code pair, and
	// zeroes the attempt counter.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// AuditLogRepository persists structured security events.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
}
