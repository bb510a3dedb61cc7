package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/MattHalloran/NLN-sub003/internal/domain/errors"
	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
)

const customerColumns = `
	id, first_name, last_name, email, password_hash, theme, status,
	login_attempts, last_login_attempt, reset_password_code, last_reset_password_request,
	email_verified, email_verification_code, email_verification_expiry,
	account_approved, business_id, created_at, updated_at
`

// CustomerRepositoryPostgres implements repository.CustomerRepository on pgx.
type CustomerRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewCustomerRepositoryPostgres(pool *pgxpool.Pool) *CustomerRepositoryPostgres {
	return &CustomerRepositoryPostgres{pool: pool}
}

// Create persists a new customer.
func (r *CustomerRepositoryPostgres) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, first_name, last_name, email, password_hash, theme, status,
		                       login_attempts, last_login_attempt, reset_password_code,
		                       last_reset_password_request, email_verified, email_verification_code,
		                       email_verification_expiry, account_approved, business_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, query,
		customer.ID, customer.FirstName, customer.LastName, customer.Email,
		customer.PasswordHash, customer.Theme, customer.Status,
		customer.LoginAttempts, customer.LastLoginAttempt, customer.ResetPasswordCode,
		customer.LastResetPasswordRequest, customer.EmailVerified, customer.EmailVerificationCode,
		customer.EmailVerificationExpiry, customer.AccountApproved, customer.BusinessID,
		customer.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrEmailExists
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// FindByID retrieves a customer and their roles by id.
func (r *CustomerRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FindByEmail retrieves a customer and their roles by email.
func (r *CustomerRepositoryPostgres) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	return r.findOne(ctx, query, email)
}

func (r *CustomerRepositoryPostgres) findOne(ctx context.Context, query string, arg interface{}) (*models.Customer, error) {
	customer := &models.Customer{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&customer.ID, &customer.FirstName, &customer.LastName, &customer.Email,
		&customer.PasswordHash, &customer.Theme, &customer.Status,
		&customer.LoginAttempts, &customer.LastLoginAttempt, &customer.ResetPasswordCode,
		&customer.LastResetPasswordRequest, &customer.EmailVerified, &customer.EmailVerificationCode,
		&customer.EmailVerificationExpiry, &customer.AccountApproved, &customer.BusinessID,
		&customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	roles, err := r.loadRoles(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	customer.Roles = roles
	return customer, nil
}

func (r *CustomerRepositoryPostgres) loadRoles(ctx context.Context, customerID uuid.UUID) ([]models.Role, error) {
	query := `
		SELECT r.id, r.title, r.description
		FROM roles r
		JOIN customer_roles cr ON cr.role_id = r.id
		WHERE cr.customer_id = $1
		ORDER BY r.title
	`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Title, &role.Description); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}
	return roles, nil
}

// AssignRole links a customer to a role by title.
func (r *CustomerRepositoryPostgres) AssignRole(ctx context.Context, customerID uuid.UUID, roleTitle string) error {
	query := `
		INSERT INTO customer_roles (customer_id, role_id)
		SELECT $1, id FROM roles WHERE title = $2
		ON CONFLICT DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, customerID, roleTitle)
	if err != nil {
		return fmt.Errorf("failed to assign role %q: %w", roleTitle, err)
	}
	if tag.RowsAffected() == 0 {
		// Zero rows means either the link already exists or the title is
		// unknown. The roles are seeded by migration, so an unknown title is a
		// deployment problem worth surfacing.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE title = $1)`, roleTitle).Scan(&exists); err != nil {
			return fmt.Errorf("failed to verify role %q: %w", roleTitle, err)
		}
		if !exists {
			return fmt.Errorf("role %q does not exist", roleTitle)
		}
	}
	return nil
}

// RecordFailedLogin persists lockout bookkeeping for a failed attempt. The
// write happens on the failure path so lockout state survives across requests.
func (r *CustomerRepositoryPostgres) RecordFailedLogin(ctx context.Context, id uuid.UUID, attempts int, status models.AccountStatus, at time.Time) error {
	query := `
		UPDATE customers
		SET login_attempts = $2, status = $3, last_login_attempt = $4, updated_at = now()
		WHERE id = $1
	`
	return r.execExpectingRow(ctx, query, id, attempts, status, at)
}

// RecordSuccessfulLogin resets the attempt counter and clears the reset code
// pair in one statement.
func (r *CustomerRepositoryPostgres) RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE customers
		SET login_attempts = 0, last_login_attempt = $2,
		    reset_password_code = NULL, last_reset_password_request = NULL,
		    updated_at = now()
		WHERE id = $1
	`
	return r.execExpectingRow(ctx, query, id, at)
}

// ResetLoginAttempts zeroes the counter after the soft-lockout window elapses.
func (r *CustomerRepositoryPostgres) ResetLoginAttempts(ctx context.Context, id uuid.UUID, status models.AccountStatus) error {
	query := `
		UPDATE customers
		SET login_attempts = 0, status = $2, updated_at = now()
		WHERE id = $1
	`
	return r.execExpectingRow(ctx, query, id, status)
}

// SetResetPasswordCode stores the code and its request timestamp together, per
// the invariant that they are always set or cleared as a pair.
func (r *CustomerRepositoryPostgres) SetResetPasswordCode(ctx context.Context, id uuid.UUID, code string, at time.Time) error {
	query := `
		UPDATE customers
		SET reset_password_code = $2, last_reset_password_request = $3, updated_at = now()
		WHERE id = $1
	`
	return r.execExpectingRow(ctx, query, id, code, at)
}

// MarkEmailVerified flips the account to verified and unlocked.
func (r *CustomerRepositoryPostgres) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE customers
		SET email_verified = TRUE, status = $2,
		    email_verification_code = NULL, email_verification_expiry = NULL,
		    updated_at = now()
		WHERE id = $1
	`
	return r.execExpectingRow(ctx, query, id, models.AccountStatusUnlocked)
}

// UpdatePasswordHash installs a new password hash and consumes the reset code.
func (r *CustomerRepositoryPostgres) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	query := `
		UPDATE customers
		SET password_hash = $2,
		    reset_password_code = NULL, last_reset_password_request = NULL,
		    login_attempts = 0, updated_at = now()
		WHERE id = $1
	`
	return r.execExpectingRow(ctx, query, id, hash)
}

func (r *CustomerRepositoryPostgres) execExpectingRow(ctx context.Context, query string, args ...interface{}) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrCustomerNotFound
	}
	return nil
}
