package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a storefront account row in the customers table.
type Customer struct {
	ID                       uuid.UUID     `json:"id" db:"id"`
	FirstName                string        `json:"first_name" db:"first_name"`
	LastName                 string        `json:"last_name" db:"last_name"`
	Email                    string        `json:"email" db:"email"`
	PasswordHash             *string       `json:"-" db:"password_hash"` // nil for accounts provisioned without a local password
	Theme                    string        `json:"theme" db:"theme"`
	Status                   AccountStatus `json:"status" db:"status"`
	LoginAttempts            int           `json:"login_attempts" db:"login_attempts"`
	LastLoginAttempt         time.Time     `json:"last_login_attempt" db:"last_login_attempt"`
	ResetPasswordCode        *string       `json:"-" db:"reset_password_code"`
	LastResetPasswordRequest *time.Time    `json:"-" db:"last_reset_password_request"`
	EmailVerified            bool          `json:"email_verified" db:"email_verified"`
	EmailVerificationCode    *string       `json:"-" db:"email_verification_code"`
	EmailVerificationExpiry  *time.Time    `json:"-" db:"email_verification_expiry"`
	AccountApproved          bool          `json:"account_approved" db:"account_approved"`
	BusinessID               *uuid.UUID    `json:"business_id,omitempty" db:"business_id"`
	CreatedAt                time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time     `json:"updated_at" db:"updated_at"`
	Roles                    []Role        `json:"roles,omitempty" db:"-"` // loaded separately
}

// AccountStatus defines the lockout state of a customer account.
type AccountStatus string

const (
	AccountStatusUnlocked   AccountStatus = "unlocked"
	AccountStatusSoftLocked AccountStatus = "soft_locked"
	AccountStatusHardLocked AccountStatus = "hard_locked"
	AccountStatusDeleted    AccountStatus = "deleted"
)

// RoleTitles returns the title strings of the customer's current roles.
func (c *Customer) RoleTitles() []string {
	titles := make([]string, len(c.Roles))
	for i, r := range c.Roles {
		titles[i] = r.Title
	}
	return titles
}

// CustomerProfile is the public view of an account returned by the API.
type CustomerProfile struct {
	ID              uuid.UUID     `json:"id"`
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	Email           string        `json:"email"`
	Theme           string        `json:"theme"`
	Status          AccountStatus `json:"status"`
	EmailVerified   bool          `json:"email_verified"`
	AccountApproved bool          `json:"account_approved"`
	Roles           []string      `json:"roles"`
}

// ToProfile converts a Customer to its public API representation.
func (c *Customer) ToProfile() *CustomerProfile {
	return &CustomerProfile{
		ID:              c.ID,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		Theme:           c.Theme,
		Status:          c.Status,
		EmailVerified:   c.EmailVerified,
		AccountApproved: c.AccountApproved,
		Roles:           c.RoleTitles(),
	}
}
