package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditStatus marks an audit entry as a success or failure.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// Audit actions recorded by the authentication core.
const (
	AuditActionLogin         = "customer_login"
	AuditActionSignup        = "customer_signup"
	AuditActionPasswordReset = "customer_password_reset"
	AuditActionEmailVerify   = "customer_email_verify"
)

// AuditLogEntry is a structured security event keyed by email and account id.
type AuditLogEntry struct {
	ID         uuid.UUID              `json:"id" db:"id"`
	CustomerID *uuid.UUID             `json:"customer_id,omitempty" db:"customer_id"`
	Email      string                 `json:"email" db:"email"`
	Action     string                 `json:"action" db:"action"`
	Status     AuditStatus            `json:"status" db:"status"`
	Details    map[string]interface{} `json:"details,omitempty" db:"details"`
	IPAddress  string                 `json:"ip_address" db:"ip_address"`
	UserAgent  string                 `json:"user_agent" db:"user_agent"`
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
}
