package models

import "time"

// CloudEvent type strings published to Kafka. The mailer service consumes the
// notification events; everything else feeds the audit/analytics pipeline.
const (
	AuthLoginSuccessV1               = "nln.auth.customer.login_success.v1"
	AuthLoginFailedV1                = "nln.auth.customer.login_failed.v1"
	AuthAccountLockedV1              = "nln.auth.customer.account_locked.v1"
	AuthCustomerRegisteredV1         = "nln.auth.customer.registered.v1"
	AuthEmailVerifiedV1              = "nln.auth.customer.email_verified.v1"
	AuthPasswordResetRequestedV1     = "nln.auth.customer.password_reset_requested.v1"
	AuthPasswordResetCompletedV1     = "nln.auth.customer.password_reset_completed.v1"
	AuthVerificationEmailRequestedV1 = "nln.auth.customer.verification_email_requested.v1"
)

// LoginSuccessPayload is published after a successful credential login.
type LoginSuccessPayload struct {
	CustomerID     string    `json:"customer_id"`
	Email          string    `json:"email"`
	LoginTimestamp time.Time `json:"login_timestamp"`
	IPAddress      string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
}

// LoginFailedPayload is published on every failed login attempt.
type LoginFailedPayload struct {
	AttemptedEmail   string    `json:"attempted_email"`
	CustomerID       string    `json:"customer_id,omitempty"`
	FailureReason    string    `json:"failure_reason"`
	FailedAttempts   int       `json:"failed_attempts,omitempty"`
	FailureTimestamp time.Time `json:"failure_timestamp"`
	IPAddress        string    `json:"ip_address"`
	UserAgent        string    `json:"user_agent"`
}

// AccountLockedPayload is published when a failed-attempt streak escalates the
// account status.
type AccountLockedPayload struct {
	CustomerID     string        `json:"customer_id"`
	Status         AccountStatus `json:"status"`
	FailedAttempts int           `json:"failed_attempts"`
	LockTimestamp  time.Time     `json:"lock_timestamp"`
}

// PasswordResetRequestedPayload carries the opaque reset code for the mailer.
type PasswordResetRequestedPayload struct {
	CustomerID  string    `json:"customer_id"`
	Email       string    `json:"email"`
	ResetCode   string    `json:"reset_code"`
	RequestedAt time.Time `json:"requested_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// VerificationEmailPayload carries the email verification code for the mailer.
type VerificationEmailPayload struct {
	CustomerID string    `json:"customer_id"`
	Email      string    `json:"email"`
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// CustomerRegisteredPayload is published after signup completes.
type CustomerRegisteredPayload struct {
	CustomerID   string    `json:"customer_id"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}
