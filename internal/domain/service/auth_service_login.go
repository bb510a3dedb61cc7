package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/MattHalloran/NLN-sub003/internal/domain/errors"
	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
	"github.com/MattHalloran/NLN-sub003/internal/utils/metrics"
	"github.com/MattHalloran/NLN-sub003/internal/utils/random"
)

// Login runs the ordered login checks for one request. Every step
// short-circuits to a typed failure; bookkeeping writes happen on failure
// paths too, so lockout state survives across requests. On success it returns
// the account's public profile and a signed session token for the cookie. The
// token is empty when the caller was resolved from an existing session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, ident *models.RequestIdentity, client models.ClientInfo) (*models.CustomerProfile, string, error) {
	// Empty credentials: fall back to the session cookie and answer "who am I".
	if req.Email == "" && req.Password == "" {
		profile, err := s.Profile(ctx, ident)
		if err != nil {
			metrics.LoginAttemptsTotal.WithLabelValues("failure_no_credentials").Inc()
			return nil, "", domainErrors.ErrBadCredentials
		}
		return profile, "", nil
	}

	if err := s.validate.Struct(req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure_validation").Inc()
		return nil, "", domainErrors.NewValidationError(err)
	}

	customer, err := s.customerRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrCustomerNotFound) {
			// Burn a hash comparison so a missing account costs the same as a
			// wrong password.
			if _, cmpErr := s.passwords.Compare(req.Password, decoyPasswordHash); cmpErr != nil {
				s.logger.Error("decoy password comparison failed", zap.Error(cmpErr))
			}
			s.recordLoginFailure(ctx, nil, req.Email, "account_not_found", 0, client)
			metrics.LoginAttemptsTotal.WithLabelValues("failure_account_not_found").Inc()
			return nil, "", domainErrors.ErrBadCredentials
		}
		s.logger.Error("failed to look up account by email", zap.Error(err), zap.String("email", req.Email))
		return nil, "", domainErrors.ErrInternal
	}

	// Accounts provisioned without a local password cannot log in until they
	// set one; issue a reset code and tell the caller to use it.
	if customer.PasswordHash == nil {
		if err := s.issueResetCode(ctx, customer, client); err != nil {
			return nil, "", domainErrors.ErrInternal
		}
		s.recordLoginFailure(ctx, &customer.ID, customer.Email, "no_password_on_file", customer.LoginAttempts, client)
		metrics.LoginAttemptsTotal.WithLabelValues("failure_must_reset").Inc()
		return nil, "", domainErrors.ErrMustResetPassword
	}

	// Optional email verification piggybacked on login. A wrong or expired
	// code is logged and the attempt continues unverified.
	if req.VerificationCode != "" && !customer.EmailVerified {
		if s.verificationCodeValid(customer, req.VerificationCode) {
			if err := s.customerRepo.MarkEmailVerified(ctx, customer.ID); err != nil {
				s.logger.Error("failed to mark email verified", zap.Error(err), zap.String("customer_id", customer.ID.String()))
			} else {
				customer.EmailVerified = true
				customer.Status = models.AccountStatusUnlocked
				s.audit.RecordEvent(ctx, &customer.ID, customer.Email, models.AuditActionEmailVerify, models.AuditStatusSuccess, nil, client)
				s.publishAuthEvent(ctx, models.AuthEmailVerifiedV1, customer.ID.String(), models.VerificationEmailPayload{
					CustomerID: customer.ID.String(),
					Email:      customer.Email,
				})
			}
		} else {
			s.logger.Warn("invalid email verification code supplied during login",
				zap.String("customer_id", customer.ID.String()))
			s.audit.RecordEvent(ctx, &customer.ID, customer.Email, models.AuditActionEmailVerify, models.AuditStatusFailure,
				map[string]interface{}{"reason": "invalid_or_expired_code"}, client)
		}
	}

	// The soft lockout clears once its window has elapsed. Hard locks and
	// deleted accounts never auto-clear. A soft_locked account with a zeroed
	// counter (password reset leaves status alone) still relaxes here.
	now := time.Now()
	if customer.Status != models.AccountStatusHardLocked &&
		customer.Status != models.AccountStatusDeleted &&
		(customer.LoginAttempts > 0 || customer.Status == models.AccountStatusSoftLocked) &&
		now.Sub(customer.LastLoginAttempt) > softLockoutWindow {
		newStatus := customer.Status
		if newStatus == models.AccountStatusSoftLocked {
			newStatus = models.AccountStatusUnlocked
		}
		if err := s.customerRepo.ResetLoginAttempts(ctx, customer.ID, newStatus); err != nil {
			s.logger.Error("failed to reset login attempts", zap.Error(err), zap.String("customer_id", customer.ID.String()))
		} else {
			customer.LoginAttempts = 0
			customer.Status = newStatus
		}
	}

	switch customer.Status {
	case models.AccountStatusDeleted:
		s.recordLoginFailure(ctx, &customer.ID, customer.Email, "account_deleted", customer.LoginAttempts, client)
		metrics.LoginAttemptsTotal.WithLabelValues("failure_account_deleted").Inc()
		return nil, "", domainErrors.ErrNoCustomer
	case models.AccountStatusSoftLocked:
		s.recordLoginFailure(ctx, &customer.ID, customer.Email, "soft_locked", customer.LoginAttempts, client)
		metrics.LoginAttemptsTotal.WithLabelValues("failure_account_locked").Inc()
		return nil, "", domainErrors.ErrSoftLockout
	case models.AccountStatusHardLocked:
		s.recordLoginFailure(ctx, &customer.ID, customer.Email, "hard_locked", customer.LoginAttempts, client)
		metrics.LoginAttemptsTotal.WithLabelValues("failure_account_locked").Inc()
		return nil, "", domainErrors.ErrHardLockout
	case models.AccountStatusUnlocked:
		// proceed
	default:
		s.logger.Error("account has unknown status", zap.String("customer_id", customer.ID.String()), zap.String("status", string(customer.Status)))
		return nil, "", domainErrors.ErrInternal
	}

	match, err := s.passwords.Compare(req.Password, *customer.PasswordHash)
	if err != nil {
		// An internal comparison error is a failed match, never a 500.
		s.logger.Error("password comparison failed", zap.Error(err), zap.String("customer_id", customer.ID.String()))
		match = false
	}

	if !match {
		return nil, "", s.handleFailedPassword(ctx, customer, now, client)
	}

	token, _, err := s.tokens.Issue(customer)
	if err != nil {
		s.logger.Error("failed to issue session token", zap.Error(err), zap.String("customer_id", customer.ID.String()))
		return nil, "", domainErrors.ErrInternal
	}
	metrics.TokensIssuedTotal.Inc()

	if err := s.customerRepo.RecordSuccessfulLogin(ctx, customer.ID, now); err != nil {
		s.logger.Error("failed to record successful login", zap.Error(err), zap.String("customer_id", customer.ID.String()))
	}

	s.audit.RecordEvent(ctx, &customer.ID, customer.Email, models.AuditActionLogin, models.AuditStatusSuccess, nil, client)
	s.publishAuthEvent(ctx, models.AuthLoginSuccessV1, customer.ID.String(), models.LoginSuccessPayload{
		CustomerID:     customer.ID.String(),
		Email:          customer.Email,
		LoginTimestamp: now.UTC(),
		IPAddress:      client.IPAddress,
		UserAgent:      client.UserAgent,
	})
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return customer.ToProfile(), token, nil
}

// handleFailedPassword increments the attempt counter, escalates the lockout
// status when the streak crosses a threshold, and persists the new state.
func (s *AuthService) handleFailedPassword(ctx context.Context, customer *models.Customer, now time.Time, client models.ClientInfo) error {
	attempts := customer.LoginAttempts + 1
	status := customer.Status
	switch {
	case attempts > hardLockoutAttempts:
		status = models.AccountStatusHardLocked
	case attempts >= softLockoutAttempts:
		status = models.AccountStatusSoftLocked
	}

	if err := s.customerRepo.RecordFailedLogin(ctx, customer.ID, attempts, status, now); err != nil {
		s.logger.Error("failed to record failed login attempt", zap.Error(err), zap.String("customer_id", customer.ID.String()))
	}

	if status != customer.Status {
		kind := "soft"
		if status == models.AccountStatusHardLocked {
			kind = "hard"
		}
		s.logger.Warn("account locked after failed login streak",
			zap.String("customer_id", customer.ID.String()),
			zap.Int("failed_attempts", attempts),
			zap.String("lock_kind", kind))
		metrics.LockoutsTotal.WithLabelValues(kind).Inc()
		s.publishAuthEvent(ctx, models.AuthAccountLockedV1, customer.ID.String(), models.AccountLockedPayload{
			CustomerID:     customer.ID.String(),
			Status:         status,
			FailedAttempts: attempts,
			LockTimestamp:  now.UTC(),
		})
	}

	s.recordLoginFailure(ctx, &customer.ID, customer.Email, "invalid_credentials", attempts, client)
	metrics.LoginAttemptsTotal.WithLabelValues("failure_credentials").Inc()
	return domainErrors.ErrBadCredentials
}

func (s *AuthService) recordLoginFailure(ctx context.Context, customerID *uuid.UUID, email, reason string, attempts int, client models.ClientInfo) {
	details := map[string]interface{}{"reason": reason}
	if attempts > 0 {
		details["failed_attempts"] = attempts
	}
	s.audit.RecordEvent(ctx, customerID, email, models.AuditActionLogin, models.AuditStatusFailure, details, client)

	payload := models.LoginFailedPayload{
		AttemptedEmail:   email,
		FailureReason:    reason,
		FailedAttempts:   attempts,
		FailureTimestamp: time.Now().UTC(),
		IPAddress:        client.IPAddress,
		UserAgent:        client.UserAgent,
	}
	subject := "unknown_account:" + email
	if customerID != nil {
		payload.CustomerID = customerID.String()
		subject = customerID.String()
	}
	s.publishAuthEvent(ctx, models.AuthLoginFailedV1, subject, payload)
}

// issueResetCode generates and persists a reset code, then hands it to the
// mailer via the notification topic.
func (s *AuthService) issueResetCode(ctx context.Context, customer *models.Customer, client models.ClientInfo) error {
	code, err := random.OpaqueCode(resetCodeBytes)
	if err != nil {
		s.logger.Error("failed to generate reset code", zap.Error(err))
		return err
	}
	now := time.Now()
	if err := s.customerRepo.SetResetPasswordCode(ctx, customer.ID, code, now); err != nil {
		s.logger.Error("failed to persist reset code", zap.Error(err), zap.String("customer_id", customer.ID.String()))
		return err
	}
	s.publishNotification(ctx, models.AuthPasswordResetRequestedV1, customer.ID.String(), models.PasswordResetRequestedPayload{
		CustomerID:  customer.ID.String(),
		Email:       customer.Email,
		ResetCode:   code,
		RequestedAt: now.UTC(),
		ExpiresAt:   now.Add(resetCodeValidity).UTC(),
	})
	return nil
}

func (s *AuthService) verificationCodeValid(customer *models.Customer, supplied string) bool {
	if customer.EmailVerificationCode == nil {
		return false
	}
	if !random.Match(supplied, *customer.EmailVerificationCode) {
		return false
	}
	if customer.EmailVerificationExpiry != nil && time.Now().After(*customer.EmailVerificationExpiry) {
		return false
	}
	return true
}
