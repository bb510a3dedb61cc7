package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/MattHalloran/NLN-sub003/internal/domain/errors"
	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
	"github.com/MattHalloran/NLN-sub003/internal/utils/metrics"
	"github.com/MattHalloran/NLN-sub003/internal/utils/random"
)

// RequestPasswordReset issues a reset code for the account, if it exists. The
// outcome is identical either way so the endpoint cannot be used to probe for
// registered emails.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req models.RequestPasswordResetRequest, client models.ClientInfo) error {
	if err := s.validate.Struct(req); err != nil {
		return domainErrors.NewValidationError(err)
	}

	customer, err := s.customerRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrCustomerNotFound) {
			s.audit.RecordEvent(ctx, nil, req.Email, models.AuditActionPasswordReset, models.AuditStatusFailure,
				map[string]interface{}{"reason": "account_not_found"}, client)
			metrics.PasswordResetRequestsTotal.WithLabelValues("failure_account_not_found").Inc()
			return nil
		}
		s.logger.Error("failed to look up account for password reset", zap.Error(err), zap.String("email", req.Email))
		return domainErrors.ErrInternal
	}

	if err := s.issueResetCode(ctx, customer, client); err != nil {
		return domainErrors.ErrInternal
	}

	s.audit.RecordEvent(ctx, &customer.ID, customer.Email, models.AuditActionPasswordReset, models.AuditStatusSuccess,
		map[string]interface{}{"stage": "requested"}, client)
	metrics.PasswordResetRequestsTotal.WithLabelValues("success").Inc()
	return nil
}

// ResetPassword completes a reset with a previously issued code. Codes are
// single-use and expire 48 hours after the request that created them.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest, client models.ClientInfo) error {
	if err := s.validate.Struct(req); err != nil {
		return domainErrors.NewValidationError(err)
	}

	customer, err := s.customerRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrCustomerNotFound) {
			return domainErrors.ErrInvalidResetCode
		}
		s.logger.Error("failed to look up account for password reset", zap.Error(err), zap.String("email", req.Email))
		return domainErrors.ErrInternal
	}

	if customer.ResetPasswordCode == nil || !random.Match(req.Code, *customer.ResetPasswordCode) {
		s.audit.RecordEvent(ctx, &customer.ID, customer.Email, models.AuditActionPasswordReset, models.AuditStatusFailure,
			map[string]interface{}{"reason": "invalid_code"}, client)
		return domainErrors.ErrInvalidResetCode
	}

	if customer.LastResetPasswordRequest == nil ||
		time.Since(*customer.LastResetPasswordRequest) > resetCodeValidity {
		s.audit.RecordEvent(ctx, &customer.ID, customer.Email, models.AuditActionPasswordReset, models.AuditStatusFailure,
			map[string]interface{}{"reason": "expired_code"}, client)
		return domainErrors.ErrExpiredResetCode
	}

	hash, err := s.passwords.Hash(req.NewPassword)
	if err != nil {
		s.logger.Error("failed to hash new password", zap.Error(err), zap.String("customer_id", customer.ID.String()))
		return domainErrors.ErrInternal
	}

	// Installs the new hash, consumes the code, and zeroes the attempt
	// counter. Lockout status is left alone; only the time window or an admin
	// relaxes it.
	if err := s.customerRepo.UpdatePasswordHash(ctx, customer.ID, hash); err != nil {
		s.logger.Error("failed to update password hash", zap.Error(err), zap.String("customer_id", customer.ID.String()))
		return domainErrors.ErrInternal
	}

	s.audit.RecordEvent(ctx, &customer.ID, customer.Email, models.AuditActionPasswordReset, models.AuditStatusSuccess,
		map[string]interface{}{"stage": "completed"}, client)
	s.publishAuthEvent(ctx, models.AuthPasswordResetCompletedV1, customer.ID.String(), models.PasswordResetRequestedPayload{
		CustomerID:  customer.ID.String(),
		Email:       customer.Email,
		RequestedAt: time.Now().UTC(),
	})
	return nil
}
