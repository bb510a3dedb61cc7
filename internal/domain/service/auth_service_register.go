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

// Signup creates a new customer account, emits the verification email event,
// and logs the customer straight in. Accounts start unverified and unapproved;
// an owner reviews them before wholesale pricing unlocks.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest, client models.ClientInfo) (*models.CustomerProfile, string, error) {
	if err := s.validate.Struct(req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure_validation").Inc()
		return nil, "", domainErrors.NewValidationError(err)
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, "", domainErrors.ErrInternal
	}

	verificationCode, err := random.OpaqueCode(verificationCodeBytes)
	if err != nil {
		s.logger.Error("failed to generate verification code", zap.Error(err))
		return nil, "", domainErrors.ErrInternal
	}

	now := time.Now()
	verificationExpiry := now.Add(verificationCodeValidity)
	theme := req.Theme
	if theme == "" {
		theme = "light"
	}

	customer := &models.Customer{
		ID:                      uuid.New(),
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		Email:                   req.Email,
		PasswordHash:            &hash,
		Theme:                   theme,
		Status:                  models.AccountStatusUnlocked,
		LastLoginAttempt:        now,
		EmailVerificationCode:   &verificationCode,
		EmailVerificationExpiry: &verificationExpiry,
		CreatedAt:               now,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, domainErrors.ErrEmailExists) {
			s.audit.RecordEvent(ctx, nil, req.Email, models.AuditActionSignup, models.AuditStatusFailure,
				map[string]interface{}{"reason": "email_in_use"}, client)
			metrics.RegistrationsTotal.WithLabelValues("failure_email_in_use").Inc()
			return nil, "", domainErrors.ErrEmailExists
		}
		s.logger.Error("failed to create customer", zap.Error(err), zap.String("email", req.Email))
		return nil, "", domainErrors.ErrInternal
	}

	if err := s.customerRepo.AssignRole(ctx, customer.ID, models.RoleCustomer); err != nil {
		s.logger.Error("failed to assign customer role", zap.Error(err), zap.String("customer_id", customer.ID.String()))
	} else {
		customer.Roles = []models.Role{{Title: models.RoleCustomer}}
	}

	token, _, err := s.tokens.Issue(customer)
	if err != nil {
		s.logger.Error("failed to issue session token after signup", zap.Error(err), zap.String("customer_id", customer.ID.String()))
		return nil, "", domainErrors.ErrInternal
	}
	metrics.TokensIssuedTotal.Inc()

	s.audit.RecordEvent(ctx, &customer.ID, customer.Email, models.AuditActionSignup, models.AuditStatusSuccess, nil, client)
	s.publishAuthEvent(ctx, models.AuthCustomerRegisteredV1, customer.ID.String(), models.CustomerRegisteredPayload{
		CustomerID:   customer.ID.String(),
		Email:        customer.Email,
		RegisteredAt: now.UTC(),
	})
	s.publishNotification(ctx, models.AuthVerificationEmailRequestedV1, customer.ID.String(), models.VerificationEmailPayload{
		CustomerID: customer.ID.String(),
		Email:      customer.Email,
		Code:       verificationCode,
		ExpiresAt:  verificationExpiry.UTC(),
	})
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	return customer.ToProfile(), token, nil
}
