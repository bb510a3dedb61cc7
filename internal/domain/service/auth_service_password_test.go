package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domainErrors "github.com/MattHalloran/NLN-sub003/internal/domain/errors"
	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
)

func (s *AuthServiceTestSuite) TestRequestPasswordReset_Success() {
	ctx := context.Background()
	customer := s.activeCustomer()
	req := models.RequestPasswordResetRequest{Email: customer.Email}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockCustomerRepo.On("SetResetPasswordCode", ctx, customer.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := s.authService.RequestPasswordReset(ctx, req, testClient)

	assert.NoError(s.T(), err)
	s.mockCustomerRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestRequestPasswordReset_UnknownEmail_SilentlySucceeds() {
	ctx := context.Background()
	req := models.RequestPasswordResetRequest{Email: "nobody@example.com"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(nil, domainErrors.ErrCustomerNotFound).Once()

	err := s.authService.RequestPasswordReset(ctx, req, testClient)

	assert.NoError(s.T(), err)
	s.mockCustomerRepo.AssertNotCalled(s.T(), "SetResetPasswordCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestResetPassword_Success() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.ResetPasswordCode = strPtr("reset-code")
	requestedAt := time.Now().Add(-1 * time.Hour)
	customer.LastResetPasswordRequest = &requestedAt
	req := models.ResetPasswordRequest{Email: customer.Email, Code: "reset-code", NewPassword: "brand new password"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockPasswords.On("Hash", req.NewPassword).Return("new-hash", nil).Once()
	s.mockCustomerRepo.On("UpdatePasswordHash", ctx, customer.ID, "new-hash").Return(nil).Once()

	err := s.authService.ResetPassword(ctx, req, testClient)

	assert.NoError(s.T(), err)
	s.mockCustomerRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestResetPassword_WrongCode() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.ResetPasswordCode = strPtr("reset-code")
	requestedAt := time.Now().Add(-1 * time.Hour)
	customer.LastResetPasswordRequest = &requestedAt
	req := models.ResetPasswordRequest{Email: customer.Email, Code: "wrong-code", NewPassword: "brand new password"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()

	err := s.authService.ResetPassword(ctx, req, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidResetCode)
	s.mockCustomerRepo.AssertNotCalled(s.T(), "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestResetPassword_NoOutstandingCode() {
	ctx := context.Background()
	customer := s.activeCustomer()
	req := models.ResetPasswordRequest{Email: customer.Email, Code: "anything", NewPassword: "brand new password"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()

	err := s.authService.ResetPassword(ctx, req, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidResetCode)
}

func (s *AuthServiceTestSuite) TestResetPassword_ExpiredCode() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.ResetPasswordCode = strPtr("reset-code")
	requestedAt := time.Now().Add(-49 * time.Hour)
	customer.LastResetPasswordRequest = &requestedAt
	req := models.ResetPasswordRequest{Email: customer.Email, Code: "reset-code", NewPassword: "brand new password"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()

	err := s.authService.ResetPassword(ctx, req, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrExpiredResetCode)
	s.mockCustomerRepo.AssertNotCalled(s.T(), "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestResetPassword_UnknownEmail_MapsToInvalidCode() {
	ctx := context.Background()
	req := models.ResetPasswordRequest{Email: "nobody@example.com", Code: "reset-code", NewPassword: "brand new password"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(nil, domainErrors.ErrCustomerNotFound).Once()

	err := s.authService.ResetPassword(ctx, req, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidResetCode)
}

func (s *AuthServiceTestSuite) TestProfile_NoValidToken() {
	ctx := context.Background()

	_, err := s.authService.Profile(ctx, &models.RequestIdentity{})

	assert.ErrorIs(s.T(), err, domainErrors.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestProfile_AccountGone() {
	ctx := context.Background()
	customer := s.activeCustomer()
	ident := &models.RequestIdentity{CustomerID: customer.ID, ValidToken: true}

	s.mockCustomerRepo.On("FindByID", ctx, customer.ID).Return(nil, domainErrors.ErrCustomerNotFound).Once()

	_, err := s.authService.Profile(ctx, ident)

	assert.ErrorIs(s.T(), err, domainErrors.ErrUnauthorized)
}
