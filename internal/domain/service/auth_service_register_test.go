package service

import (
	"context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domainErrors "github.com/MattHalloran/NLN-sub003/internal/domain/errors"
	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
)

func (s *AuthServiceTestSuite) TestSignup_Success() {
	ctx := context.Background()
	req := models.SignupRequest{
		FirstName: "Rose",
		LastName:  "Halloran",
		Email:     "rose@example.com",
		Password:  "long enough password",
	}

	s.allowSideEffects()
	s.mockPasswords.On("Hash", req.Password).Return("hashed", nil).Once()
	s.mockCustomerRepo.On("Create", ctx, mock.AnythingOfType("*models.Customer")).Return(nil).Once()
	s.mockCustomerRepo.On("AssignRole", ctx, mock.AnythingOfType("uuid.UUID"), models.RoleCustomer).Return(nil).Once()
	s.mockTokens.On("Issue", mock.AnythingOfType("*models.Customer")).Return("signed-token", &Claims{}, nil).Once()

	profile, token, err := s.authService.Signup(ctx, req, testClient)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "signed-token", token)
	assert.Equal(s.T(), req.Email, profile.Email)
	assert.False(s.T(), profile.EmailVerified)
	assert.False(s.T(), profile.AccountApproved)
	assert.Equal(s.T(), []string{models.RoleCustomer}, profile.Roles)
	s.mockCustomerRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestSignup_NewAccountStartsUnlockedWithVerificationCode() {
	ctx := context.Background()
	req := models.SignupRequest{
		FirstName: "Rose",
		LastName:  "Halloran",
		Email:     "rose@example.com",
		Password:  "long enough password",
	}

	var created *models.Customer
	s.allowSideEffects()
	s.mockPasswords.On("Hash", req.Password).Return("hashed", nil).Once()
	s.mockCustomerRepo.On("Create", ctx, mock.AnythingOfType("*models.Customer")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Customer) }).
		Return(nil).Once()
	s.mockCustomerRepo.On("AssignRole", ctx, mock.AnythingOfType("uuid.UUID"), models.RoleCustomer).Return(nil).Once()
	s.mockTokens.On("Issue", mock.AnythingOfType("*models.Customer")).Return("signed-token", &Claims{}, nil).Once()

	_, _, err := s.authService.Signup(ctx, req, testClient)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), models.AccountStatusUnlocked, created.Status)
	assert.Zero(s.T(), created.LoginAttempts)
	assert.NotNil(s.T(), created.EmailVerificationCode)
	assert.NotNil(s.T(), created.EmailVerificationExpiry)
	assert.Equal(s.T(), "light", created.Theme)
}

func (s *AuthServiceTestSuite) TestSignup_EmailAlreadyInUse() {
	ctx := context.Background()
	req := models.SignupRequest{
		FirstName: "Rose",
		LastName:  "Halloran",
		Email:     "taken@example.com",
		Password:  "long enough password",
	}

	s.allowSideEffects()
	s.mockPasswords.On("Hash", req.Password).Return("hashed", nil).Once()
	s.mockCustomerRepo.On("Create", ctx, mock.AnythingOfType("*models.Customer")).Return(domainErrors.ErrEmailExists).Once()

	_, _, err := s.authService.Signup(ctx, req, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrEmailExists)
	s.mockTokens.AssertNotCalled(s.T(), "Issue", mock.Anything)
}

func (s *AuthServiceTestSuite) TestSignup_ShortPassword_FailsValidation() {
	ctx := context.Background()
	req := models.SignupRequest{
		FirstName: "Rose",
		LastName:  "Halloran",
		Email:     "rose@example.com",
		Password:  "short",
	}

	_, _, err := s.authService.Signup(ctx, req, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrValidation)
	s.mockPasswords.AssertNotCalled(s.T(), "Hash", mock.Anything)
}
