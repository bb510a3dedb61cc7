package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domainErrors "github.com/MattHalloran/NLN-sub003/internal/domain/errors"
	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
)

var testClient = models.ClientInfo{IPAddress: "127.0.0.1", UserAgent: "test-agent"}

func strPtr(s string) *string { return &s }

func (s *AuthServiceTestSuite) activeCustomer() *models.Customer {
	hash := "$2a$10$storedhashstoredhashstoredhashstoredhashstoredhashstor"
	return &models.Customer{
		ID:               uuid.New(),
		FirstName:        "Rose",
		LastName:         "Halloran",
		Email:            "rose@example.com",
		PasswordHash:     &hash,
		Theme:            "light",
		Status:           models.AccountStatusUnlocked,
		LoginAttempts:    0,
		LastLoginAttempt: time.Now(),
		EmailVerified:    true,
		Roles:            []models.Role{{Title: models.RoleCustomer}},
	}
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	customer := s.activeCustomer()
	req := models.LoginRequest{Email: customer.Email, Password: "correct horse"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockPasswords.On("Compare", req.Password, *customer.PasswordHash).Return(true, nil).Once()
	s.mockTokens.On("Issue", customer).Return("signed-token", &Claims{}, nil).Once()
	s.mockCustomerRepo.On("RecordSuccessfulLogin", ctx, customer.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	profile, token, err := s.authService.Login(ctx, req, nil, testClient)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "signed-token", token)
	assert.Equal(s.T(), customer.Email, profile.Email)
	s.mockCustomerRepo.AssertExpectations(s.T())
	s.mockPasswords.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword_IncrementsAttempts() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.LoginAttempts = 2
	customer.LastLoginAttempt = time.Now()
	req := models.LoginRequest{Email: customer.Email, Password: "wrong"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockPasswords.On("Compare", req.Password, *customer.PasswordHash).Return(false, nil).Once()
	s.mockCustomerRepo.On("RecordFailedLogin", ctx, customer.ID, 3, models.AccountStatusUnlocked, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrBadCredentials)
	s.mockCustomerRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_FifthFailure_SoftLocks() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.LoginAttempts = 4
	customer.LastLoginAttempt = time.Now()
	req := models.LoginRequest{Email: customer.Email, Password: "wrong"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockPasswords.On("Compare", req.Password, *customer.PasswordHash).Return(false, nil).Once()
	s.mockCustomerRepo.On("RecordFailedLogin", ctx, customer.ID, 5, models.AccountStatusSoftLocked, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrBadCredentials)
	s.mockCustomerRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_SixteenthFailure_HardLocks() {
	ctx := context.Background()
	customer := s.activeCustomer()
	// Already soft locked with 15 strikes, but the window has not elapsed and
	// the caller keeps guessing. The status gate would normally reject first,
	// so simulate the window reset having just unlocked the account.
	customer.LoginAttempts = 15
	customer.LastLoginAttempt = time.Now()
	customer.Status = models.AccountStatusUnlocked
	req := models.LoginRequest{Email: customer.Email, Password: "wrong"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockPasswords.On("Compare", req.Password, *customer.PasswordHash).Return(false, nil).Once()
	s.mockCustomerRepo.On("RecordFailedLogin", ctx, customer.ID, 16, models.AccountStatusHardLocked, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrBadCredentials)
	s.mockCustomerRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_SoftLockWindowElapsed_ResetsAndSucceeds() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.Status = models.AccountStatusSoftLocked
	customer.LoginAttempts = 5
	customer.LastLoginAttempt = time.Now().Add(-10 * time.Minute)
	req := models.LoginRequest{Email: customer.Email, Password: "correct horse"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockCustomerRepo.On("ResetLoginAttempts", ctx, customer.ID, models.AccountStatusUnlocked).Return(nil).Once()
	s.mockPasswords.On("Compare", req.Password, *customer.PasswordHash).Return(true, nil).Once()
	s.mockTokens.On("Issue", customer).Return("signed-token", &Claims{}, nil).Once()
	s.mockCustomerRepo.On("RecordSuccessfulLogin", ctx, customer.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, token, err := s.authService.Login(ctx, req, nil, testClient)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "signed-token", token)
	s.mockCustomerRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_SoftLockWithZeroAttempts_ClearsAfterWindow() {
	ctx := context.Background()
	customer := s.activeCustomer()
	// A completed password reset zeroes the counter but leaves the status
	// alone; the elapsed window must still relax the soft lock.
	customer.Status = models.AccountStatusSoftLocked
	customer.LoginAttempts = 0
	customer.LastLoginAttempt = time.Now().Add(-30 * time.Minute)
	req := models.LoginRequest{Email: customer.Email, Password: "correct horse"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockCustomerRepo.On("ResetLoginAttempts", ctx, customer.ID, models.AccountStatusUnlocked).Return(nil).Once()
	s.mockPasswords.On("Compare", req.Password, *customer.PasswordHash).Return(true, nil).Once()
	s.mockTokens.On("Issue", customer).Return("signed-token", &Claims{}, nil).Once()
	s.mockCustomerRepo.On("RecordSuccessfulLogin", ctx, customer.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, token, err := s.authService.Login(ctx, req, nil, testClient)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "signed-token", token)
	s.mockCustomerRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_SoftLockedWithinWindow_Rejected() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.Status = models.AccountStatusSoftLocked
	customer.LoginAttempts = 5
	customer.LastLoginAttempt = time.Now().Add(-1 * time.Minute)
	req := models.LoginRequest{Email: customer.Email, Password: "correct horse"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()

	_, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrSoftLockout)
	// The password is never evaluated while the lock holds.
	s.mockPasswords.AssertNotCalled(s.T(), "Compare", mock.Anything, mock.Anything)
	s.mockCustomerRepo.AssertNotCalled(s.T(), "ResetLoginAttempts", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_HardLockNeverAutoClears() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.Status = models.AccountStatusHardLocked
	customer.LoginAttempts = 16
	customer.LastLoginAttempt = time.Now().Add(-24 * time.Hour)
	req := models.LoginRequest{Email: customer.Email, Password: "correct horse"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()

	_, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrHardLockout)
	s.mockCustomerRepo.AssertNotCalled(s.T(), "ResetLoginAttempts", mock.Anything, mock.Anything, mock.Anything)
	s.mockPasswords.AssertNotCalled(s.T(), "Compare", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_DeletedAccount() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.Status = models.AccountStatusDeleted
	req := models.LoginRequest{Email: customer.Email, Password: "correct horse"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()

	_, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrNoCustomer)
	s.mockPasswords.AssertNotCalled(s.T(), "Compare", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmail_BurnsDecoyCompare() {
	ctx := context.Background()
	req := models.LoginRequest{Email: "nobody@example.com", Password: "whatever1"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(nil, domainErrors.ErrCustomerNotFound).Once()
	s.mockPasswords.On("Compare", req.Password, decoyPasswordHash).Return(false, nil).Once()

	_, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrBadCredentials)
	s.mockPasswords.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_NoPasswordOnFile_IssuesResetCode() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.PasswordHash = nil
	req := models.LoginRequest{Email: customer.Email, Password: "anything1"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockCustomerRepo.On("SetResetPasswordCode", ctx, customer.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrMustResetPassword)
	s.mockCustomerRepo.AssertExpectations(s.T())
	s.mockPasswords.AssertNotCalled(s.T(), "Compare", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_ValidVerificationCode_MarksVerified() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.EmailVerified = false
	customer.EmailVerificationCode = strPtr("valid-code")
	expiry := time.Now().Add(24 * time.Hour)
	customer.EmailVerificationExpiry = &expiry
	req := models.LoginRequest{Email: customer.Email, Password: "correct horse", VerificationCode: "valid-code"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockCustomerRepo.On("MarkEmailVerified", ctx, customer.ID).Return(nil).Once()
	s.mockPasswords.On("Compare", req.Password, mock.AnythingOfType("string")).Return(true, nil).Once()
	s.mockTokens.On("Issue", customer).Return("signed-token", &Claims{}, nil).Once()
	s.mockCustomerRepo.On("RecordSuccessfulLogin", ctx, customer.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	profile, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.NoError(s.T(), err)
	assert.True(s.T(), profile.EmailVerified)
	s.mockCustomerRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_WrongVerificationCode_LoginStillSucceeds() {
	ctx := context.Background()
	customer := s.activeCustomer()
	customer.EmailVerified = false
	customer.EmailVerificationCode = strPtr("valid-code")
	req := models.LoginRequest{Email: customer.Email, Password: "correct horse", VerificationCode: "wrong-code"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockPasswords.On("Compare", req.Password, mock.AnythingOfType("string")).Return(true, nil).Once()
	s.mockTokens.On("Issue", customer).Return("signed-token", &Claims{}, nil).Once()
	s.mockCustomerRepo.On("RecordSuccessfulLogin", ctx, customer.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	profile, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.NoError(s.T(), err)
	assert.False(s.T(), profile.EmailVerified)
	s.mockCustomerRepo.AssertNotCalled(s.T(), "MarkEmailVerified", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_EmptyCredentials_AnswersFromSession() {
	ctx := context.Background()
	customer := s.activeCustomer()
	ident := &models.RequestIdentity{CustomerID: customer.ID, ValidToken: true}

	s.mockCustomerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil).Once()

	profile, token, err := s.authService.Login(ctx, models.LoginRequest{}, ident, testClient)

	assert.NoError(s.T(), err)
	assert.Empty(s.T(), token)
	assert.Equal(s.T(), customer.Email, profile.Email)
	s.mockCustomerRepo.AssertNotCalled(s.T(), "FindByEmail", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_EmptyCredentials_NoSession() {
	ctx := context.Background()

	_, _, err := s.authService.Login(ctx, models.LoginRequest{}, nil, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrBadCredentials)
	s.mockCustomerRepo.AssertNotCalled(s.T(), "FindByEmail", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_MalformedEmail_FailsValidation() {
	ctx := context.Background()
	req := models.LoginRequest{Email: "not-an-email", Password: "whatever1"}

	_, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrValidation)
	s.mockCustomerRepo.AssertNotCalled(s.T(), "FindByEmail", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_CompareError_TreatedAsMismatch() {
	ctx := context.Background()
	customer := s.activeCustomer()
	req := models.LoginRequest{Email: customer.Email, Password: "correct horse"}

	s.allowSideEffects()
	s.mockCustomerRepo.On("FindByEmail", ctx, req.Email).Return(customer, nil).Once()
	s.mockPasswords.On("Compare", req.Password, *customer.PasswordHash).Return(false, assert.AnError).Once()
	s.mockCustomerRepo.On("RecordFailedLogin", ctx, customer.ID, 1, models.AccountStatusUnlocked, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, _, err := s.authService.Login(ctx, req, nil, testClient)

	assert.ErrorIs(s.T(), err, domainErrors.ErrBadCredentials)
	s.mockCustomerRepo.AssertExpectations(s.T())
}
