package models

// LoginRequest is the payload accepted by POST /api/auth/login. Email and
// password may both be empty, in which case the handler falls back to the
// caller's existing session cookie.
type LoginRequest struct {
	Email            string `json:"email" validate:"required,email,max=254"`
	Password         string `json:"password" validate:"required,max=128"`
	VerificationCode string `json:"verificationCode,omitempty" validate:"omitempty,max=128"`
}

// SignupRequest is the payload accepted by POST /api/auth/signup.
type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required,max=128"`
	LastName  string `json:"lastName" validate:"required,max=128"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Theme     string `json:"theme" validate:"omitempty,max=64"`
}

// RequestPasswordResetRequest asks for a reset code to be mailed out.
type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// ResetPasswordRequest completes a password reset with a previously issued code.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Code        string `json:"code" validate:"required,max=128"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}
