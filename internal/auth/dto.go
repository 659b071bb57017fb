package auth

import "github.com/kunalsaini/authline-backend/internal/users"

// LoginInput carries mobile-plus-password credentials.
type LoginInput struct {
	Mobile   string
	Password string
}

// LoginResult is returned on successful verification.
type LoginResult struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// SignupResult identifies the freshly created account.
type SignupResult struct {
	UserID string `json:"userId"`
}

// SendOtpInput identifies the account requesting a challenge.
type SendOtpInput struct {
	Mobile string
}

// SendOtpResult carries the issued challenge back to the transport layer.
// Without an SMS gateway the code is surfaced to the caller in dev mode only.
type SendOtpResult struct {
	Code string
}

// ResetPasswordInput carries an OTP-backed password reset request.
type ResetPasswordInput struct {
	Mobile      string
	Otp         string
	NewPassword string
}
