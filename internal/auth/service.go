package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kunalsaini/authline-backend/internal/users"
	pkgauth "github.com/kunalsaini/authline-backend/pkg/auth"
	"github.com/kunalsaini/authline-backend/pkg/config"
	"github.com/kunalsaini/authline-backend/pkg/db/models"
	pkgerrors "github.com/kunalsaini/authline-backend/pkg/errors"
	"github.com/kunalsaini/authline-backend/pkg/logger"
	"github.com/kunalsaini/authline-backend/pkg/security"
	"gorm.io/gorm"
)

type accountRepository interface {
	FindByPhone(ctx context.Context, mobile string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type accountCreator interface {
	Create(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error)
}

type challengeStore interface {
	Put(ctx context.Context, phone, code string, ttl time.Duration) error
	Verify(ctx context.Context, phone, code string) (bool, error)
}

// Service exposes the credential and session operations behind the public
// auth endpoints.
type Service interface {
	Signup(ctx context.Context, input users.CreateUserInput) (*SignupResult, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	SendOtp(ctx context.Context, input SendOtpInput) (*SendOtpResult, error)
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}

type service struct {
	accounts    accountRepository
	creator     accountCreator
	challenges  challengeStore
	jwtCfg      config.JWTConfig
	otpCfg      config.OTPConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService wires the auth service.
func NewService(
	accounts accountRepository,
	creator accountCreator,
	challenges challengeStore,
	jwtCfg config.JWTConfig,
	otpCfg config.OTPConfig,
	passwordCfg config.PasswordConfig,
	logg *logger.Logger,
) (Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if creator == nil {
		return nil, fmt.Errorf("account creator required")
	}
	if challenges == nil {
		return nil, fmt.Errorf("challenge store required")
	}
	return &service{
		accounts:    accounts,
		creator:     creator,
		challenges:  challenges,
		jwtCfg:      jwtCfg,
		otpCfg:      otpCfg,
		passwordCfg: passwordCfg,
		logg:        logg,
		now:         time.Now,
	}, nil
}

// Signup registers a new account. Uniqueness and hashing are enforced by the
// account service; the image must already be hosted by the caller.
func (s *service) Signup(ctx context.Context, input users.CreateUserInput) (*SignupResult, error) {
	input.Role = ""
	dto, err := s.creator.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return &SignupResult{UserID: dto.UserID}, nil
}

// Login verifies the mobile-plus-password pair and mints a session token.
// An unregistered number is reported as not found; a wrong password for a
// known account answers with invalid credentials.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.accounts.FindByPhone(ctx, input.Mobile)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}
	if user.IsDeleted {
		// Deleted accounts answer like unregistered numbers.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	match, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, "invalid credentials")
	}

	token, err := pkgauth.MintSessionToken(s.jwtCfg, s.now(), pkgauth.SessionPayload{
		UserID: user.UserID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting session token")
	}

	return &LoginResult{Token: token, User: users.FromModel(user)}, nil
}

// SendOtp issues a fresh challenge for the given number. The code is stored
// under its TTL and handed back so the transport layer can decide whether to
// expose it.
func (s *service) SendOtp(ctx context.Context, input SendOtpInput) (*SendOtpResult, error) {
	user, err := s.accounts.FindByPhone(ctx, input.Mobile)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}
	if user.IsDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	code, err := security.GenerateOtpCode(s.otpCfg.Digits)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating otp")
	}
	if err := s.challenges.Put(ctx, input.Mobile, code, s.otpCfg.TTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing otp challenge")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"mobile": input.Mobile}), "otp challenge issued")
	}
	return &SendOtpResult{Code: code}, nil
}

// ResetPassword replaces the account password after a successful challenge.
// The static override code, when configured, is accepted for any number.
func (s *service) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	valid := s.otpCfg.StaticCode != "" && input.Otp == s.otpCfg.StaticCode
	if !valid {
		var err error
		valid, err = s.challenges.Verify(ctx, input.Mobile, input.Otp)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying otp challenge")
		}
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeInvalidOtp, "invalid otp")
	}

	user, err := s.accounts.FindByPhone(ctx, input.Mobile)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}
	if user.IsDeleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	user.PasswordHash = hash

	if err := s.accounts.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating password")
	}
	return nil
}
