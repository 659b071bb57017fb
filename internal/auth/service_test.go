package auth

import (
	"context"
	"testing"
	"time"

	"github.com/kunalsaini/authline-backend/internal/users"
	pkgauth "github.com/kunalsaini/authline-backend/pkg/auth"
	"github.com/kunalsaini/authline-backend/pkg/config"
	"github.com/kunalsaini/authline-backend/pkg/db/models"
	"github.com/kunalsaini/authline-backend/pkg/enums"
	pkgerrors "github.com/kunalsaini/authline-backend/pkg/errors"
	"github.com/kunalsaini/authline-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAccounts struct {
	byMobile map[string]*models.User
	updated  []*models.User
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byMobile: make(map[string]*models.User)}
}

func (f *fakeAccounts) FindByPhone(_ context.Context, mobile string) (*models.User, error) {
	user, ok := f.byMobile[mobile]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *user
	return &cpy, nil
}

func (f *fakeAccounts) Update(_ context.Context, user *models.User) error {
	cpy := *user
	f.byMobile[user.Mobile] = &cpy
	f.updated = append(f.updated, &cpy)
	return nil
}

type fakeCreator struct {
	lastInput users.CreateUserInput
	result    *users.UserDTO
	err       error
}

func (f *fakeCreator) Create(_ context.Context, input users.CreateUserInput) (*users.UserDTO, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeChallenges struct {
	codes  map[string]string
	putTTL time.Duration
	putErr error
}

func newFakeChallenges() *fakeChallenges {
	return &fakeChallenges{codes: make(map[string]string)}
}

func (f *fakeChallenges) Put(_ context.Context, phone, code string, ttl time.Duration) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.codes[phone] = code
	f.putTTL = ttl
	return nil
}

func (f *fakeChallenges) Verify(_ context.Context, phone, code string) (bool, error) {
	stored, ok := f.codes[phone]
	if !ok || stored != code {
		return false, nil
	}
	delete(f.codes, phone)
	return true, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "authline", TTL: 6 * time.Hour}
}

func testOtpConfig() config.OTPConfig {
	return config.OTPConfig{TTL: 5 * time.Minute, Digits: 6}
}

func newTestAuthService(t *testing.T, accounts *fakeAccounts, creator *fakeCreator, challenges *fakeChallenges, otpCfg config.OTPConfig) Service {
	t.Helper()
	if creator == nil {
		creator = &fakeCreator{result: &users.UserDTO{UserID: "xx01202601010101"}}
	}
	svc, err := NewService(accounts, creator, challenges, testJWTConfig(), otpCfg, config.PasswordConfig{}, nil)
	require.NoError(t, err)
	return svc
}

func seedAccount(t *testing.T, accounts *fakeAccounts, mobile, password string, deleted bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	user := &models.User{
		UserID:       "ku03202507143005",
		FirstName:    "Kunal",
		LastName:     "Saini",
		Mobile:       mobile,
		PasswordHash: hash,
		Role:         enums.RoleUser,
		IsDeleted:    deleted,
	}
	accounts.byMobile[mobile] = user
	return user
}

func TestLoginMintsTokenWithMinimalClaims(t *testing.T) {
	accounts := newFakeAccounts()
	seedAccount(t, accounts, "+919000000001", "sw0rdf!sh", false)
	svc := newTestAuthService(t, accounts, nil, newFakeChallenges(), testOtpConfig())

	result, err := svc.Login(context.Background(), LoginInput{Mobile: "+919000000001", Password: "sw0rdf!sh"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, "ku03202507143005", result.User.UserID)

	claims, err := pkgauth.ParseSessionToken(testJWTConfig(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, "ku03202507143005", claims.UserID)
	assert.Equal(t, enums.RoleUser, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	accounts := newFakeAccounts()
	seedAccount(t, accounts, "+919000000001", "sw0rdf!sh", false)
	svc := newTestAuthService(t, accounts, nil, newFakeChallenges(), testOtpConfig())

	_, err := svc.Login(context.Background(), LoginInput{Mobile: "+919000000001", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInvalidCredentials, pkgerrors.As(err).Code())
}

func TestLoginUnknownNumberIsNotFound(t *testing.T) {
	svc := newTestAuthService(t, newFakeAccounts(), nil, newFakeChallenges(), testOtpConfig())

	_, err := svc.Login(context.Background(), LoginInput{Mobile: "+919000000009", Password: "pw"})
	require.Error(t, err)
	// An unregistered number is a distinct failure from a wrong password.
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestLoginRejectsDeletedAccount(t *testing.T) {
	accounts := newFakeAccounts()
	seedAccount(t, accounts, "+919000000001", "sw0rdf!sh", true)
	svc := newTestAuthService(t, accounts, nil, newFakeChallenges(), testOtpConfig())

	_, err := svc.Login(context.Background(), LoginInput{Mobile: "+919000000001", Password: "sw0rdf!sh"})
	require.Error(t, err)
	// Deleted accounts answer exactly like unknown numbers.
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSignupDelegatesAndStripsRole(t *testing.T) {
	creator := &fakeCreator{result: &users.UserDTO{UserID: "as01202601010101"}}
	svc := newTestAuthService(t, newFakeAccounts(), creator, newFakeChallenges(), testOtpConfig())

	result, err := svc.Signup(context.Background(), users.CreateUserInput{
		FirstName: "Asha", Mobile: "+919000000002", Password: "pw",
		Role: enums.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "as01202601010101", result.UserID)
	// Self-registration can never pick a privileged role.
	assert.Equal(t, enums.Role(""), creator.lastInput.Role)
}

func TestSendOtpStoresChallenge(t *testing.T) {
	accounts := newFakeAccounts()
	seedAccount(t, accounts, "+919000000001", "pw", false)
	challenges := newFakeChallenges()
	svc := newTestAuthService(t, accounts, nil, challenges, testOtpConfig())

	result, err := svc.SendOtp(context.Background(), SendOtpInput{Mobile: "+919000000001"})
	require.NoError(t, err)
	require.Len(t, result.Code, 6)
	assert.Equal(t, result.Code, challenges.codes["+919000000001"])
	assert.Equal(t, 5*time.Minute, challenges.putTTL)
}

func TestSendOtpUnknownNumber(t *testing.T) {
	svc := newTestAuthService(t, newFakeAccounts(), nil, newFakeChallenges(), testOtpConfig())

	_, err := svc.SendOtp(context.Background(), SendOtpInput{Mobile: "+919000000009"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestResetPasswordWithStoredChallenge(t *testing.T) {
	accounts := newFakeAccounts()
	seedAccount(t, accounts, "+919000000001", "old-pw", false)
	challenges := newFakeChallenges()
	challenges.codes["+919000000001"] = "482913"
	svc := newTestAuthService(t, accounts, nil, challenges, testOtpConfig())
	ctx := context.Background()

	err := svc.ResetPassword(ctx, ResetPasswordInput{
		Mobile: "+919000000001", Otp: "482913", NewPassword: "new-pw",
	})
	require.NoError(t, err)

	updated := accounts.byMobile["+919000000001"]
	ok, err := security.VerifyPassword("new-pw", updated.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	// The challenge was consumed; replaying it fails.
	err = svc.ResetPassword(ctx, ResetPasswordInput{
		Mobile: "+919000000001", Otp: "482913", NewPassword: "again",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInvalidOtp, pkgerrors.As(err).Code())
}

func TestResetPasswordWithStaticOverride(t *testing.T) {
	accounts := newFakeAccounts()
	seedAccount(t, accounts, "+919000000001", "old-pw", false)
	otpCfg := testOtpConfig()
	otpCfg.StaticCode = "111222"
	svc := newTestAuthService(t, accounts, nil, newFakeChallenges(), otpCfg)

	err := svc.ResetPassword(context.Background(), ResetPasswordInput{
		Mobile: "+919000000001", Otp: "111222", NewPassword: "new-pw",
	})
	require.NoError(t, err)

	ok, err := security.VerifyPassword("new-pw", accounts.byMobile["+919000000001"].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetPasswordInvalidOtp(t *testing.T) {
	accounts := newFakeAccounts()
	seedAccount(t, accounts, "+919000000001", "old-pw", false)
	svc := newTestAuthService(t, accounts, nil, newFakeChallenges(), testOtpConfig())

	err := svc.ResetPassword(context.Background(), ResetPasswordInput{
		Mobile: "+919000000001", Otp: "000000", NewPassword: "new-pw",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInvalidOtp, pkgerrors.As(err).Code())
}

func TestResetPasswordUnknownNumber(t *testing.T) {
	challenges := newFakeChallenges()
	challenges.codes["+919000000009"] = "482913"
	svc := newTestAuthService(t, newFakeAccounts(), nil, challenges, testOtpConfig())

	err := svc.ResetPassword(context.Background(), ResetPasswordInput{
		Mobile: "+919000000009", Otp: "482913", NewPassword: "new-pw",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
