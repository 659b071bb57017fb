package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/kunalsaini/authline-backend/pkg/auth"
	"github.com/kunalsaini/authline-backend/pkg/config"
	"github.com/kunalsaini/authline-backend/pkg/enums"
	pkgerrors "github.com/kunalsaini/authline-backend/pkg/errors"
	"github.com/kunalsaini/authline-backend/pkg/types"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "authline", TTL: time.Hour}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, role enums.Role) string {
	t.Helper()
	token, err := pkgauth.MintSessionToken(cfg, time.Now(), pkgauth.SessionPayload{
		UserID: "ku03202507143005",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func decodeErrorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return body.Error.Code
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWTConfig(), nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	// No token at all answers 403, not 401.
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeNoToken) {
		t.Fatalf("expected NO_TOKEN got %s", code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testJWTConfig(), nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeInvalidToken) {
		t.Fatalf("expected INVALID_TOKEN got %s", code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := pkgauth.MintSessionToken(cfg, time.Now().Add(-2*time.Hour), pkgauth.SessionPayload{
		UserID: "ku03202507143005",
		Role:   enums.RoleUser,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	handler := Auth(cfg, nil)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(authTokenHeader, token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAcceptsCustomHeader(t *testing.T) {
	cfg := testJWTConfig()
	token := mintTestToken(t, cfg, enums.RoleUser)

	var captured struct {
		user string
		role string
	}
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.user = UserIDFromContext(r.Context())
		captured.role = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(authTokenHeader, token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.user != "ku03202507143005" {
		t.Fatalf("expected user id in context, got %q", captured.user)
	}
	if captured.role != string(enums.RoleUser) {
		t.Fatalf("expected role user got %s", captured.role)
	}
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	cfg := testJWTConfig()
	token := mintTestToken(t, cfg, enums.RoleAdmin)

	handler := Auth(cfg, nil)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole("admin", nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), "user"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN got %s", code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), "admin"))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
