package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/kunalsaini/authline-backend/pkg/enums"
)

// SessionPayload captures the data available when minting a session token.
// Only the external user id and role go into the token; profile fields and
// credentials never leave the store.
type SessionPayload struct {
	UserID string
	Role   enums.Role
}

// SessionClaims represents the typed JWT issued to clients.
type SessionClaims struct {
	UserID string     `json:"user_id"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}
