package auth

import (
	"github.com/golang-jwt/jwt/v4"
)

// JWTClaims are the custom claims embedded in both access and refresh tokens.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Session intents recorded in Redis. A refresh token is only honored while the
// intent is ACTIVE; logout flips it so stolen refresh tokens die with the
// session.
const (
	IntentActive    = "ACTIVE"
	IntentLoggedOut = "EXPLICITLY_LOGGED_OUT"
)
