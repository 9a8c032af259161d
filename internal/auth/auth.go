package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the self-contained session token payload. The server keeps no
// session state; anything signed and unexpired is trusted.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates session tokens.
type TokenGenerator interface {
	Generate(userID int64, role string) (string, error)
	Validate(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		TTL:    ttl,
	}
}
