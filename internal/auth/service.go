package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/velonis/field-reports/internal"
)

// Credentials is what the credential store hands back for a login attempt.
type Credentials struct {
	UserID       int64
	Role         string
	PasswordHash string
}

type Repository interface {
	GetCredentials(username string) (*Credentials, error)
}

type Service struct {
	repo   Repository
	tokens TokenGenerator
}

func NewService(repo Repository, tokens TokenGenerator) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
	}
}

// Login verifies the username/password pair and issues a session token.
// Unknown username and wrong password both return ErrInvalidCredentials.
func (s *Service) Login(dto LoginDTO) (LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return LoginResponse{}, err
	}

	creds, err := s.repo.GetCredentials(dto.Username)
	if err != nil {
		return LoginResponse{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return LoginResponse{}, internal.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(creds.UserID, creds.Role)
	if err != nil {
		return LoginResponse{}, internal.NewInternalError("failed to issue token", err)
	}

	return LoginResponse{
		Token:  token,
		UserID: creds.UserID,
		Role:   creds.Role,
	}, nil
}

// ValidateToken checks signature and expiry and returns the session claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return s.tokens.Validate(tokenString)
}

func (j *JWTTokenGenerator) Generate(userID int64, role string) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		// Expired, malformed and unsigned tokens are all rejected the same way.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrInvalidToken
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
