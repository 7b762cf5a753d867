package usecase

import (
	"errors"
	"time"

	authdomain "dietlog-backend/internal/auth/domain"
)

var (
	ErrTokenMissing = errors.New("token is missing")
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// AuthUsecase verifies bearer tokens issued by the account service
type AuthUsecase interface {
	// ValidateToken returns the caller identity, or one of ErrTokenMissing,
	// ErrTokenExpired and ErrTokenInvalid
	ValidateToken(tokenString string) (*authdomain.Identity, error)

	// IssueToken signs a token for userID valid for ttl
	IssueToken(userID string, ttl time.Duration) (string, error)
}
