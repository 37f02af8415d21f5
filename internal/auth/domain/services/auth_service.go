package services

import (
	"errors"
	"time"

	"authgate/internal/auth/domain/entities"
)

// Ошибки домена аутентификации.
var (
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrTokenGenerationFailed = errors.New("failed to generate access token")
)

// BearerTokenType - тип выдаваемого токена доступа.
const BearerTokenType = "bearer"

// AuthResult представляет результат успешной аутентификации.
type AuthResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	User        *entities.User
}
