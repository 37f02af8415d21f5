package services

import (
	"errors"
	"time"
)

// Ошибки, связанные с токенами доступа.
var (
	ErrInvalidToken          = errors.New("invalid access token")
	ErrGeneratingToken       = errors.New("failed to generate access token")
	ErrRevocationUnavailable = errors.New("token revocation store is unavailable")
)

// DefaultAccessTokenTTL - время жизни токена доступа по умолчанию.
const DefaultAccessTokenTTL = 30 * time.Minute

// TokenConfig содержит настройки для сервиса токенов.
type TokenConfig struct {
	SecretKey      []byte
	AccessTokenTTL time.Duration
}

// TokenClaims определяет данные, переносимые токеном доступа.
// Токен неизменяем после выдачи; jti уникален для каждой выдачи.
type TokenClaims struct {
	SubjectID string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
