// Package redis содержит реализацию денилиста отозванных токенов
// поверх разделяемого кэша Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/repositories"
	redisdb "authgate/pkg/db/redis"
	"authgate/pkg/logger"
)

// Формат ключей денилиста: blacklist:{jti} -> "1" с TTL записи.
const (
	denylistKeyPrefix = "blacklist:"
	denylistValue     = "1"
)

// Константы для логирования.
const (
	logMethodRevoke    = "Revoke"
	logMethodIsRevoked = "IsRevoked"

	msgRevocationSkipped = "ttl is not positive, token already expired"
	msgEntryWritten      = "revocation entry written"

	errFailedToSet    = "failed to write revocation entry"
	errFailedToExists = "failed to check revocation entry"
)

// TokenDenylist реализует интерфейс repositories.TokenDenylist.
type TokenDenylist struct {
	client *redisdb.Client
}

// NewTokenDenylist создает новый денилист поверх клиента Redis.
func NewTokenDenylist(client *redisdb.Client) repositories.TokenDenylist {
	return &TokenDenylist{client: client}
}

// denylistKey возвращает ключ записи для jti.
func denylistKey(jti string) string {
	return denylistKeyPrefix + jti
}

// Revoke помечает jti отозванным на время ttl. Запись самоуничтожается
// вместе с истечением токена, поэтому хранилище не растет неограниченно.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("method", logMethodRevoke), zap.String("jti", jti))

	if ttl <= 0 {
		log.Debug(ctx, msgRevocationSkipped)
		return nil
	}

	if err := d.client.Set(ctx, denylistKey(jti), denylistValue, ttl); err != nil {
		log.Error(ctx, errFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w: %w", errFailedToSet, services.ErrRevocationUnavailable, err)
	}

	log.Debug(ctx, msgEntryWritten, zap.Duration("ttl", ttl))
	return nil
}

// IsRevoked проверяет наличие jti в денилисте.
func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", logMethodIsRevoked), zap.String("jti", jti))

	count, err := d.client.Exists(ctx, denylistKey(jti))
	if err != nil {
		log.Error(ctx, errFailedToExists, zap.Error(err))
		return false, fmt.Errorf("%s: %w: %w", errFailedToExists, services.ErrRevocationUnavailable, err)
	}

	return count == 1, nil
}
