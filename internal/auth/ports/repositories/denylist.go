package repositories

import (
	"context"
	"time"
)

// TokenDenylist определяет интерфейс хранилища отозванных токенов.
// Записи живут не дольше остатка времени жизни соответствующего токена.
type TokenDenylist interface {
	// Revoke помечает jti отозванным на время ttl. Неположительный ttl
	// не выполняет действий: токен уже истек.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked проверяет наличие jti в денилисте.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
