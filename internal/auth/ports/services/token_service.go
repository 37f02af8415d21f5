package services

import (
	"context"
	"time"
)

// TokenService определяет интерфейс для выдачи, проверки и отзыва токенов доступа.
type TokenService interface {
	// Issue выдает подписанный токен для субъекта. Неположительный ttl
	// означает настроенное время жизни по умолчанию.
	Issue(ctx context.Context, subjectID string, ttl time.Duration) (string, time.Time, error)

	// Verify проверяет подпись, срок действия и отсутствие токена в
	// денилисте, возвращая идентификатор субъекта.
	Verify(ctx context.Context, token string) (string, error)

	// Revoke помещает идентификатор токена в денилист на остаток его
	// времени жизни. Отзыв уже истекшего токена не выполняет действий.
	Revoke(ctx context.Context, token string) error
}
