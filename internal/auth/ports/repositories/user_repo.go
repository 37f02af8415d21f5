package repositories

import (
	"context"
	"time"

	"authgate/internal/auth/domain/entities"
)

// UserRepository определяет интерфейс для операций сохранения данных пользователя.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	// FindByLogin находит пользователя по имени пользователя или email.
	FindByLogin(ctx context.Context, login string) (*entities.User, error)

	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
