// Package api определяет публичную поверхность сервиса аутентификации,
// потребляемую внешним транспортным слоем.
package api

import (
	"context"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
)

// RegisterInput содержит поля запроса на регистрацию пользователя.
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// AuthUseCase определяет операции аутентификации.
type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*entities.User, error)

	// Login принимает имя пользователя или email в качестве идентификатора.
	Login(ctx context.Context, login, password string) (*services.AuthResult, error)

	Logout(ctx context.Context, token string) error

	// VerifyToken возвращает идентификатор субъекта действительного токена.
	VerifyToken(ctx context.Context, token string) (string, error)
}
