// Package services предоставляет реализации сервисов аутентификации:
// хэширование паролей и работу с токенами доступа.
package services

import (
	"time"

	"authgate/internal/auth/ports/repositories"
	"authgate/internal/auth/ports/services"
)

// ServiceFactory создает все необходимые сервисы для аутентификации.
type ServiceFactory struct {
	passwordService services.PasswordService
	tokenService    services.TokenService
}

// NewServiceFactory создает новую фабрику сервисов.
func NewServiceFactory(
	tokenSecretKey string,
	accessTokenTTL time.Duration,
	bcryptCost int,
	denylist repositories.TokenDenylist,
) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost),
		tokenService:    NewJWT(tokenSecretKey, accessTokenTTL, denylist),
	}
}

// PasswordService возвращает сервис для работы с паролями.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис для работы с токенами.
func (f *ServiceFactory) TokenService() services.TokenService {
	return f.tokenService
}
