// Package app реализует сценарии использования сервиса аутентификации.
package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/policy"
	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/api"
	"authgate/internal/auth/ports/repositories"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

const (
	methodRegister    = "Register"
	methodLogin       = "Login"
	methodLogout      = "Logout"
	methodVerifyToken = "VerifyToken"

	msgStartRegistration  = "starting user registration"
	msgInvalidEmailFormat = "invalid email format"
	msgEmptyUsername      = "empty username provided"
	msgInvalidPassword    = "password failed policy check"
	msgDuplicateUser      = "username or email already taken"
	msgUserRegistered     = "user registered successfully"
	msgLoginAttempt       = "login attempt"
	msgLoginNonExistent   = "login attempt for non-existent user"
	msgWrongPassword      = "invalid password provided"
	msgUserLoggedIn       = "user logged in successfully"
	msgTokenIssued        = "access token issued for user"
	msgProcessingLogout   = "processing logout request"
	msgUserLoggedOut      = "user logged out successfully"
	msgVerifyingToken     = "verifying access token"

	msgErrHashPassword    = "failed to hash password"
	msgErrCreateUser      = "failed to create user"
	msgErrFindingUser     = "error finding user by login"
	msgErrVerifyPassword  = "error verifying password"
	msgErrUpdateLastLogin = "failed to update last login timestamp"
	msgErrIssueToken      = "failed to issue access token"
	msgErrRevokeToken     = "failed to revoke access token"

	errCtxValidatingEmail    = "validating email"
	errCtxValidatingUsername = "validating username"
	errCtxValidatingPassword = "validating password"
	errCtxHashingPassword    = "hashing password"
	errCtxCreatingUser       = "creating user"
	errCtxInvalidCredentials = "invalid credentials"
	errCtxFindingUser        = "finding user"
	errCtxVerifyingPassword  = "verifying password"
	errCtxUpdatingLastLogin  = "updating last login"
	errCtxIssuingToken       = "issuing token"
	errCtxRevokingToken      = "revoking token"
	errCtxVerifyingToken     = "verifying token"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUseCaseImpl реализует интерфейс api.AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
) api.AuthUseCase {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
	}
}

// ValidateRegisterInput применяет строгую политику входной валидации:
// формат email, непустое имя пользователя и состав пароля. Вызывается
// транспортным слоем до Register.
func ValidateRegisterInput(input api.RegisterInput) error {
	if err := validateEmail(input.Email); err != nil {
		return fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}
	if input.Username == "" {
		return fmt.Errorf("%s: %w", errCtxValidatingUsername, entities.ErrEmptyUsername)
	}
	if err := policy.ValidateStrength(input.Password); err != nil {
		return fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}
	return nil
}

// Register создает нового пользователя с предоставленными учетными данными.
func (a *AuthUseCaseImpl) Register(ctx context.Context, input api.RegisterInput) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", input.Email))
	log.Debug(ctx, msgStartRegistration)

	if err := validateEmail(input.Email); err != nil {
		log.Debug(ctx, msgInvalidEmailFormat, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}
	if input.Username == "" {
		log.Debug(ctx, msgEmptyUsername)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUsername, entities.ErrEmptyUsername)
	}
	if err := policy.Validate(input.Password); err != nil {
		log.Debug(ctx, msgInvalidPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, input.Password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	newUser := &entities.User{
		Email:        input.Email,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hashedPassword,
	}

	createdUser, err := a.userRepo.Create(ctx, newUser)
	if err != nil {
		if errors.Is(err, entities.ErrDuplicateUser) {
			log.Debug(ctx, msgDuplicateUser)
			return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, entities.ErrDuplicateUser)
		}
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", createdUser.ID))
	return createdUser, nil
}

// Login аутентифицирует пользователя по имени пользователя или email.
// Несуществующий пользователь и неверный пароль возвращают одну и ту же
// ошибку, не раскрывая, какая часть проверки не прошла.
func (a *AuthUseCaseImpl) Login(ctx context.Context, login, password string) (*services.AuthResult, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("login", login))
	log.Debug(ctx, msgLoginAttempt)

	user, err := a.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyPassword, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgWrongPassword, zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	now := time.Now().UTC()
	if err := a.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Error(ctx, msgErrUpdateLastLogin, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingLastLogin, err)
	}
	user.LastLoginAt = &now

	accessToken, expiresAt, err := a.tokenSvc.Issue(ctx, user.ID, 0)
	if err != nil {
		log.Error(ctx, msgErrIssueToken, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxIssuingToken, services.ErrTokenGenerationFailed)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	log.Debug(ctx, msgTokenIssued, zap.String("userID", user.ID), zap.Time("expiresAt", expiresAt))

	return &services.AuthResult{
		AccessToken: accessToken,
		TokenType:   services.BearerTokenType,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Logout отзывает токен доступа.
func (a *AuthUseCaseImpl) Logout(ctx context.Context, token string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout))
	log.Debug(ctx, msgProcessingLogout)

	if err := a.tokenSvc.Revoke(ctx, token); err != nil {
		log.Error(ctx, msgErrRevokeToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

// VerifyToken проверяет токен доступа и возвращает идентификатор субъекта.
func (a *AuthUseCaseImpl) VerifyToken(ctx context.Context, token string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodVerifyToken))
	log.Debug(ctx, msgVerifyingToken)

	subjectID, err := a.tokenSvc.Verify(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtxVerifyingToken, err)
	}

	return subjectID, nil
}

// Валидация email.
func validateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return entities.ErrInvalidEmail
	}
	return nil
}
