package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"authgate/internal/auth/app"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/policy"
	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/api"
)

var errDatabase = errors.New("database connection error")

func validInput() api.RegisterInput {
	return api.RegisterInput{
		Email:     "e1@x.com",
		Username:  "u1",
		FirstName: "Test",
		LastName:  "User",
		Password:  "TestPass123",
	}
}

func newUseCase() (api.AuthUseCase, *mockUserRepository, *mockPasswordService, *mockTokenService) {
	userRepo := &mockUserRepository{}
	passwordSvc := &mockPasswordService{}
	tokenSvc := &mockTokenService{}
	return app.NewAuthUseCase(userRepo, passwordSvc, tokenSvc), userRepo, passwordSvc, tokenSvc
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Успешная регистрация", func(t *testing.T) {
		useCase, userRepo, passwordSvc, _ := newUseCase()
		input := validInput()

		created := &entities.User{
			ID:           "user-123",
			Email:        input.Email,
			Username:     input.Username,
			PasswordHash: "hashed",
			IsActive:     true,
		}

		passwordSvc.On("Hash", mock.Anything, input.Password).Return("hashed", nil).Once()
		userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
			return u.Email == input.Email && u.Username == input.Username && u.PasswordHash == "hashed"
		})).Return(created, nil).Once()

		user, err := useCase.Register(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
		userRepo.AssertExpectations(t)
		passwordSvc.AssertExpectations(t)
	})

	t.Run("Короткий пароль отклоняется до хэширования", func(t *testing.T) {
		useCase, userRepo, passwordSvc, _ := newUseCase()
		input := validInput()
		input.Password = "Shor1"

		user, err := useCase.Register(ctx, input)

		require.ErrorIs(t, err, policy.ErrTooShort)
		assert.Contains(t, err.Error(), "at least 6 characters")
		assert.Nil(t, user)
		passwordSvc.AssertNotCalled(t, "Hash", mock.Anything, mock.Anything)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Некорректный email", func(t *testing.T) {
		useCase, _, _, _ := newUseCase()
		input := validInput()
		input.Email = "not-an-email"

		user, err := useCase.Register(ctx, input)

		require.ErrorIs(t, err, entities.ErrInvalidEmail)
		assert.Nil(t, user)
	})

	t.Run("Пустое имя пользователя", func(t *testing.T) {
		useCase, _, _, _ := newUseCase()
		input := validInput()
		input.Username = ""

		user, err := useCase.Register(ctx, input)

		require.ErrorIs(t, err, entities.ErrEmptyUsername)
		assert.Nil(t, user)
	})

	t.Run("Дубликат email или имени дает единую ошибку", func(t *testing.T) {
		useCase, userRepo, passwordSvc, _ := newUseCase()
		input := validInput()

		passwordSvc.On("Hash", mock.Anything, input.Password).Return("hashed", nil).Once()
		userRepo.On("Create", mock.Anything, mock.Anything).Return(nil, entities.ErrDuplicateUser).Once()

		user, err := useCase.Register(ctx, input)

		require.ErrorIs(t, err, entities.ErrDuplicateUser)
		assert.Contains(t, err.Error(), "username or email already exists")
		assert.Nil(t, user)
	})

	t.Run("Ошибка репозитория пробрасывается", func(t *testing.T) {
		useCase, userRepo, passwordSvc, _ := newUseCase()
		input := validInput()

		passwordSvc.On("Hash", mock.Anything, input.Password).Return("hashed", nil).Once()
		userRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errDatabase).Once()

		user, err := useCase.Register(ctx, input)

		require.ErrorIs(t, err, errDatabase)
		assert.Nil(t, user)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	expiresAt := now.Add(30 * time.Minute)

	storedUser := func() *entities.User {
		return &entities.User{
			ID:           "user-123",
			Email:        "e1@x.com",
			Username:     "u1",
			PasswordHash: "hashed",
			IsActive:     true,
		}
	}

	t.Run("Успешный вход по имени пользователя", func(t *testing.T) {
		useCase, userRepo, passwordSvc, tokenSvc := newUseCase()
		user := storedUser()

		userRepo.On("FindByLogin", mock.Anything, "u1").Return(user, nil).Once()
		passwordSvc.On("Verify", mock.Anything, "TestPass123", "hashed").Return(true, nil).Once()
		userRepo.On("UpdateLastLogin", mock.Anything, "user-123", mock.AnythingOfType("time.Time")).Return(nil).Once()
		tokenSvc.On("Issue", mock.Anything, "user-123", time.Duration(0)).Return("access-token", expiresAt, nil).Once()

		result, err := useCase.Login(ctx, "u1", "TestPass123")

		require.NoError(t, err)
		assert.Equal(t, "access-token", result.AccessToken)
		assert.Equal(t, "bearer", result.TokenType)
		assert.Equal(t, expiresAt, result.ExpiresAt)
		assert.Equal(t, "user-123", result.User.ID)
		require.NotNil(t, result.User.LastLoginAt)
		userRepo.AssertExpectations(t)
	})

	t.Run("Вход по email", func(t *testing.T) {
		useCase, userRepo, passwordSvc, tokenSvc := newUseCase()
		user := storedUser()

		userRepo.On("FindByLogin", mock.Anything, "e1@x.com").Return(user, nil).Once()
		passwordSvc.On("Verify", mock.Anything, "TestPass123", "hashed").Return(true, nil).Once()
		userRepo.On("UpdateLastLogin", mock.Anything, "user-123", mock.AnythingOfType("time.Time")).Return(nil).Once()
		tokenSvc.On("Issue", mock.Anything, "user-123", time.Duration(0)).Return("access-token", expiresAt, nil).Once()

		result, err := useCase.Login(ctx, "e1@x.com", "TestPass123")

		require.NoError(t, err)
		assert.Equal(t, "access-token", result.AccessToken)
	})

	t.Run("Неверный пароль и несуществующий пользователь неразличимы", func(t *testing.T) {
		useCase, userRepo, passwordSvc, _ := newUseCase()
		user := storedUser()

		userRepo.On("FindByLogin", mock.Anything, "u1").Return(user, nil).Once()
		passwordSvc.On("Verify", mock.Anything, "WrongPass123", "hashed").Return(false, nil).Once()
		userRepo.On("FindByLogin", mock.Anything, "ghost").Return(nil, entities.ErrUserNotFound).Once()

		_, wrongPasswordErr := useCase.Login(ctx, "u1", "WrongPass123")
		_, unknownUserErr := useCase.Login(ctx, "ghost", "TestPass123")

		require.ErrorIs(t, wrongPasswordErr, services.ErrInvalidCredentials)
		require.ErrorIs(t, unknownUserErr, services.ErrInvalidCredentials)
		assert.Equal(t, wrongPasswordErr.Error(), unknownUserErr.Error(),
			"error must not reveal which check failed")
	})

	t.Run("Ошибка выдачи токена", func(t *testing.T) {
		useCase, userRepo, passwordSvc, tokenSvc := newUseCase()
		user := storedUser()

		userRepo.On("FindByLogin", mock.Anything, "u1").Return(user, nil).Once()
		passwordSvc.On("Verify", mock.Anything, "TestPass123", "hashed").Return(true, nil).Once()
		userRepo.On("UpdateLastLogin", mock.Anything, "user-123", mock.AnythingOfType("time.Time")).Return(nil).Once()
		tokenSvc.On("Issue", mock.Anything, "user-123", time.Duration(0)).
			Return("", time.Time{}, services.ErrGeneratingToken).Once()

		result, err := useCase.Login(ctx, "u1", "TestPass123")

		require.ErrorIs(t, err, services.ErrTokenGenerationFailed)
		assert.Nil(t, result)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("Успешный выход", func(t *testing.T) {
		useCase, _, _, tokenSvc := newUseCase()

		tokenSvc.On("Revoke", mock.Anything, "some-token").Return(nil).Once()

		require.NoError(t, useCase.Logout(ctx, "some-token"))
		tokenSvc.AssertExpectations(t)
	})

	t.Run("Недоступность хранилища отзыва", func(t *testing.T) {
		useCase, _, _, tokenSvc := newUseCase()

		tokenSvc.On("Revoke", mock.Anything, "some-token").
			Return(services.ErrRevocationUnavailable).Once()

		err := useCase.Logout(ctx, "some-token")
		require.ErrorIs(t, err, services.ErrRevocationUnavailable)
	})
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Действительный токен", func(t *testing.T) {
		useCase, _, _, tokenSvc := newUseCase()

		tokenSvc.On("Verify", mock.Anything, "some-token").Return("user-123", nil).Once()

		subjectID, err := useCase.VerifyToken(ctx, "some-token")
		require.NoError(t, err)
		assert.Equal(t, "user-123", subjectID)
	})

	t.Run("Недействительный токен", func(t *testing.T) {
		useCase, _, _, tokenSvc := newUseCase()

		tokenSvc.On("Verify", mock.Anything, "bad-token").Return("", services.ErrInvalidToken).Once()

		subjectID, err := useCase.VerifyToken(ctx, "bad-token")
		require.ErrorIs(t, err, services.ErrInvalidToken)
		assert.Empty(t, subjectID)
	})
}

func TestValidateRegisterInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*api.RegisterInput)
		wantErr error
	}{
		{
			name:    "корректный ввод",
			mutate:  func(i *api.RegisterInput) { i.Password = "StrongPass1!" },
			wantErr: nil,
		},
		{
			name:    "нет заглавной буквы",
			mutate:  func(i *api.RegisterInput) { i.Password = "weakpass1!" },
			wantErr: policy.ErrMissingUppercase,
		},
		{
			name:    "нет строчной буквы",
			mutate:  func(i *api.RegisterInput) { i.Password = "WEAKPASS1!" },
			wantErr: policy.ErrMissingLowercase,
		},
		{
			name:    "нет цифры",
			mutate:  func(i *api.RegisterInput) { i.Password = "WeakPass!" },
			wantErr: policy.ErrMissingDigit,
		},
		{
			name:    "нет специального символа",
			mutate:  func(i *api.RegisterInput) { i.Password = "WeakPass1" },
			wantErr: policy.ErrMissingSpecial,
		},
		{
			name:    "некорректный email",
			mutate:  func(i *api.RegisterInput) { i.Email = "bad" },
			wantErr: entities.ErrInvalidEmail,
		},
		{
			name:    "пустое имя пользователя",
			mutate:  func(i *api.RegisterInput) { i.Username = "" },
			wantErr: entities.ErrEmptyUsername,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input.Password = "StrongPass1!"
			tt.mutate(&input)

			err := app.ValidateRegisterInput(input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
