package entities

import (
	"errors"
	"fmt"
	"time"
)

// Определяем ошибки домена пользователя как константы.
var (
	ErrEmptyUserID   = errors.New("user ID cannot be empty")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("username or email already exists")
	ErrInactiveUser  = errors.New("user account is deactivated")
)

// User представляет основную сущность домена пользователя.
// Поле PasswordHash содержит только необратимый хэш, никогда открытый пароль.
type User struct {
	ID           string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	IsActive     bool
	IsVerified   bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// String возвращает строковое представление пользователя без учетных данных.
func (u *User) String() string {
	return fmt.Sprintf("<User(name=%s %s, email=%s)>", u.FirstName, u.LastName, u.Email)
}
