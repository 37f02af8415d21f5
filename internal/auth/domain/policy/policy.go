// Package policy содержит чистые правила проверки надежности пароля.
// Проверки не имеют побочных эффектов и выполняются до любого хэширования.
package policy

import (
	"errors"
	"strings"
	"unicode"
)

// Минимальные длины пароля для двух уровней политики.
const (
	MinLength       = 6
	MinStrongLength = 8
)

// SpecialChars - набор допустимых специальных символов.
const SpecialChars = `!@#$%^&*()-_=+[]{};:,.<>?/|~`

// Ошибки политики пароля, по одной на каждое правило.
var (
	ErrTooShort         = errors.New("password must be at least 6 characters long")
	ErrStrengthTooShort = errors.New("password must be at least 8 characters long")
	ErrMissingUppercase = errors.New("password must contain at least one uppercase letter")
	ErrMissingLowercase = errors.New("password must contain at least one lowercase letter")
	ErrMissingDigit     = errors.New("password must contain at least one digit")
	ErrMissingSpecial   = errors.New("password must contain at least one special character")
)

// Validate проверяет регистрационный минимум длины пароля.
func Validate(password string) error {
	if len(password) < MinLength {
		return ErrTooShort
	}
	return nil
}

// ValidateStrength проверяет строгую политику, применяемую на уровне
// входной валидации: длина и состав символов. Возвращается первое
// нарушенное правило.
func ValidateStrength(password string) error {
	if len(password) < MinStrongLength {
		return ErrStrengthTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(SpecialChars, r):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return ErrMissingUppercase
	case !hasLower:
		return ErrMissingLowercase
	case !hasDigit:
		return ErrMissingDigit
	case !hasSpecial:
		return ErrMissingSpecial
	}

	return nil
}
