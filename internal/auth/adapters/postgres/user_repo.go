// Package postgres содержит реализацию репозитория пользователей поверх Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/ports/repositories"
	"authgate/pkg/logger"
)

// PgxPoolInterface определяет используемое подмножество пула pgx.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

const userColumns = `id, email, username, first_name, last_name, password_hash,
        is_active, is_verified, last_login_at, created_at, updated_at`

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// scanUser читает строку пользователя в сущность.
func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsVerified,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create создает нового пользователя. Нарушение уникальности имени или
// email (любой колонки) отображается в единую ошибку ErrDuplicateUser.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	query := `
        INSERT INTO users (email, username, first_name, last_name, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + userColumns

	createdUser, err := scanUser(r.pool.QueryRow(ctx, query,
		user.Email,
		user.Username,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
	))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			log.Debug(ctx, "unique constraint violated", zap.String("constraint", pgErr.ConstraintName))
			return nil, entities.ErrDuplicateUser
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return createdUser, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE id = $1
    `

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return user, nil
}

// FindByLogin находит пользователя по имени пользователя или email.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByLogin"))

	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE username = $1 OR email = $1
    `

	user, err := scanUser(r.pool.QueryRow(ctx, query, login))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found by login")
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by login", zap.Error(err))
		return nil, fmt.Errorf("error querying user by login: %w", err)
	}

	return user, nil
}

// UpdateLastLogin обновляет отметку времени последней аутентификации.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "UpdateLastLogin"))

	query := `
        UPDATE users
        SET last_login_at = $2, updated_at = $2
        WHERE id = $1
    `

	tag, err := r.pool.Exec(ctx, query, id, at.UTC())
	if err != nil {
		log.Error(ctx, "error updating last login", zap.Error(err))
		return fmt.Errorf("error updating last login: %w", err)
	}

	if tag.RowsAffected() == 0 {
		log.Debug(ctx, "user not found for last login update", zap.String("id", id))
		return entities.ErrUserNotFound
	}

	return nil
}
