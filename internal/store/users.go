package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mihailchern24-dot/taskhub/internal/models"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id int64) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	RecordLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now

	if r.db.Dialect == DialectPostgres {
		return r.db.QueryRowContext(ctx,
			`INSERT INTO users(username, password_hash, email, created_at)
			VALUES($1, $2, $3, $4)
			RETURNING id`,
			user.Username, user.PasswordHash, user.Email, now).Scan(&user.ID)
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users(username, password_hash, email, created_at)
		VALUES($1, $2, $3, $4)`,
		user.Username, user.PasswordHash, user.Email, now)
	if err != nil {
		return err
	}
	user.ID, err = result.LastInsertId()
	return err
}

func (r *userRepository) ByID(ctx context.Context, id int64) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, email, created_at, last_login
		FROM users WHERE id = $1`, id))
}

func (r *userRepository) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, email, created_at, last_login
		FROM users WHERE username = $1`, username))
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash,
		&user.Email, &user.CreatedAt, &user.LastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// Delete removes the user; the tasks foreign key cascades.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
