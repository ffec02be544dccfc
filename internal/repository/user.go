package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/model"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, username, full_name, avatar, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var u model.User
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &u, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

// GetByUsername matches usernames case-insensitively.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, full_name, avatar, created_at, updated_at
		FROM users
		WHERE lower(username) = lower($1)
	`
	var u model.User
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &u, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrChannelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}
