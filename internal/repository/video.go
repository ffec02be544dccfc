package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/model"
)

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	query := `
		SELECT id, owner_id, title, thumbnail, views, is_published, created_at, updated_at
		FROM videos
		WHERE id = $1
	`
	var v model.Video
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &v, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &v, nil
}
