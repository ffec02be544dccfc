package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vidtube/internal/model"
)

const uniqueViolation = "23505"

type playlistRepository struct {
	db *sqlx.DB
	tx Transactor
}

func NewPlaylistRepository(db *sqlx.DB) PlaylistRepository {
	return &playlistRepository{db: db, tx: NewTransactor(db)}
}

func (r *playlistRepository) Create(ctx context.Context, p *model.Playlist) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO playlists (id, owner_id, name, description, is_public, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := conn(ctx, r.db).ExecContext(ctx, query,
			p.ID, p.OwnerID, p.Name, p.Description, p.IsPublic, p.CreatedAt, p.UpdatedAt); err != nil {
			return fmt.Errorf("insert playlist: %w", err)
		}
		for _, videoID := range p.Videos {
			if err := r.insertVideo(ctx, p.ID, videoID, p.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *playlistRepository) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	db := conn(ctx, r.db)
	query := `
		SELECT id, owner_id, name, description, is_public, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`
	var p model.Playlist
	err := sqlx.GetContext(ctx, db, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}

	p.Videos = []string{}
	err = sqlx.SelectContext(ctx, db, &p.Videos,
		`SELECT video_id FROM playlist_videos WHERE playlist_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("get playlist videos: %w", err)
	}
	return &p, nil
}

func (r *playlistRepository) Update(ctx context.Context, p *model.Playlist) error {
	query := `
		UPDATE playlists
		SET name = $1, description = $2, is_public = $3, updated_at = $4
		WHERE id = $5
	`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, p.Name, p.Description, p.IsPublic, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrPlaylistNotFound
	}
	return nil
}

// Delete removes the playlist; its entries go with it via ON DELETE CASCADE.
func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrPlaylistNotFound
	}
	return nil
}

func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID string, at time.Time) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := r.insertVideo(ctx, playlistID, videoID, at); err != nil {
			return err
		}
		return r.touch(ctx, playlistID, at)
	})
}

func (r *playlistRepository) insertVideo(ctx context.Context, playlistID, videoID string, at time.Time) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO playlist_videos (playlist_id, video_id, added_at) VALUES ($1, $2, $3)`,
		playlistID, videoID, at)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return model.ErrVideoAlreadyInPlaylist
	}
	if err != nil {
		return fmt.Errorf("insert playlist video: %w", err)
	}
	return nil
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string, at time.Time) (bool, error) {
	var removed bool
	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		res, err := conn(ctx, r.db).ExecContext(ctx,
			`DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`, playlistID, videoID)
		if err != nil {
			return fmt.Errorf("delete playlist video: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		removed = true
		return r.touch(ctx, playlistID, at)
	})
	return removed, err
}

func (r *playlistRepository) touch(ctx context.Context, playlistID string, at time.Time) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE playlists SET updated_at = $1 WHERE id = $2`, at, playlistID)
	if err != nil {
		return fmt.Errorf("touch playlist: %w", err)
	}
	return nil
}

func (r *playlistRepository) RemoveVideoEverywhere(ctx context.Context, videoID string) (int64, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM playlist_videos WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, fmt.Errorf("detach video: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *playlistRepository) List(ctx context.Context, q model.PlaylistListQuery) ([]model.PlaylistView, int64, error) {
	where, args := playlistFilter(q)

	var total int64
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &total, countPlaylistsQuery(where), args...); err != nil {
		return nil, 0, fmt.Errorf("count playlists: %w", err)
	}

	views, err := r.views(ctx, playlistsQuery(where, q.Limit, q.Offset), args...)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *playlistRepository) GetView(ctx context.Context, id string) (*model.PlaylistView, error) {
	views, err := r.views(ctx, playlistsQuery("p.id = $1", 0, 0), id)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, model.ErrPlaylistNotFound
	}
	return &views[0], nil
}

type playlistRow struct {
	ID          string      `db:"id"`
	Name        string      `db:"name"`
	Description string      `db:"description"`
	IsPublic    bool        `db:"is_public"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
	Owner       model.Owner `db:"owner"`
}

type playlistVideoRow struct {
	PlaylistID string      `db:"playlist_id"`
	ID         string      `db:"id"`
	Title      string      `db:"title"`
	Thumbnail  string      `db:"thumbnail"`
	Views      int64       `db:"views"`
	Owner      model.Owner `db:"owner"`
}

// views runs a playlists query and resolves the videos of every returned playlist.
// Entries whose video or video owner no longer exists are dropped by the joins.
func (r *playlistRepository) views(ctx context.Context, query string, args ...any) ([]model.PlaylistView, error) {
	db := conn(ctx, r.db)

	var rows []playlistRow
	if err := sqlx.SelectContext(ctx, db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get playlists: %w", err)
	}

	views := make([]model.PlaylistView, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	ids := make([]string, len(rows))
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
		index[row.ID] = i
		views[i] = model.PlaylistView{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			IsPublic:    row.IsPublic,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
			Owner:       row.Owner,
		}
	}

	var videos []playlistVideoRow
	if err := sqlx.SelectContext(ctx, db, &videos, playlistVideosQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("get playlist videos: %w", err)
	}
	for _, v := range videos {
		i := index[v.PlaylistID]
		views[i].Videos = append(views[i].Videos, model.PlaylistVideoView{
			ID:        v.ID,
			Title:     v.Title,
			Thumbnail: v.Thumbnail,
			Views:     v.Views,
			Owner:     v.Owner,
		})
	}
	for i := range views {
		views[i].Summarize()
	}

	return views, nil
}
