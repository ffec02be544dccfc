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

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	query := `
		INSERT INTO comments (id, video_id, owner_id, parent_comment_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		c.ID, c.VideoID, c.OwnerID, c.ParentCommentID, c.Content, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	query := `
		SELECT id, video_id, owner_id, parent_comment_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	var c model.Comment
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (*model.Comment, error) {
	query := `
		UPDATE comments
		SET content = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, video_id, owner_id, parent_comment_id, content, created_at, updated_at
	`
	var c model.Comment
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &c, query, content, updatedAt, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) ChildIDs(ctx context.Context, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var ids []string
	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &ids,
		`SELECT id FROM comments WHERE parent_comment_id = ANY($1::uuid[])`, pq.Array(parentIDs))
	if err != nil {
		return nil, fmt.Errorf("select child comments: %w", err)
	}
	return ids, nil
}

func (r *commentRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM comments WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("delete comments: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *commentRepository) DeleteByVideo(ctx context.Context, videoID string) (int64, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM comments WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, fmt.Errorf("delete video comments: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type topLevelRow struct {
	ID        string      `db:"id"`
	Content   string      `db:"content"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
	Owner     model.Owner `db:"owner"`
}

type replyRow struct {
	ID              string      `db:"id"`
	ParentCommentID string      `db:"parent_comment_id"`
	Content         string      `db:"content"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
	Owner           model.Owner `db:"owner"`
}

// ListTopLevel loads one page of top-level comments, then every reply of that
// page in a second query, and assembles the tree.
func (r *commentRepository) ListTopLevel(ctx context.Context, q model.CommentListQuery) ([]model.TopLevelCommentView, int64, error) {
	db := conn(ctx, r.db)

	var total int64
	if err := sqlx.GetContext(ctx, db, &total, countTopLevelCommentsQuery, q.VideoID); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	var rows []topLevelRow
	if err := sqlx.SelectContext(ctx, db, &rows, topLevelCommentsQuery(q.Sort), q.VideoID, q.Limit, q.Offset); err != nil {
		return nil, 0, fmt.Errorf("get comments: %w", err)
	}

	views := make([]model.TopLevelCommentView, len(rows))
	if len(rows) == 0 {
		return views, total, nil
	}

	ids := make([]string, len(rows))
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
		index[row.ID] = i
		views[i] = model.TopLevelCommentView{
			ID:        row.ID,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			Owner:     row.Owner,
			Replies:   []model.ReplyView{},
		}
	}

	var replies []replyRow
	if err := sqlx.SelectContext(ctx, db, &replies, repliesQuery, pq.Array(ids)); err != nil {
		return nil, 0, fmt.Errorf("get replies: %w", err)
	}

	for _, reply := range replies {
		i, ok := index[reply.ParentCommentID]
		if !ok {
			continue
		}
		views[i].Replies = append(views[i].Replies, model.ReplyView{
			ID:              reply.ID,
			ParentCommentID: reply.ParentCommentID,
			Content:         reply.Content,
			CreatedAt:       reply.CreatedAt,
			UpdatedAt:       reply.UpdatedAt,
			Owner:           reply.Owner,
		})
	}
	for i := range views {
		views[i].ReplyCount = len(views[i].Replies)
	}

	return views, total, nil
}
