// Package memstore keeps every repository in process memory. It backs the
// memory store driver and the service and handler tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

type DB struct {
	mu        sync.RWMutex
	users     map[string]model.User
	videos    map[string]model.Video
	comments  map[string]model.Comment
	playlists map[string]model.Playlist
}

func New() *DB {
	return &DB{
		users:     make(map[string]model.User),
		videos:    make(map[string]model.Video),
		comments:  make(map[string]model.Comment),
		playlists: make(map[string]model.Playlist),
	}
}

// Store exposes the in-memory repositories.
func (db *DB) Store() *repository.Store {
	return &repository.Store{
		Users:     &userRepository{db: db},
		Videos:    &videoRepository{db: db},
		Comments:  &commentRepository{db: db},
		Playlists: &playlistRepository{db: db},
		Tx:        transactor{},
		Close:     func() error { return nil },
	}
}

// AddUser seeds a user. Users are owned by another service.
func (db *DB) AddUser(u model.User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users[u.ID] = u
}

// AddVideo seeds a video. Videos are owned by another service.
func (db *DB) AddVideo(v model.Video) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.videos[v.ID] = v
}

// RemoveVideo drops a seeded video, as the video service would on delete.
func (db *DB) RemoveVideo(id string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.videos, id)
}

// CommentCount returns the number of stored comments.
func (db *DB) CommentCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.comments)
}

// transactor runs fn directly; each repository call is atomic on its own.
type transactor struct{}

func (transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ===== USERS =====

type userRepository struct {
	db *DB
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, model.ErrChannelNotFound
}

// ===== VIDEOS =====

type videoRepository struct {
	db *DB
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	v, ok := r.db.videos[id]
	if !ok {
		return nil, model.ErrVideoNotFound
	}
	return &v, nil
}

// ===== COMMENTS =====

type commentRepository struct {
	db *DB
}

func copyComment(c model.Comment) *model.Comment {
	if c.ParentCommentID != nil {
		parent := *c.ParentCommentID
		c.ParentCommentID = &parent
	}
	return &c
}

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.comments[c.ID] = *copyComment(*c)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.comments[id]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	return copyComment(c), nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.comments[id]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	c.Content = content
	c.UpdatedAt = updatedAt
	r.db.comments[id] = c
	return copyComment(c), nil
}

func (r *commentRepository) ChildIDs(ctx context.Context, parentIDs []string) ([]string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	parents := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}

	var ids []string
	for _, c := range r.db.comments {
		if c.ParentCommentID != nil && parents[*c.ParentCommentID] {
			ids = append(ids, c.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *commentRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := r.db.comments[id]; ok {
			delete(r.db.comments, id)
			n++
		}
	}
	return n, nil
}

func (r *commentRepository) DeleteByVideo(ctx context.Context, videoID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for id, c := range r.db.comments {
		if c.VideoID == videoID {
			delete(r.db.comments, id)
			n++
		}
	}
	return n, nil
}

func (r *commentRepository) ListTopLevel(ctx context.Context, q model.CommentListQuery) ([]model.TopLevelCommentView, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	// Comments whose owner is gone drop out, like an inner join.
	var top []model.Comment
	for _, c := range r.db.comments {
		if c.VideoID != q.VideoID || c.ParentCommentID != nil {
			continue
		}
		if _, ok := r.db.users[c.OwnerID]; ok {
			top = append(top, c)
		}
	}

	sort.Slice(top, func(i, j int) bool {
		a, b := sortKey(top[i], q.Sort.Field), sortKey(top[j], q.Sort.Field)
		if !a.Equal(b) {
			if q.Sort.Ascending() {
				return a.Before(b)
			}
			return a.After(b)
		}
		if q.Sort.Ascending() {
			return top[i].ID < top[j].ID
		}
		return top[i].ID > top[j].ID
	})

	total := int64(len(top))
	top = window(top, q.Offset, q.Limit)

	views := make([]model.TopLevelCommentView, len(top))
	for i, c := range top {
		replies := r.repliesOf(c.ID)
		views[i] = model.TopLevelCommentView{
			ID:         c.ID,
			Content:    c.Content,
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
			ReplyCount: len(replies),
			Owner:      r.db.owner(c.OwnerID),
			Replies:    replies,
		}
	}
	return views, total, nil
}

// repliesOf returns the replies of parentID, oldest first. Caller holds the lock.
func (r *commentRepository) repliesOf(parentID string) []model.ReplyView {
	replies := []model.ReplyView{}
	for _, c := range r.db.comments {
		if c.ParentCommentID == nil || *c.ParentCommentID != parentID {
			continue
		}
		if _, ok := r.db.users[c.OwnerID]; !ok {
			continue
		}
		replies = append(replies, model.ReplyView{
			ID:              c.ID,
			ParentCommentID: parentID,
			Content:         c.Content,
			CreatedAt:       c.CreatedAt,
			UpdatedAt:       c.UpdatedAt,
			Owner:           r.db.owner(c.OwnerID),
		})
	}
	sort.Slice(replies, func(i, j int) bool {
		if !replies[i].CreatedAt.Equal(replies[j].CreatedAt) {
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		}
		return replies[i].ID < replies[j].ID
	})
	return replies
}

func sortKey(c model.Comment, field string) time.Time {
	if field == model.CommentSortUpdatedAt {
		return c.UpdatedAt
	}
	return c.CreatedAt
}

// owner returns the join projection of a user. Caller holds the lock.
func (db *DB) owner(id string) model.Owner {
	u := db.users[id]
	return u.Owner()
}

// window applies offset and limit; limit 0 keeps everything after offset.
func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
