package repository

import "github.com/jmoiron/sqlx"

// NewPostgresStore wires the sqlx repositories around one connection pool.
func NewPostgresStore(db *sqlx.DB) *Store {
	return &Store{
		Users:     NewUserRepository(db),
		Videos:    NewVideoRepository(db),
		Comments:  NewCommentRepository(db),
		Playlists: NewPlaylistRepository(db),
		Tx:        NewTransactor(db),
		Close:     db.Close,
	}
}
