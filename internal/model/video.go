package model

import "time"

// Video is owned by the video service; this backend only reads it for joins.
type Video struct {
	ID          string    `db:"id" bson:"_id" json:"id"`
	OwnerID     string    `db:"owner_id" bson:"owner" json:"owner"`
	Title       string    `db:"title" bson:"title" json:"title"`
	Thumbnail   string    `db:"thumbnail" bson:"thumbnail" json:"thumbnail"`
	Views       int64     `db:"views" bson:"views" json:"views"`
	IsPublished bool      `db:"is_published" bson:"isPublished" json:"isPublished"`
	CreatedAt   time.Time `db:"created_at" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" bson:"updatedAt" json:"updatedAt"`
}

// PlaylistVideoView is a resolved playlist entry.
type PlaylistVideoView struct {
	ID        string `bson:"_id" json:"id"`
	Title     string `bson:"title" json:"title"`
	Thumbnail string `bson:"thumbnail" json:"thumbnail"`
	Views     int64  `bson:"views" json:"views"`
	Owner     Owner  `bson:"owner" json:"owner"`
}
