package repository

import (
	"fmt"
	"strings"

	"vidtube/internal/model"
)

// One builder per view shape. Each returns SQL whose column list matches the
// row struct that scans it.

var commentSortColumns = map[string]string{
	model.CommentSortCreatedAt: "c.created_at",
	model.CommentSortUpdatedAt: "c.updated_at",
}

// topLevelCommentsQuery selects one page of top-level comments joined with their owner.
// Args: $1 video id, $2 limit, $3 offset.
func topLevelCommentsQuery(sort model.CommentSort) string {
	column, ok := commentSortColumns[sort.Field]
	if !ok {
		column = commentSortColumns[model.CommentSortCreatedAt]
	}
	dir := "DESC"
	if sort.Ascending() {
		dir = "ASC"
	}

	return fmt.Sprintf(`
		SELECT c.id, c.content, c.created_at, c.updated_at,
		       u.id AS "owner.id", u.username AS "owner.username",
		       u.full_name AS "owner.full_name", u.avatar AS "owner.avatar"
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = $1 AND c.parent_comment_id IS NULL
		ORDER BY %s %s, c.id %s
		LIMIT $2 OFFSET $3
	`, column, dir, dir)
}

// countTopLevelCommentsQuery counts top-level comments of a video. Args: $1 video id.
const countTopLevelCommentsQuery = `
	SELECT COUNT(*) FROM comments c
	JOIN users u ON u.id = c.owner_id
	WHERE c.video_id = $1 AND c.parent_comment_id IS NULL
`

// repliesQuery selects every reply of the given parents, oldest first.
// Args: $1 parent id array.
const repliesQuery = `
	SELECT c.id, c.parent_comment_id, c.content, c.created_at, c.updated_at,
	       u.id AS "owner.id", u.username AS "owner.username",
	       u.full_name AS "owner.full_name", u.avatar AS "owner.avatar"
	FROM comments c
	JOIN users u ON u.id = c.owner_id
	WHERE c.parent_comment_id = ANY($1::uuid[])
	ORDER BY c.created_at ASC, c.id ASC
`

// playlistFilter translates a list query into a WHERE clause over playlists p.
// Placeholders are numbered from 1.
func playlistFilter(q model.PlaylistListQuery) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.OwnerID != "" {
		conds = append(conds, "p.owner_id = "+arg(q.OwnerID))
	}
	if q.ContainsVideo != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM playlist_videos f WHERE f.playlist_id = p.id AND f.video_id = "+arg(q.ContainsVideo)+")")
	}
	switch q.Visibility {
	case model.VisibilityPublic:
		conds = append(conds, "p.is_public = TRUE")
	case model.VisibilityPrivate:
		conds = append(conds, "p.is_public = FALSE")
	}
	if q.VisibleTo != nil {
		conds = append(conds, "(p.is_public = TRUE OR p.owner_id = "+arg(*q.VisibleTo)+")")
	}

	if len(conds) == 0 {
		return "TRUE", args
	}
	return strings.Join(conds, " AND "), args
}

// playlistsQuery selects playlists matching where, joined with their owner,
// newest first. limit 0 means no limit.
func playlistsQuery(where string, limit, offset int) string {
	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.description, p.is_public, p.created_at, p.updated_at,
		       u.id AS "owner.id", u.username AS "owner.username",
		       u.full_name AS "owner.full_name", u.avatar AS "owner.avatar"
		FROM playlists p
		JOIN users u ON u.id = p.owner_id
		WHERE %s
		ORDER BY p.created_at DESC, p.id DESC
	`, where)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}
	return query
}

// countPlaylistsQuery counts playlists matching where.
func countPlaylistsQuery(where string) string {
	return fmt.Sprintf(`
		SELECT COUNT(*) FROM playlists p
		JOIN users u ON u.id = p.owner_id
		WHERE %s
	`, where)
}

// playlistVideosQuery resolves the videos of the given playlists and each video's
// owner, in playlist order. Args: $1 playlist id array.
const playlistVideosQuery = `
	SELECT pv.playlist_id, v.id, v.title, v.thumbnail, v.views,
	       o.id AS "owner.id", o.username AS "owner.username",
	       o.full_name AS "owner.full_name", o.avatar AS "owner.avatar"
	FROM playlist_videos pv
	JOIN videos v ON v.id = pv.video_id
	JOIN users o ON o.id = v.owner_id
	WHERE pv.playlist_id = ANY($1::uuid[])
	ORDER BY pv.position ASC
`
