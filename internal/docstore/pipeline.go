package docstore

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vidtube/internal/model"
)

var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// pageResult is the shape produced by a $facet with docs and total branches.
type pageResult[T any] struct {
	Docs  []T `bson:"docs"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

func (r pageResult[T]) count() int64 {
	if len(r.Total) == 0 {
		return 0
	}
	return r.Total[0].Count
}

// ownerLookup replaces the user id in field with the owner projection. Documents
// whose owner no longer exists are dropped by the $unwind.
func ownerLookup(field string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CollUsers},
			{Key: "localField", Value: field},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: field},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "username", Value: 1},
					{Key: "fullName", Value: 1},
					{Key: "avatar", Value: 1},
				}}},
			}},
		}}},
		{{Key: "$unwind", Value: "$" + field}},
	}
}

// facet splits the remaining stages into a page branch and a total branch.
func facet(docs []bson.D) bson.D {
	return bson.D{{Key: "$facet", Value: bson.D{
		{Key: "docs", Value: docs},
		{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "count"}}}},
	}}}
}

func paginate(stages []bson.D, offset, limit int) []bson.D {
	if offset > 0 {
		stages = append(stages, bson.D{{Key: "$skip", Value: offset}})
	}
	if limit > 0 {
		stages = append(stages, bson.D{{Key: "$limit", Value: limit}})
	}
	return stages
}

// topLevelCommentsPipeline builds the comment tree page of a video: top-level
// comments sorted as requested, each with its owner, its replies oldest first
// and a reply count.
func topLevelCommentsPipeline(q model.CommentListQuery) mongo.Pipeline {
	dir := -1
	if q.Sort.Ascending() {
		dir = 1
	}
	field := q.Sort.Field
	if field != model.CommentSortUpdatedAt {
		field = model.CommentSortCreatedAt
	}

	replies := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
			{Key: "$eq", Value: bson.A{"$parentComment", "$$commentId"}},
		}}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}},
	}
	for _, stage := range ownerLookup("owner") {
		replies = append(replies, stage)
	}

	docs := []bson.D{
		{{Key: "$sort", Value: bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}}},
	}
	docs = paginate(docs, q.Offset, q.Limit)
	docs = append(docs,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CollComments},
			{Key: "let", Value: bson.D{{Key: "commentId", Value: "$_id"}}},
			{Key: "pipeline", Value: replies},
			{Key: "as", Value: "replies"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "replyCount", Value: bson.D{{Key: "$size", Value: "$replies"}}},
		}}},
	)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "video", Value: q.VideoID},
			{Key: "parentComment", Value: nil},
		}}},
	}
	pipeline = append(pipeline, ownerLookup("owner")...)
	return append(pipeline, facet(docs))
}

// playlistFilter translates a list query into a playlists match document.
func playlistFilter(q model.PlaylistListQuery) bson.D {
	filter := bson.D{}
	if q.OwnerID != "" {
		filter = append(filter, bson.E{Key: "owner", Value: q.OwnerID})
	}
	if q.ContainsVideo != "" {
		filter = append(filter, bson.E{Key: "videos", Value: q.ContainsVideo})
	}
	switch q.Visibility {
	case model.VisibilityPublic:
		filter = append(filter, bson.E{Key: "isPublic", Value: true})
	case model.VisibilityPrivate:
		filter = append(filter, bson.E{Key: "isPublic", Value: false})
	}
	if q.VisibleTo != nil {
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "isPublic", Value: true}},
			bson.D{{Key: "owner", Value: *q.VisibleTo}},
		}})
	}
	return filter
}

// videosLookup resolves the playlist's video ids in their stored order. Ids that
// no longer resolve, or whose video owner is gone, are dropped.
func videosLookup() []bson.D {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
			{Key: "$in", Value: bson.A{"$_id", "$$videoIds"}},
		}}}}},
	}
	for _, stage := range ownerLookup("owner") {
		pipeline = append(pipeline, stage)
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "position", Value: bson.D{{Key: "$indexOfArray", Value: bson.A{"$$videoIds", "$_id"}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "position", Value: 1}}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "title", Value: 1},
			{Key: "thumbnail", Value: 1},
			{Key: "views", Value: 1},
			{Key: "owner", Value: 1},
		}}},
	)

	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CollVideos},
			{Key: "let", Value: bson.D{{Key: "videoIds", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$videos", bson.A{}}}}}}},
			{Key: "pipeline", Value: pipeline},
			{Key: "as", Value: "videos"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "videoCount", Value: bson.D{{Key: "$size", Value: "$videos"}}},
			{Key: "totalViews", Value: bson.D{{Key: "$sum", Value: "$videos.views"}}},
		}}},
	}
}

// playlistViewsPipeline builds playlist views for every playlist matching filter,
// newest first. limit 0 means no limit.
func playlistViewsPipeline(filter bson.D, offset, limit int) mongo.Pipeline {
	docs := []bson.D{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	docs = paginate(docs, offset, limit)
	docs = append(docs, videosLookup()...)

	pipeline := mongo.Pipeline{{{Key: "$match", Value: filter}}}
	pipeline = append(pipeline, ownerLookup("owner")...)
	return append(pipeline, facet(docs))
}
