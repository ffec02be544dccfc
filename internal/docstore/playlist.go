package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"vidtube/internal/model"
)

type playlistRepository struct {
	coll *mongo.Collection
}

func (r *playlistRepository) Create(ctx context.Context, p *model.Playlist) error {
	doc := *p
	if doc.Videos == nil {
		doc.Videos = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

func (r *playlistRepository) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	var p model.Playlist
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	if p.Videos == nil {
		p.Videos = []string{}
	}
	return &p, nil
}

func (r *playlistRepository) Update(ctx context.Context, p *model.Playlist) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: p.Name},
		{Key: "description", Value: p.Description},
		{Key: "isPublic", Value: p.IsPublic},
		{Key: "updatedAt", Value: p.UpdatedAt},
	}}}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: p.ID}}, update)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrPlaylistNotFound
	}
	return nil
}

func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrPlaylistNotFound
	}
	return nil
}

// AddVideo pushes videoID only when it is not present yet, so concurrent adds
// cannot create duplicates.
func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID string, at time.Time) error {
	filter := bson.D{
		{Key: "_id", Value: playlistID},
		{Key: "videos", Value: bson.D{{Key: "$ne", Value: videoID}}},
	}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "videos", Value: videoID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: at}}},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("add playlist video: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if err := r.exists(ctx, playlistID); err != nil {
		return err
	}
	return model.ErrVideoAlreadyInPlaylist
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string, at time.Time) (bool, error) {
	filter := bson.D{
		{Key: "_id", Value: playlistID},
		{Key: "videos", Value: videoID},
	}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "videos", Value: videoID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: at}}},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("remove playlist video: %w", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	return false, r.exists(ctx, playlistID)
}

func (r *playlistRepository) exists(ctx context.Context, id string) error {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("count playlists: %w", err)
	}
	if n == 0 {
		return model.ErrPlaylistNotFound
	}
	return nil
}

func (r *playlistRepository) RemoveVideoEverywhere(ctx context.Context, videoID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.D{{Key: "videos", Value: videoID}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "videos", Value: videoID}}}},
	)
	if err != nil {
		return 0, fmt.Errorf("detach video: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *playlistRepository) List(ctx context.Context, q model.PlaylistListQuery) ([]model.PlaylistView, int64, error) {
	return r.views(ctx, playlistFilter(q), q.Offset, q.Limit)
}

func (r *playlistRepository) GetView(ctx context.Context, id string) (*model.PlaylistView, error) {
	views, _, err := r.views(ctx, bson.D{{Key: "_id", Value: id}}, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, model.ErrPlaylistNotFound
	}
	return &views[0], nil
}

func (r *playlistRepository) views(ctx context.Context, filter bson.D, offset, limit int) ([]model.PlaylistView, int64, error) {
	cur, err := r.coll.Aggregate(ctx, playlistViewsPipeline(filter, offset, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate playlists: %w", err)
	}

	var results []pageResult[model.PlaylistView]
	if err := cur.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("decode playlists: %w", err)
	}
	if len(results) == 0 {
		return []model.PlaylistView{}, 0, nil
	}

	views := results[0].Docs
	if views == nil {
		views = []model.PlaylistView{}
	}
	for i := range views {
		views[i].Summarize()
	}
	return views, results[0].count(), nil
}
