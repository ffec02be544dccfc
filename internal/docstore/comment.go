package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vidtube/internal/model"
)

type commentRepository struct {
	coll *mongo.Collection
}

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (*model.Comment, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "content", Value: content},
		{Key: "updatedAt", Value: updatedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c model.Comment
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
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
	filter := bson.D{{Key: "parentComment", Value: bson.D{{Key: "$in", Value: parentIDs}}}}
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find child comments: %w", err)
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode child comments: %w", err)
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (r *commentRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return 0, fmt.Errorf("delete comments: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *commentRepository) DeleteByVideo(ctx context.Context, videoID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "video", Value: videoID}})
	if err != nil {
		return 0, fmt.Errorf("delete video comments: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *commentRepository) ListTopLevel(ctx context.Context, q model.CommentListQuery) ([]model.TopLevelCommentView, int64, error) {
	cur, err := r.coll.Aggregate(ctx, topLevelCommentsPipeline(q))
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate comments: %w", err)
	}

	var results []pageResult[model.TopLevelCommentView]
	if err := cur.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("decode comments: %w", err)
	}
	if len(results) == 0 {
		return []model.TopLevelCommentView{}, 0, nil
	}

	views := results[0].Docs
	if views == nil {
		views = []model.TopLevelCommentView{}
	}
	for i := range views {
		if views[i].Replies == nil {
			views[i].Replies = []model.ReplyView{}
		}
		views[i].ReplyCount = len(views[i].Replies)
	}
	return views, results[0].count(), nil
}
