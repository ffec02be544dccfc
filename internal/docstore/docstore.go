// Package docstore implements the repositories on MongoDB. Views are built with
// aggregation pipelines so owner and reply resolution happens in the database.
package docstore

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vidtube/internal/repository"
)

// Collection names
const (
	CollUsers     = "users"
	CollVideos    = "videos"
	CollComments  = "comments"
	CollPlaylists = "playlists"
)

var (
	ErrConnectDB       = fmt.Errorf("unable to establish DB connection")
	ErrDBNotResponding = fmt.Errorf("DB not responding")
)

type Storage struct {
	client *mongo.Client
	dbName string

	// transactions wraps multi-document writes in a session transaction.
	// Requires a replica set.
	transactions bool
}

func New(ctx context.Context, uri, dbName string, transactions bool) (*Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectDB, err)
	}

	s := &Storage{client: client, dbName: dbName, transactions: transactions}
	if err := s.Ping(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}

	log.Infof("[Docstore] Connected to mongo db=%s transactions=%t", dbName, transactions)
	return s, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrDBNotResponding, err)
	}
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) coll(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

// EnsureIndexes creates the indexes the view pipelines rely on.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollComments: {
			{Keys: bson.D{{Key: "video", Value: 1}, {Key: "parentComment", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "parentComment", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		CollPlaylists: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "videos", Value: 1}}},
		},
		CollUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetCollation(caseInsensitive)},
		},
	}

	for coll, models := range indexes {
		if _, err := s.coll(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	log.Info("[Docstore] Indexes ready")
	return nil
}

// Store exposes the mongo repositories.
func (s *Storage) Store() *repository.Store {
	return &repository.Store{
		Users:     &userRepository{coll: s.coll(CollUsers)},
		Videos:    &videoRepository{coll: s.coll(CollVideos)},
		Comments:  &commentRepository{coll: s.coll(CollComments)},
		Playlists: &playlistRepository{coll: s.coll(CollPlaylists)},
		Tx:        s,
		Close:     func() error { return s.Close(context.Background()) },
	}
}

// WithinTx runs fn in a session transaction when transactions are enabled,
// otherwise it runs fn directly.
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactions {
		return fn(ctx)
	}
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Drop removes every collection. Tests only.
func (s *Storage) Drop(ctx context.Context) error {
	return s.client.Database(s.dbName).Drop(ctx)
}
