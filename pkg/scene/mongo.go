package scene

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a MongoDB-backed scene library, for servers sharing one
// library across instances. Scene names are the document ids.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database name. Empty means "rioterm".
	Database string

	// Collection is the collection name. Empty means "scenes".
	Collection string
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "rioterm"
	}
	if cfg.Collection == "" {
		cfg.Collection = "scenes"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Seed inserts scenes that are not already present, leaving existing
// definitions untouched. Used to make the built-in set available on first
// run against an empty collection.
func (s *MongoStore) Seed(ctx context.Context, scenes ...*Scene) error {
	for _, sc := range scenes {
		_, err := s.coll.UpdateOne(ctx,
			bson.M{"_id": sc.Name},
			bson.M{"$setOnInsert": sc},
			options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed scene %s: %w", sc.Name, err)
		}
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (*Scene, error) {
	var sc Scene
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&sc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSceneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scene %s: %w", name, err)
	}
	return &sc, nil
}

func (s *MongoStore) Put(ctx context.Context, sc *Scene) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": sc.Name},
		sc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put scene %s: %w", sc.Name, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Scene, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer cur.Close(ctx)

	var out []*Scene
	for cur.Next(ctx) {
		var sc Scene
		if err := cur.Decode(&sc); err != nil {
			return nil, fmt.Errorf("decode scene: %w", err)
		}
		out = append(out, &sc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var _ Store = (*MongoStore)(nil)
