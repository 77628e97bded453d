package analytics

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultCollection receives the data points when none is configured.
const DefaultCollection = "data_points"

// MongoConfig configures a MongoSink.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string

	// ConnectTimeout bounds connect and the first ping. Default: 10s
	ConnectTimeout time.Duration
}

// inserter is the part of *mongo.Collection the sink uses.
type inserter interface {
	InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoSink appends data points to a MongoDB collection. Each document
// holds the blobs, the doubles and the write time.
type MongoSink struct {
	client     *mongo.Client
	collection inserter
	now        func() time.Time
}

// NewMongoSink connects, pings and indexes the collection by timestamp.
func NewMongoSink(ctx context.Context, config MongoConfig) (*MongoSink, error) {
	if config.Database == "" {
		return nil, ErrMissingMongoDB
	}
	if config.Collection == "" {
		config.Collection = DefaultCollection
	}
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, config.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("analytics: connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("analytics: ping mongo: %w", err)
	}

	coll := client.Database(config.Database).Collection(config.Collection)
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: 1}},
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("analytics: create index: %w", err)
	}

	return &MongoSink{client: client, collection: coll, now: time.Now}, nil
}

func newMongoSink(coll inserter, now func() time.Time) *MongoSink {
	return &MongoSink{collection: coll, now: now}
}

// Write inserts p.
func (s *MongoSink) Write(ctx context.Context, p DataPoint) error {
	doc := bson.D{
		{Key: "blobs", Value: p.Blobs},
		{Key: "doubles", Value: p.Doubles},
		{Key: "timestamp", Value: s.now().UTC()},
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("analytics: insert: %w", err)
	}
	return nil
}

// Ping checks the primary.
func (s *MongoSink) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoSink) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var (
	_ Sink     = (*MongoSink)(nil)
	_ inserter = (*mongo.Collection)(nil)
)
