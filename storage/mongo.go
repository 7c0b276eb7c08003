package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/raushankrgupta/storedeck/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const runsCollection = "runs"

type collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// RunStore keeps one document per pipeline run
type RunStore struct {
	client *mongo.Client
	runs   collection
	logger *zap.Logger
}

// ConnectRunStore opens a MongoDB connection and verifies it with a ping.
func ConnectRunStore(ctx context.Context, uri, database string, logger *zap.Logger) (*RunStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", database))
	return &RunStore{
		client: client,
		runs:   client.Database(database).Collection(runsCollection),
		logger: logger,
	}, nil
}

// Record inserts rec, assigning an ID when it has none.
func (s *RunStore) Record(ctx context.Context, rec *models.RunRecord) error {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if _, err := s.runs.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int64) ([]models.RunRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}}).SetLimit(limit)
	cursor, err := s.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []models.RunRecord
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode runs: %w", err)
	}
	return runs, nil
}

func (s *RunStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
