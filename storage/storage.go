// Package storage persists scraped racing data in MongoDB. All writes are
// idempotent upserts keyed by natural keys, so concurrent jobs are safe
// without explicit locking.
package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	collRaces       = "races"
	collWillPays    = "will_pays"
	collResults     = "results"
	collDeadLetters = "dead_letters"
)

// ErrRaceNotFound indicates no race exists for the given natural key.
var ErrRaceNotFound = errors.New("race not found")

type MongoStorage struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

func NewMongoStorage(uri, dbName string, logger *zap.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	return &MongoStorage{client: client, db: db, logger: logger}, nil
}

func (s *MongoStorage) Close() {
	s.client.Disconnect(context.Background())
}
