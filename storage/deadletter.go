package storage

import (
	"context"
	"fmt"

	"github.com/turfline/turfpulse/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// InsertDeadLetter appends an unreconcilable record to the dead-letter
// collection. Entries are append-only; reconciliation happens later, by hand
// or by a batch job.
func (s *MongoStorage) InsertDeadLetter(ctx context.Context, entry *models.DeadLetterEntry) error {
	coll := s.db.Collection(collDeadLetters)
	_, err := coll.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to insert dead letter: %w", err)
	}
	s.logger.Warn("Record dead-lettered", zap.String("reason", entry.Reason))
	return nil
}

// ListDeadLetters returns the most recent dead-letter entries, newest first.
func (s *MongoStorage) ListDeadLetters(ctx context.Context, limit int64) ([]models.DeadLetterEntry, error) {
	coll := s.db.Collection(collDeadLetters)
	opts := options.Find().SetSort(bson.M{"received_at": -1}).SetLimit(limit)
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list dead letters: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.DeadLetterEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode dead letters: %w", err)
	}
	return entries, nil
}
