package storage

import (
	"context"
	"fmt"

	"github.com/turfline/turfpulse/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func raceFilter(key models.RaceKey) bson.M {
	return bson.M{
		"track":       key.Track,
		"race_number": key.RaceNumber,
		"race_date":   key.RaceDate,
	}
}

// FindRace loads the race aggregate for a natural key. Returns
// ErrRaceNotFound when no race has been stored under that key.
func (s *MongoStorage) FindRace(ctx context.Context, key models.RaceKey) (*models.Race, error) {
	coll := s.db.Collection(collRaces)
	var race models.Race
	err := coll.FindOne(ctx, raceFilter(key)).Decode(&race)
	if err == mongo.ErrNoDocuments {
		return nil, ErrRaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch race %s: %w", key, err)
	}
	return &race, nil
}

// UpsertRace replaces the race aggregate stored under its natural key,
// inserting it when absent.
func (s *MongoStorage) UpsertRace(ctx context.Context, race *models.Race) error {
	coll := s.db.Collection(collRaces)
	opts := options.Replace().SetUpsert(true)
	_, err := coll.ReplaceOne(ctx, raceFilter(race.RaceKey), race, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert race %s: %w", race.RaceKey, err)
	}
	return nil
}

// UpsertWillPay stores a will-pay keyed by race + wager type + combination.
func (s *MongoStorage) UpsertWillPay(ctx context.Context, wp *models.WillPay) error {
	coll := s.db.Collection(collWillPays)
	filter := raceFilter(wp.RaceKey)
	filter["wager_type"] = wp.WagerType
	filter["combination"] = wp.Combination

	opts := options.Replace().SetUpsert(true)
	_, err := coll.ReplaceOne(ctx, filter, wp, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert will-pay %s/%s: %w", wp.RaceKey, wp.Combination, err)
	}
	return nil
}

// UpsertResult stores a race result keyed by the race's natural key. Results
// are race-defining: a result for an unseen race is simply inserted.
func (s *MongoStorage) UpsertResult(ctx context.Context, result *models.RaceResult) error {
	coll := s.db.Collection(collResults)
	opts := options.Replace().SetUpsert(true)
	_, err := coll.ReplaceOne(ctx, raceFilter(result.RaceKey), result, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert result %s: %w", result.RaceKey, err)
	}
	return nil
}
