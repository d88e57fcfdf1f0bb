// Package ingest normalizes extracted records into durable storage. Records
// are routed by natural key: matched records merge into existing entities,
// race-defining records insert new ones, and records that need a parent race
// that does not exist yet go to the dead-letter store instead of being
// dropped or erroring.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/turfline/turfpulse/models"
	"github.com/turfline/turfpulse/scraper"
	"github.com/turfline/turfpulse/storage"
	"go.uber.org/zap"
)

// ReasonNoMatchingRace is the dead-letter reason for odds arriving before
// their race record exists.
const ReasonNoMatchingRace = "no matching race found"

// Store is the durable-store surface the ingestor writes through.
type Store interface {
	FindRace(ctx context.Context, key models.RaceKey) (*models.Race, error)
	UpsertRace(ctx context.Context, race *models.Race) error
	UpsertWillPay(ctx context.Context, wp *models.WillPay) error
	UpsertResult(ctx context.Context, result *models.RaceResult) error
	InsertDeadLetter(ctx context.Context, entry *models.DeadLetterEntry) error
}

type Ingestor struct {
	store  Store
	logger *zap.Logger
}

func NewIngestor(store Store, logger *zap.Logger) *Ingestor {
	return &Ingestor{store: store, logger: logger}
}

// Ingest persists an extraction's records and returns how many were stored.
// Malformed records are logged and dropped; odds without a parent race are
// dead-lettered. Only store failures surface as errors.
func (in *Ingestor) Ingest(ctx context.Context, ext scraper.Extraction) (int, error) {
	count := 0

	for i := range ext.Entries {
		ok, err := in.ingestEntries(ctx, &ext.Entries[i])
		if err != nil {
			return count, err
		}
		if ok {
			count++
		}
	}
	for i := range ext.Results {
		ok, err := in.ingestResult(ctx, &ext.Results[i])
		if err != nil {
			return count, err
		}
		if ok {
			count++
		}
	}
	for i := range ext.WillPays {
		ok, err := in.ingestWillPay(ctx, &ext.WillPays[i])
		if err != nil {
			return count, err
		}
		if ok {
			count++
		}
	}
	for i := range ext.Odds {
		ok, err := in.ingestOdds(ctx, &ext.Odds[i])
		if err != nil {
			return count, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

func validKey(key models.RaceKey) bool {
	return key.Track != "" && key.RaceNumber > 0 && key.RaceDate != ""
}

func (in *Ingestor) dropInvalid(kind string, key models.RaceKey) {
	// Validation failures are malformed, not merely unmatched: logged and
	// dropped, never dead-lettered.
	in.logger.Warn("Dropping invalid record",
		zap.String("kind", kind),
		zap.String("key", key.String()))
}

// ingestEntries upserts the race aggregate a card defines, preserving odds
// state already collected for horses that stay on the card.
func (in *Ingestor) ingestEntries(ctx context.Context, rec *models.EntryRecord) (bool, error) {
	if !validKey(rec.RaceKey) || len(rec.Horses) == 0 {
		in.dropInvalid("entries", rec.RaceKey)
		return false, nil
	}

	race, err := in.store.FindRace(ctx, rec.RaceKey)
	if errors.Is(err, storage.ErrRaceNotFound) {
		race = &models.Race{RaceKey: rec.RaceKey}
	} else if err != nil {
		return false, fmt.Errorf("find race %s: %w", rec.RaceKey, err)
	}

	race.PostTime = rec.PostTime
	race.Distance = rec.Distance
	race.Surface = rec.Surface
	race.Conditions = rec.Conditions
	race.Source = rec.Source
	race.UpdatedAt = rec.CapturedAt

	horses := make([]models.HorseOdds, 0, len(rec.Horses))
	for _, h := range rec.Horses {
		program := strconv.Itoa(h.PostPosition)
		merged := models.HorseOdds{
			ProgramNumber: program,
			HorseName:     h.Name,
			CurrentOdds:   h.MorningLine,
			UpdatedAt:     rec.CapturedAt,
		}
		if existing := race.FindHorse(program); existing != nil {
			merged.CurrentOdds = existing.CurrentOdds
			merged.Status = existing.Status
			merged.WinPool = existing.WinPool
			merged.History = existing.History
			merged.UpdatedAt = existing.UpdatedAt
		}
		horses = append(horses, merged)
	}
	race.Horses = horses

	if err := in.store.UpsertRace(ctx, race); err != nil {
		return false, err
	}
	return true, nil
}

// ingestOdds merges a live odds observation into its parent race, or
// dead-letters it when the race is not known yet.
func (in *Ingestor) ingestOdds(ctx context.Context, rec *models.OddsEntry) (bool, error) {
	if !validKey(rec.RaceKey) || rec.ProgramNumber == "" {
		in.dropInvalid("odds", rec.RaceKey)
		return false, nil
	}

	race, err := in.store.FindRace(ctx, rec.RaceKey)
	if errors.Is(err, storage.ErrRaceNotFound) {
		entry := &models.DeadLetterEntry{
			Payload:    rec,
			Reason:     ReasonNoMatchingRace,
			ReceivedAt: rec.CapturedAt,
		}
		if err := in.store.InsertDeadLetter(ctx, entry); err != nil {
			return false, err
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find race %s: %w", rec.RaceKey, err)
	}

	horse := race.FindHorse(rec.ProgramNumber)
	if horse == nil {
		race.Horses = append(race.Horses, models.HorseOdds{
			ProgramNumber: rec.ProgramNumber,
			HorseName:     rec.HorseName,
		})
		horse = &race.Horses[len(race.Horses)-1]
	}
	if rec.HorseName != "" {
		horse.HorseName = rec.HorseName
	}
	horse.CurrentOdds = rec.Odds
	horse.Status = rec.Status
	if rec.WinPool != nil {
		horse.WinPool = rec.WinPool
	}
	if rec.Odds != nil {
		horse.History = models.MergeOddsHistory(horse.History, models.OddsSample{
			Timestamp: rec.CapturedAt,
			Odds:      *rec.Odds,
		})
	}
	horse.UpdatedAt = rec.CapturedAt
	race.UpdatedAt = rec.CapturedAt

	if err := in.store.UpsertRace(ctx, race); err != nil {
		return false, err
	}
	return true, nil
}

func (in *Ingestor) ingestWillPay(ctx context.Context, rec *models.WillPay) (bool, error) {
	if !validKey(rec.RaceKey) || rec.WagerType == "" || rec.Combination == "" {
		in.dropInvalid("will_pays", rec.RaceKey)
		return false, nil
	}
	if err := in.store.UpsertWillPay(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

func (in *Ingestor) ingestResult(ctx context.Context, rec *models.RaceResult) (bool, error) {
	if !validKey(rec.RaceKey) || len(rec.FinishOrder) == 0 {
		in.dropInvalid("results", rec.RaceKey)
		return false, nil
	}
	if err := in.store.UpsertResult(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}
