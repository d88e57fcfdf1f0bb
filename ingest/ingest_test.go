package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turfline/turfpulse/models"
	"github.com/turfline/turfpulse/scraper"
	"github.com/turfline/turfpulse/storage"
	"go.uber.org/zap"
)

type fakeStore struct {
	races       map[string]*models.Race
	willPays    []*models.WillPay
	results     []*models.RaceResult
	deadLetters []*models.DeadLetterEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{races: make(map[string]*models.Race)}
}

func (s *fakeStore) FindRace(_ context.Context, key models.RaceKey) (*models.Race, error) {
	race, ok := s.races[key.String()]
	if !ok {
		return nil, storage.ErrRaceNotFound
	}
	return race, nil
}

func (s *fakeStore) UpsertRace(_ context.Context, race *models.Race) error {
	s.races[race.RaceKey.String()] = race
	return nil
}

func (s *fakeStore) UpsertWillPay(_ context.Context, wp *models.WillPay) error {
	s.willPays = append(s.willPays, wp)
	return nil
}

func (s *fakeStore) UpsertResult(_ context.Context, result *models.RaceResult) error {
	s.results = append(s.results, result)
	return nil
}

func (s *fakeStore) InsertDeadLetter(_ context.Context, entry *models.DeadLetterEntry) error {
	s.deadLetters = append(s.deadLetters, entry)
	return nil
}

func testKey() models.RaceKey {
	return models.RaceKey{Track: "SARATOGA", RaceNumber: 5, RaceDate: "2026-09-01"}
}

func odds(v float64) *float64 { return &v }

func TestIngestOddsWithoutRaceIsDeadLettered(t *testing.T) {
	store := newFakeStore()
	in := NewIngestor(store, zap.NewNop())

	captured := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	count, err := in.Ingest(context.Background(), scraper.Extraction{
		Odds: []models.OddsEntry{{
			RaceKey:       testKey(),
			ProgramNumber: "3",
			HorseName:     "Night Watch",
			Odds:          odds(4.5),
			CapturedAt:    captured,
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, count, "dead-lettered record must not count as stored")
	assert.Empty(t, store.races, "no race may be created from an odds record")
	require.Len(t, store.deadLetters, 1)
	assert.Equal(t, ReasonNoMatchingRace, store.deadLetters[0].Reason)
	assert.Equal(t, captured, store.deadLetters[0].ReceivedAt)
}

func TestIngestOddsMergesIntoExistingRace(t *testing.T) {
	store := newFakeStore()
	in := NewIngestor(store, zap.NewNop())
	store.races[testKey().String()] = &models.Race{
		RaceKey: testKey(),
		Horses: []models.HorseOdds{
			{ProgramNumber: "3", HorseName: "Night Watch", CurrentOdds: odds(5.0)},
		},
	}

	captured := time.Date(2026, 9, 1, 14, 5, 0, 0, time.UTC)
	count, err := in.Ingest(context.Background(), scraper.Extraction{
		Odds: []models.OddsEntry{{
			RaceKey:       testKey(),
			ProgramNumber: "3",
			Odds:          odds(4.5),
			CapturedAt:    captured,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Empty(t, store.deadLetters)

	race := store.races[testKey().String()]
	horse := race.FindHorse("3")
	require.NotNil(t, horse)
	assert.Equal(t, 4.5, *horse.CurrentOdds)
	require.Len(t, horse.History, 1)
	assert.Equal(t, 4.5, horse.History[0].Odds)
	assert.Equal(t, captured, race.UpdatedAt)
}

func TestIngestOddsAppendsUnknownHorse(t *testing.T) {
	store := newFakeStore()
	in := NewIngestor(store, zap.NewNop())
	store.races[testKey().String()] = &models.Race{RaceKey: testKey()}

	_, err := in.Ingest(context.Background(), scraper.Extraction{
		Odds: []models.OddsEntry{{
			RaceKey:       testKey(),
			ProgramNumber: "1A",
			HorseName:     "Copper Kettle",
			Odds:          odds(9.0),
			CapturedAt:    time.Now(),
		}},
	})
	require.NoError(t, err)

	horse := store.races[testKey().String()].FindHorse("1A")
	require.NotNil(t, horse, "coupled-entry program numbers must be accepted")
	assert.Equal(t, "Copper Kettle", horse.HorseName)
}

func TestIngestOddsTwiceDoesNotGrowHistory(t *testing.T) {
	store := newFakeStore()
	in := NewIngestor(store, zap.NewNop())
	store.races[testKey().String()] = &models.Race{
		RaceKey: testKey(),
		Horses:  []models.HorseOdds{{ProgramNumber: "3"}},
	}

	ext := scraper.Extraction{
		Odds: []models.OddsEntry{{
			RaceKey:       testKey(),
			ProgramNumber: "3",
			Odds:          odds(4.5),
			CapturedAt:    time.Date(2026, 9, 1, 14, 5, 0, 0, time.UTC),
		}},
	}
	for i := 0; i < 2; i++ {
		_, err := in.Ingest(context.Background(), ext)
		require.NoError(t, err)
	}

	horse := store.races[testKey().String()].FindHorse("3")
	require.NotNil(t, horse)
	assert.Len(t, horse.History, 1, "replaying the same observation must not grow history")
}

func TestIngestScratchedOddsSkipHistory(t *testing.T) {
	store := newFakeStore()
	in := NewIngestor(store, zap.NewNop())
	store.races[testKey().String()] = &models.Race{
		RaceKey: testKey(),
		Horses:  []models.HorseOdds{{ProgramNumber: "7", CurrentOdds: odds(12.0)}},
	}

	_, err := in.Ingest(context.Background(), scraper.Extraction{
		Odds: []models.OddsEntry{{
			RaceKey:       testKey(),
			ProgramNumber: "7",
			Status:        models.OddsStatusScratched,
			CapturedAt:    time.Now(),
		}},
	})
	require.NoError(t, err)

	horse := store.races[testKey().String()].FindHorse("7")
	require.NotNil(t, horse)
	assert.Equal(t, models.OddsStatusScratched, horse.Status)
	assert.Nil(t, horse.CurrentOdds)
	assert.Empty(t, horse.History, "status-only observations carry no odds sample")
}

func TestIngestEntriesPreservesOddsState(t *testing.T) {
	store := newFakeStore()
	in := NewIngestor(store, zap.NewNop())
	history := []models.OddsSample{{Timestamp: time.Now(), Odds: 4.5}}
	store.races[testKey().String()] = &models.Race{
		RaceKey: testKey(),
		Horses: []models.HorseOdds{
			{ProgramNumber: "1", HorseName: "Rail Runner", CurrentOdds: odds(4.5), History: history},
		},
	}

	count, err := in.Ingest(context.Background(), scraper.Extraction{
		Entries: []models.EntryRecord{{
			RaceKey:  testKey(),
			PostTime: "2:45 PM",
			Surface:  "Dirt",
			Horses: []models.HorseEntry{
				{PostPosition: 1, Name: "Rail Runner", MorningLine: odds(2.5)},
				{PostPosition: 2, Name: "Copper Kettle", MorningLine: odds(3.5)},
			},
			CapturedAt: time.Now(),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	race := store.races[testKey().String()]
	assert.Equal(t, "2:45 PM", race.PostTime)
	require.Len(t, race.Horses, 2)

	kept := race.FindHorse("1")
	require.NotNil(t, kept)
	assert.Equal(t, 4.5, *kept.CurrentOdds, "live odds must survive a card refresh")
	assert.Equal(t, history, kept.History)

	added := race.FindHorse("2")
	require.NotNil(t, added)
	assert.Equal(t, 3.5, *added.CurrentOdds, "new horses start at the morning line")
}

func TestIngestDropsInvalidRecords(t *testing.T) {
	store := newFakeStore()
	in := NewIngestor(store, zap.NewNop())

	count, err := in.Ingest(context.Background(), scraper.Extraction{
		Odds: []models.OddsEntry{
			{RaceKey: models.RaceKey{Track: "", RaceNumber: 5, RaceDate: "2026-09-01"}, ProgramNumber: "1"},
			{RaceKey: testKey(), ProgramNumber: ""},
		},
		WillPays: []models.WillPay{
			{RaceKey: testKey(), WagerType: "", Combination: "1-2"},
		},
		Results: []models.RaceResult{
			{RaceKey: testKey()},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, count)
	assert.Empty(t, store.deadLetters, "malformed records are dropped, not dead-lettered")
	assert.Empty(t, store.willPays)
	assert.Empty(t, store.results)
}

func TestIngestWillPaysAndResults(t *testing.T) {
	store := newFakeStore()
	in := NewIngestor(store, zap.NewNop())

	count, err := in.Ingest(context.Background(), scraper.Extraction{
		WillPays: []models.WillPay{{
			RaceKey:     testKey(),
			WagerType:   models.WagerDouble,
			Combination: "3-7",
			Payout:      odds(45.2),
		}},
		Results: []models.RaceResult{{
			RaceKey:     testKey(),
			FinishOrder: []models.FinishPosition{{Position: 1, HorseName: "Rail Runner"}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, store.willPays, 1)
	require.Len(t, store.results, 1)
	assert.Equal(t, models.WagerDouble, store.willPays[0].WagerType)
}
