package tracks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turfline/turfpulse/models"
)

func TestLookupIsCaseInsensitive(t *testing.T) {
	for _, name := range []string{"SARATOGA", "saratoga", "  Saratoga "} {
		track, ok := Lookup(name)
		require.True(t, ok, "lookup %q", name)
		assert.Equal(t, "SARATOGA", track.Name)
		assert.Equal(t, "saratoga", track.Slug)
	}

	_, ok := Lookup("FINGER LAKES")
	assert.False(t, ok)
}

func TestBySlug(t *testing.T) {
	track, ok := BySlug("del-mar")
	require.True(t, ok)
	assert.Equal(t, "DEL MAR", track.Name)

	_, ok = BySlug("nowhere")
	assert.False(t, ok)
}

func TestIsRacingToday(t *testing.T) {
	// 2026-09-01 is a Tuesday.
	tuesday := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)

	assert.False(t, IsRacingToday("SARATOGA", tuesday))
	assert.True(t, IsRacingToday("SARATOGA", saturday))
	assert.True(t, IsRacingToday("PARX RACING", tuesday))
	assert.False(t, IsRacingToday("UNKNOWN", saturday))
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		kind       models.JobKind
		raceNumber int
		want       string
	}{
		{models.JobKindOdds, 0, "https://www.offtrackbetting.com/odds/saratoga"},
		{models.JobKindOdds, 7, "https://www.offtrackbetting.com/odds/saratoga/race-7"},
		{models.JobKindWillPay, 0, "https://www.offtrackbetting.com/willpays/saratoga"},
		{models.JobKindResults, 0, "https://www.offtrackbetting.com/results/saratoga"},
		{models.JobKindEntries, 0, "https://www.offtrackbetting.com/entries/saratoga"},
	}
	for _, tt := range tests {
		got, err := ResolveURL("Saratoga", tt.kind, tt.raceNumber)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ResolveURL("UNKNOWN", models.JobKindOdds, 0)
	assert.Error(t, err)

	_, err = ResolveURL("SARATOGA", "weather", 0)
	assert.Error(t, err)
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	all[0].Name = "MUTATED"

	fresh := All()
	assert.NotEqual(t, "MUTATED", fresh[0].Name)
}
