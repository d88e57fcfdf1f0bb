// Package tracks maps human track names to source-site slugs and weekly
// race-day schedules. The table is static; everything here is safe for
// concurrent use without coordination.
package tracks

import (
	"fmt"
	"strings"
	"time"

	"github.com/turfline/turfpulse/models"
)

const baseURL = "https://www.offtrackbetting.com"

// Track is one registered racetrack.
type Track struct {
	Name     string
	Slug     string
	RaceDays []time.Weekday
}

var registry = []Track{
	{"AQUEDUCT", "aqueduct", []time.Weekday{time.Thursday, time.Friday, time.Saturday, time.Sunday}},
	{"BELMONT PARK", "belmont-park", []time.Weekday{time.Thursday, time.Friday, time.Saturday, time.Sunday}},
	{"CHURCHILL DOWNS", "churchill-downs", []time.Weekday{time.Thursday, time.Friday, time.Saturday, time.Sunday}},
	{"DEL MAR", "del-mar", []time.Weekday{time.Friday, time.Saturday, time.Sunday}},
	{"GULFSTREAM PARK", "gulfstream-park", []time.Weekday{time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}},
	{"KEENELAND", "keeneland", []time.Weekday{time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}},
	{"OAKLAWN PARK", "oaklawn-park", []time.Weekday{time.Friday, time.Saturday, time.Sunday}},
	{"PARX RACING", "parx-racing", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}},
	{"SANTA ANITA", "santa-anita", []time.Weekday{time.Friday, time.Saturday, time.Sunday}},
	{"SARATOGA", "saratoga", []time.Weekday{time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}},
}

var byName = func() map[string]Track {
	m := make(map[string]Track, len(registry))
	for _, t := range registry {
		m[normalize(t.Name)] = t
	}
	return m
}()

func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Lookup finds a track by display name, case-insensitively.
func Lookup(name string) (Track, bool) {
	t, ok := byName[normalize(name)]
	return t, ok
}

// BySlug finds a track by its source-site slug.
func BySlug(slug string) (Track, bool) {
	for _, t := range registry {
		if t.Slug == slug {
			return t, true
		}
	}
	return Track{}, false
}

// All returns every registered track.
func All() []Track {
	out := make([]Track, len(registry))
	copy(out, registry)
	return out
}

// IsRacingToday reports whether the track is scheduled to race on now's
// weekday. Unknown tracks are never racing.
func IsRacingToday(name string, now time.Time) bool {
	t, ok := Lookup(name)
	if !ok {
		return false
	}
	weekday := now.Weekday()
	for _, d := range t.RaceDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// ResolveURL builds the source-site URL for a track and scrape domain.
// raceNumber narrows odds and will-pay pages to a single race when > 0.
func ResolveURL(name string, kind models.JobKind, raceNumber int) (string, error) {
	t, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown track: %s", name)
	}

	var path string
	switch kind {
	case models.JobKindOdds:
		path = fmt.Sprintf("/odds/%s", t.Slug)
	case models.JobKindWillPay:
		path = fmt.Sprintf("/willpays/%s", t.Slug)
	case models.JobKindResults:
		path = fmt.Sprintf("/results/%s", t.Slug)
	case models.JobKindEntries:
		path = fmt.Sprintf("/entries/%s", t.Slug)
	default:
		return "", fmt.Errorf("unknown job kind: %s", kind)
	}

	url := baseURL + path
	if raceNumber > 0 {
		url = fmt.Sprintf("%s/race-%d", url, raceNumber)
	}
	return url, nil
}

// ScheduleIndexURL is the entry point for the entries crawl: the source
// site's daily schedule page listing every active track.
func ScheduleIndexURL() string {
	return baseURL + "/schedule"
}
