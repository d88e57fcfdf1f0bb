package crawler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turfline/turfpulse/scraper"
	"go.uber.org/zap"
)

// fakeFetcher serves canned pages and counts fetches per URL.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	fetched map[string]int
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, fetched: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string) (*goquery.Document, error) {
	f.mu.Lock()
	f.fetched[pageURL]++
	f.mu.Unlock()

	html, ok := f.pages[pageURL]
	if !ok {
		return nil, errors.New("no such page: " + pageURL)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

const (
	indexURL       = "https://www.offtrackbetting.com/schedule"
	saratogaURL    = "https://www.offtrackbetting.com/entries/saratoga"
	saratogaDayURL = "https://www.offtrackbetting.com/entries/saratoga/2026-09-05"
	delMarURL      = "https://www.offtrackbetting.com/entries/del-mar"
	delMarDayURL   = "https://www.offtrackbetting.com/entries/del-mar/2026-09-05"
)

const indexHTML = `<html><body>
<a href="/entries/saratoga">Saratoga</a>
<a href="/entries/del-mar">Del Mar</a>
<a href="/entries/saratoga">Saratoga again</a>
<a href="/entries/saratoga/results">Saratoga Results</a>
<a href="/entries/archive/keeneland">Keeneland Archive</a>
<a href="/news/handle-up">Handle Up</a>
</body></html>`

const saratogaHTML = `<html><body>
<a href="/entries/saratoga/2026-09-05">Saturday, 2026-09-05</a>
</body></html>`

const delMarHTML = `<html><body>
<a href="/entries/del-mar/2026-09-05">2026-09-05 card</a>
</body></html>`

const raceDayHTML = `<html><body>
<div class="race-entries">
  <h2>Race 1</h2>
  <table>
    <tr><th>PP</th><th>Horse</th><th>ML</th></tr>
    <tr><td>1</td><td>Rail Runner</td><td>5-2</td></tr>
  </table>
</div>
<div class="race-entries">
  <h2>Race 2</h2>
  <table>
    <tr><th>PP</th><th>Horse</th><th>ML</th></tr>
    <tr><td>1</td><td>Copper Kettle</td><td>7/2</td></tr>
  </table>
</div>
</body></html>`

func walkContext() scraper.Context {
	return scraper.Context{RaceDate: "2026-09-01"}
}

func TestWalkCollectsAllTracks(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		indexURL:       indexHTML,
		saratogaURL:    saratogaHTML,
		saratogaDayURL: raceDayHTML,
		delMarURL:      delMarHTML,
		delMarDayURL:   raceDayHTML,
	})
	nav := NewNavigator(fetcher, 12, zap.NewNop())

	records, err := nav.Walk(context.Background(), indexURL, walkContext())
	require.NoError(t, err)
	require.Len(t, records, 4, "two races from each of two tracks")

	tracksSeen := map[string]bool{}
	for _, rec := range records {
		tracksSeen[rec.RaceKey.Track] = true
		assert.Equal(t, "2026-09-05", rec.RaceKey.RaceDate,
			"race date comes from the day link, not the walk context")
	}
	assert.True(t, tracksSeen["SARATOGA"])
	assert.True(t, tracksSeen["DEL MAR"])
}

func TestWalkVisitsEachPageOnce(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		indexURL:       indexHTML,
		saratogaURL:    saratogaHTML,
		saratogaDayURL: raceDayHTML,
		delMarURL:      delMarHTML,
		delMarDayURL:   raceDayHTML,
	})
	nav := NewNavigator(fetcher, 12, zap.NewNop())

	_, err := nav.Walk(context.Background(), indexURL, walkContext())
	require.NoError(t, err)

	for url, count := range fetcher.fetched {
		assert.Equal(t, 1, count, "fetched %s more than once", url)
	}
	assert.NotContains(t, fetcher.fetched, "https://www.offtrackbetting.com/entries/saratoga/results",
		"result links are filtered at the index")
	assert.NotContains(t, fetcher.fetched, "https://www.offtrackbetting.com/entries/archive/keeneland")
	assert.NotContains(t, fetcher.fetched, "https://www.offtrackbetting.com/news/handle-up")
}

func TestWalkIsolatesBranchFailures(t *testing.T) {
	// Del Mar's track page is missing; Saratoga must still come back.
	fetcher := newFakeFetcher(map[string]string{
		indexURL:       indexHTML,
		saratogaURL:    saratogaHTML,
		saratogaDayURL: raceDayHTML,
	})
	nav := NewNavigator(fetcher, 12, zap.NewNop())

	records, err := nav.Walk(context.Background(), indexURL, walkContext())
	require.NoError(t, err, "a failed branch must not fail the walk")
	require.Len(t, records, 2)
	assert.Equal(t, "SARATOGA", records[0].RaceKey.Track)
}

func TestWalkCapsRacesPerTrack(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		indexURL:       `<html><body><a href="/entries/saratoga">Saratoga</a></body></html>`,
		saratogaURL:    saratogaHTML,
		saratogaDayURL: raceDayHTML,
	})
	nav := NewNavigator(fetcher, 1, zap.NewNop())

	records, err := nav.Walk(context.Background(), indexURL, walkContext())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].RaceKey.RaceNumber)
}

func TestWalkIndexFetchFailureIsFatal(t *testing.T) {
	nav := NewNavigator(newFakeFetcher(nil), 12, zap.NewNop())

	_, err := nav.Walk(context.Background(), indexURL, walkContext())
	assert.Error(t, err, "without the index there is nothing to walk")
}

func TestWalkTrackWithoutDayLinkEndsBranch(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		indexURL:    `<html><body><a href="/entries/saratoga">Saratoga</a></body></html>`,
		saratogaURL: `<html><body><p>Dark day</p></body></html>`,
	})
	nav := NewNavigator(fetcher, 12, zap.NewNop())

	records, err := nav.Walk(context.Background(), indexURL, walkContext())
	require.NoError(t, err)
	assert.Empty(t, records)
}
