// Package scraper implements the per-domain extraction cascades. Each domain
// tries an ordered sequence of passes against the fetched document: the
// best-known structural pattern, known alternate layouts, a text-pattern scan
// over flattened page text, and finally a deterministic synthetic fallback.
// A cascade never returns an empty record set; callers distinguish genuine
// scrapes from placeholders via the Strategy tag.
package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/turfline/turfpulse/models"
)

// Strategy identifies which cascade pass produced a record set.
type Strategy string

const (
	StrategyStructural  Strategy = "structural"
	StrategyAlternate   Strategy = "alternate"
	StrategyTextPattern Strategy = "text-pattern"
	StrategySynthetic   Strategy = "synthetic"
)

// Context carries the natural-key fields known before parsing begins.
type Context struct {
	Track      string
	RaceNumber int // 0 when the page covers all races
	RaceDate   string
	SourceURL  string
	CapturedAt time.Time
}

func (c Context) raceKey(raceNumber int) models.RaceKey {
	if raceNumber == 0 {
		raceNumber = c.RaceNumber
	}
	if raceNumber == 0 {
		raceNumber = 1
	}
	return models.RaceKey{Track: c.Track, RaceNumber: raceNumber, RaceDate: c.RaceDate}
}

// Extraction is the outcome of one cascade run. Exactly one record slice is
// populated, matching the job kind that was dispatched.
type Extraction struct {
	Strategy Strategy
	Odds     []models.OddsEntry
	WillPays []models.WillPay
	Results  []models.RaceResult
	Entries  []models.EntryRecord
}

// Count returns the number of extracted records across all domains.
func (e *Extraction) Count() int {
	return len(e.Odds) + len(e.WillPays) + len(e.Results) + len(e.Entries)
}

// Extract dispatches a fetched document to the cascade for the given kind.
func Extract(kind models.JobKind, doc *goquery.Document, ctx Context) Extraction {
	switch kind {
	case models.JobKindOdds:
		return ExtractOdds(doc, ctx)
	case models.JobKindWillPay:
		return ExtractWillPays(doc, ctx)
	case models.JobKindResults:
		return ExtractResults(doc, ctx)
	case models.JobKindEntries:
		return ExtractEntries(doc, ctx)
	}
	return Extraction{}
}

// headerIndex maps lowercase header-cell text to column position for a table
// selection. Both th and first-row td headers are recognized.
func headerIndex(table *goquery.Selection) map[string]int {
	idx := make(map[string]int)
	header := table.Find("tr").First()
	header.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(cell.Text()))
		if text != "" {
			idx[text] = i
		}
	})
	return idx
}

// columnFor returns the first matching column index for any of the given
// header labels.
func columnFor(idx map[string]int, labels ...string) (int, bool) {
	for _, label := range labels {
		if i, ok := idx[label]; ok {
			return i, true
		}
	}
	return 0, false
}

func cellText(row *goquery.Selection, col int) string {
	cell := row.Find("td").Eq(col)
	return strings.TrimSpace(cell.Text())
}
