package scraper

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func testContext() Context {
	return Context{
		Track:      "SARATOGA",
		RaceNumber: 5,
		RaceDate:   "2026-09-01",
		SourceURL:  "https://example.test/odds/saratoga",
		CapturedAt: time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC),
	}
}

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return d
}
