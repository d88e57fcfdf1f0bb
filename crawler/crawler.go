// Package crawler walks the source site's entries pages: schedule index ->
// track page -> next race-day page -> race tables. The traversal is a bounded
// depth-first walk with an explicit visited set; a failed branch aborts only
// that track, never its siblings.
package crawler

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/turfline/turfpulse/models"
	"github.com/turfline/turfpulse/pkg/parse"
	"github.com/turfline/turfpulse/scraper"
	"github.com/turfline/turfpulse/tracks"
	"go.uber.org/zap"
)

var dateTokenRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Navigator discovers and parses race cards starting from the schedule index.
type Navigator struct {
	fetcher          scraper.Fetcher
	maxRacesPerTrack int
	logger           *zap.Logger
}

func NewNavigator(fetcher scraper.Fetcher, maxRacesPerTrack int, logger *zap.Logger) *Navigator {
	return &Navigator{
		fetcher:          fetcher,
		maxRacesPerTrack: maxRacesPerTrack,
		logger:           logger,
	}
}

// Walk fetches the schedule index, follows each active track link, and
// returns every race card found. The visited set lives for one walk and
// guards every hop against cycles and re-visits.
func (n *Navigator) Walk(ctx context.Context, indexURL string, ectx scraper.Context) ([]models.EntryRecord, error) {
	visited := make(map[string]bool)
	visited[indexURL] = true

	doc, err := n.fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("schedule index: %w", err)
	}

	var records []models.EntryRecord
	for _, link := range trackLinks(doc, indexURL) {
		if visited[link.href] {
			continue
		}
		visited[link.href] = true

		branch, err := n.walkTrack(ctx, link, ectx, visited)
		if err != nil {
			// One track's failure must not stop sibling tracks.
			n.logger.Warn("Track branch failed",
				zap.String("track", link.track),
				zap.String("url", link.href),
				zap.Error(err))
			continue
		}
		records = append(records, branch...)
	}
	return records, nil
}

// walkTrack fetches a track page and descends into its next race-day page,
// the link carrying a date token.
func (n *Navigator) walkTrack(ctx context.Context, link trackLink, ectx scraper.Context, visited map[string]bool) ([]models.EntryRecord, error) {
	doc, err := n.fetcher.Fetch(ctx, link.href)
	if err != nil {
		return nil, err
	}

	dayURL, raceDate, ok := nextRaceDayLink(doc, link.href)
	if !ok || visited[dayURL] {
		return nil, nil // no further links of the expected shape: branch ends
	}
	visited[dayURL] = true

	dayCtx := ectx
	dayCtx.Track = link.track
	dayCtx.SourceURL = dayURL
	if raceDate != "" {
		dayCtx.RaceDate = raceDate
	}
	return n.walkRaceDay(ctx, dayURL, dayCtx)
}

// walkRaceDay parses every race table on a race-day page, capped at the
// configured races-per-track limit.
func (n *Navigator) walkRaceDay(ctx context.Context, dayURL string, ectx scraper.Context) ([]models.EntryRecord, error) {
	doc, err := n.fetcher.Fetch(ctx, dayURL)
	if err != nil {
		return nil, err
	}

	extraction := scraper.ExtractEntries(doc, ectx)
	records := extraction.Entries
	if n.maxRacesPerTrack > 0 && len(records) > n.maxRacesPerTrack {
		records = records[:n.maxRacesPerTrack]
	}
	n.logger.Info("Parsed race day",
		zap.String("track", ectx.Track),
		zap.String("url", dayURL),
		zap.Int("races", len(records)),
		zap.String("strategy", string(extraction.Strategy)))
	return records, nil
}

type trackLink struct {
	track string
	href  string
}

// trackLinks collects active track links from the schedule index, filtering
// out historical and result links.
func trackLinks(doc *goquery.Document, pageURL string) []trackLink {
	var links []trackLink
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := absoluteURL(pageURL, href)
		if abs == "" || seen[abs] {
			return
		}
		lower := strings.ToLower(abs)
		if !strings.Contains(lower, "/entries/") {
			return
		}
		if strings.Contains(lower, "result") || strings.Contains(lower, "archive") || strings.Contains(lower, "past") {
			return
		}
		name := trackNameFor(a, abs)
		if name == "" {
			return
		}
		seen[abs] = true
		links = append(links, trackLink{track: name, href: abs})
	})
	return links
}

// trackNameFor resolves a link to a registered track, preferring the URL slug
// over the link text.
func trackNameFor(a *goquery.Selection, abs string) string {
	parts := strings.Split(strings.Trim(strings.ToLower(abs), "/"), "/")
	for _, part := range parts {
		if t, ok := tracks.BySlug(part); ok {
			return t.Name
		}
	}
	if t, ok := tracks.Lookup(parse.CleanText(a.Text())); ok {
		return t.Name
	}
	return ""
}

// nextRaceDayLink finds the first link on a track page containing a date
// token and returns its URL plus the parsed date.
func nextRaceDayLink(doc *goquery.Document, pageURL string) (string, string, bool) {
	var dayURL, raceDate string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		token := dateTokenRe.FindString(href)
		if token == "" {
			token = dateTokenRe.FindString(a.Text())
		}
		if token == "" {
			return true
		}
		abs := absoluteURL(pageURL, href)
		if abs == "" {
			return true
		}
		dayURL = abs
		if d, ok := parse.RaceDate(token); ok {
			raceDate = d
		}
		return false
	})
	return dayURL, raceDate, dayURL != ""
}

func absoluteURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	abs := baseURL.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	return abs.String()
}
