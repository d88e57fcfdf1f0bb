// Package parse turns raw scraped tokens into normalized typed values.
// Every function either produces a valid parsed value or an explicit nil;
// raw strings never leak through to storage.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/turfline/turfpulse/models"
)

var (
	fractionalOddsRe = regexp.MustCompile(`^(\d+)\s*[-/]\s*(\d+)$`)
	programNumberRe  = regexp.MustCompile(`^\d{1,2}[A-Z]?$`)
	moneyCleanRe     = regexp.MustCompile(`[$,]`)
)

// Odds parses a raw odds token into a decimal value and a sentinel status.
// Fractional forms ("5-2", "7/2") become their decimal ratio, "EVEN" becomes
// 1.0, and plain decimals pass through. Scratched and main-track-only
// sentinels return a nil value with the matching status. Anything else is a
// nil value with no status.
func Odds(raw string) (*float64, models.OddsStatus) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	switch token {
	case "", "-", "--", "N/A":
		return nil, models.OddsStatusNone
	case "SCR", "SCRATCHED", "WD":
		return nil, models.OddsStatusScratched
	case "MTO":
		return nil, models.OddsStatusMainTrackOnly
	case "EVEN", "EVS", "EV":
		v := 1.0
		return &v, models.OddsStatusNone
	}

	if m := fractionalOddsRe.FindStringSubmatch(token); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den == 0 {
			return nil, models.OddsStatusNone
		}
		v := num / den
		return &v, models.OddsStatusNone
	}

	if v, err := strconv.ParseFloat(token, 64); err == nil && v >= 0 {
		return &v, models.OddsStatusNone
	}
	return nil, models.OddsStatusNone
}

// Money parses a currency amount ("$12.40", "1,234.00"). Returns nil when the
// token is not a number.
func Money(raw string) *float64 {
	token := moneyCleanRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if token == "" {
		return nil
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Weight parses an assigned carried weight in pounds.
func Weight(raw string) *int {
	token := strings.TrimSpace(raw)
	n, err := strconv.Atoi(token)
	if err != nil || n <= 0 || n > 200 {
		return nil
	}
	return &n
}

// ProgramNumber normalizes a program number token. Coupled entries like "1A"
// are preserved as-is; anything that does not look like a program number
// returns an empty string.
func ProgramNumber(raw string) string {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if !programNumberRe.MatchString(token) {
		return ""
	}
	return token
}

var raceDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday, January 2, 2006",
}

// RaceDate parses a race date in any of the site's known formats and returns
// it in YYYY-MM-DD form. Returns false when no layout matches.
func RaceDate(raw string) (string, bool) {
	token := strings.TrimSpace(raw)
	for _, layout := range raceDateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// RaceNumber parses a race number token ("Race 7", "7", "R7").
func RaceNumber(raw string) (int, bool) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	token = strings.TrimPrefix(token, "RACE")
	token = strings.TrimPrefix(token, "R")
	token = strings.TrimSpace(token)
	n, err := strconv.Atoi(token)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// CleanText collapses runs of whitespace into single spaces.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
