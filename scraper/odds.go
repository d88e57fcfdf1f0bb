package scraper

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/turfline/turfpulse/models"
	"github.com/turfline/turfpulse/pkg/parse"
)

// ExtractOdds runs the odds cascade: the labeled odds table, then any table
// whose header names a program and odds column, then a text-pattern scan,
// then the synthetic fallback.
func ExtractOdds(doc *goquery.Document, ctx Context) Extraction {
	if recs := oddsFromLabeledTable(doc, ctx); len(recs) > 0 {
		return taggedOdds(recs, StrategyStructural)
	}
	if recs := oddsFromGenericTables(doc, ctx); len(recs) > 0 {
		return taggedOdds(recs, StrategyAlternate)
	}
	if recs := oddsFromText(doc, ctx); len(recs) > 0 {
		return taggedOdds(recs, StrategyTextPattern)
	}
	return taggedOdds(syntheticOdds(ctx), StrategySynthetic)
}

func taggedOdds(recs []models.OddsEntry, strategy Strategy) Extraction {
	for i := range recs {
		recs[i].Source = string(strategy)
	}
	return Extraction{Strategy: strategy, Odds: recs}
}

// oddsFromLabeledTable parses the site's primary layout: a table classed
// odds-table with fixed columns program, horse, odds, win pool.
func oddsFromLabeledTable(doc *goquery.Document, ctx Context) []models.OddsEntry {
	var out []models.OddsEntry
	doc.Find("table.odds-table tr, table#odds-table tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		program := parse.ProgramNumber(cellText(row, 0))
		horse := parse.CleanText(cellText(row, 1))
		if program == "" || horse == "" {
			return
		}
		odds, status := parse.Odds(cellText(row, 2))
		entry := models.OddsEntry{
			RaceKey:       ctx.raceKey(0),
			ProgramNumber: program,
			HorseName:     horse,
			Odds:          odds,
			Status:        status,
			WinPool:       parse.Money(cellText(row, 3)),
			CapturedAt:    ctx.CapturedAt,
		}
		out = append(out, entry)
	})
	return out
}

// oddsFromGenericTables handles alternate layouts by locating columns from
// header text instead of position.
func oddsFromGenericTables(doc *goquery.Document, ctx Context) []models.OddsEntry {
	var out []models.OddsEntry
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		idx := headerIndex(table)
		programCol, okProgram := columnFor(idx, "#", "pp", "pgm", "program")
		horseCol, okHorse := columnFor(idx, "horse", "horse name", "runner")
		oddsCol, okOdds := columnFor(idx, "odds", "current odds", "live odds", "ml")
		if !okProgram || !okHorse || !okOdds {
			return true
		}
		poolCol, okPool := columnFor(idx, "win pool", "pool", "win $")

		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			program := parse.ProgramNumber(cellText(row, programCol))
			horse := parse.CleanText(cellText(row, horseCol))
			if program == "" || horse == "" {
				return
			}
			odds, status := parse.Odds(cellText(row, oddsCol))
			entry := models.OddsEntry{
				RaceKey:       ctx.raceKey(0),
				ProgramNumber: program,
				HorseName:     horse,
				Odds:          odds,
				Status:        status,
				CapturedAt:    ctx.CapturedAt,
			}
			if okPool {
				entry.WinPool = parse.Money(cellText(row, poolCol))
			}
			out = append(out, entry)
		})
		return len(out) == 0
	})
	return out
}

// oddsTupleRe matches "program  Horse Name  odds" tuples in flattened text.
var oddsTupleRe = regexp.MustCompile(`(?m)^\s*(\d{1,2}[A-Z]?)\s{1,4}([A-Z][A-Za-z'.\-]+(?: [A-Z][A-Za-z'.\-]+){0,3})\s{1,4}(\d{1,2}\s*[-/]\s*\d{1,2}|\d+\.\d+|SCR|MTO|EVEN)\s*$`)

func oddsFromText(doc *goquery.Document, ctx Context) []models.OddsEntry {
	var out []models.OddsEntry
	for _, m := range oddsTupleRe.FindAllStringSubmatch(doc.Text(), -1) {
		program := parse.ProgramNumber(m[1])
		if program == "" {
			continue
		}
		odds, status := parse.Odds(m[3])
		out = append(out, models.OddsEntry{
			RaceKey:       ctx.raceKey(0),
			ProgramNumber: program,
			HorseName:     parse.CleanText(m[2]),
			Odds:          odds,
			Status:        status,
			CapturedAt:    ctx.CapturedAt,
		})
	}
	return out
}
