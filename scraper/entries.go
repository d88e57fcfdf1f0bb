package scraper

import (
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/turfline/turfpulse/models"
	"github.com/turfline/turfpulse/pkg/parse"
)

var (
	raceHeaderRe = regexp.MustCompile(`(?i)race\s+(\d{1,2})`)
	postTimeRe   = regexp.MustCompile(`(?i)post(?:\s*time)?:?\s*([0-9]{1,2}:[0-9]{2}\s*(?:AM|PM)?)`)
	distanceRe   = regexp.MustCompile(`(?i)([\d.\s/]+\s*(?:furlongs?|miles?|yards?))`)
	surfaceRe    = regexp.MustCompile(`(?i)\b(dirt|turf|synthetic|all weather)\b`)
)

// ExtractEntries runs the entries cascade over a race-day page, which may
// carry one race card or the full day's card.
func ExtractEntries(doc *goquery.Document, ctx Context) Extraction {
	if recs := entriesFromSections(doc, ctx); len(recs) > 0 {
		return taggedEntries(recs, StrategyStructural)
	}
	if recs := entriesFromGenericTables(doc, ctx); len(recs) > 0 {
		return taggedEntries(recs, StrategyAlternate)
	}
	if recs := entriesFromText(doc, ctx); len(recs) > 0 {
		return taggedEntries(recs, StrategyTextPattern)
	}
	return taggedEntries(syntheticEntries(ctx), StrategySynthetic)
}

func taggedEntries(recs []models.EntryRecord, strategy Strategy) Extraction {
	for i := range recs {
		recs[i].Source = string(strategy)
	}
	return Extraction{Strategy: strategy, Entries: recs}
}

// entriesFromSections parses the primary layout: one div.race-entries section
// per race, each with a header line and a fixed-column horse table
// (pp, horse, ML, jockey, trainer, med, weight).
func entriesFromSections(doc *goquery.Document, ctx Context) []models.EntryRecord {
	var out []models.EntryRecord
	doc.Find("div.race-entries").Each(func(sectionIdx int, section *goquery.Selection) {
		header := parse.CleanText(section.Find("h2, h3, .race-header").First().Text())
		record := models.EntryRecord{
			RaceKey:    ctx.raceKey(raceNumberFromHeader(header, sectionIdx+1)),
			CapturedAt: ctx.CapturedAt,
		}
		record.Conditions = parse.CleanText(section.Find(".race-conditions").Text())
		fillConditions(&record, header+" "+record.Conditions)

		section.Find("table tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header row
			}
			horse := horseFromRow(row, 0, 1, 2, 3, 4, 5, 6)
			if horse != nil {
				record.Horses = append(record.Horses, *horse)
			}
		})
		if len(record.Horses) > 0 {
			out = append(out, record)
		}
	})
	return out
}

func entriesFromGenericTables(doc *goquery.Document, ctx Context) []models.EntryRecord {
	var out []models.EntryRecord
	doc.Find("table").Each(func(tableIdx int, table *goquery.Selection) {
		idx := headerIndex(table)
		ppCol, okPP := columnFor(idx, "pp", "post", "#")
		horseCol, okHorse := columnFor(idx, "horse", "horse name", "runner")
		if !okPP || !okHorse {
			return
		}
		mlCol, okML := columnFor(idx, "ml", "morning line", "m/l")
		jockeyCol, okJockey := columnFor(idx, "jockey", "rider")
		trainerCol, okTrainer := columnFor(idx, "trainer")
		medCol, okMed := columnFor(idx, "med", "medication")
		weightCol, okWeight := columnFor(idx, "wt", "weight")

		header := parse.CleanText(table.Parent().Find("h2, h3").First().Text())
		record := models.EntryRecord{
			RaceKey:    ctx.raceKey(raceNumberFromHeader(header, len(out)+1)),
			CapturedAt: ctx.CapturedAt,
		}
		fillConditions(&record, header)

		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			pp, err := strconv.Atoi(cellText(row, ppCol))
			name := parse.CleanText(cellText(row, horseCol))
			if err != nil || pp <= 0 || name == "" {
				return
			}
			horse := models.HorseEntry{PostPosition: pp, Name: name}
			if okML {
				horse.MorningLine, _ = parse.Odds(cellText(row, mlCol))
			}
			if okJockey {
				horse.Jockey = parse.CleanText(cellText(row, jockeyCol))
			}
			if okTrainer {
				horse.Trainer = parse.CleanText(cellText(row, trainerCol))
			}
			if okMed {
				horse.Medication = parse.CleanText(cellText(row, medCol))
			}
			if okWeight {
				horse.Weight = parse.Weight(cellText(row, weightCol))
			}
			record.Horses = append(record.Horses, horse)
		})
		if len(record.Horses) > 0 {
			out = append(out, record)
		}
	})
	return out
}

var entryTupleRe = regexp.MustCompile(`(?m)^\s*(\d{1,2})\s{1,4}([A-Z][A-Za-z'.\-]+(?: [A-Z][A-Za-z'.\-]+){0,3})\s{1,4}(\d{1,2}[-/]\d{1,2}|\d+\.\d+)\s*$`)

func entriesFromText(doc *goquery.Document, ctx Context) []models.EntryRecord {
	record := models.EntryRecord{
		RaceKey:    ctx.raceKey(0),
		CapturedAt: ctx.CapturedAt,
	}
	for _, m := range entryTupleRe.FindAllStringSubmatch(doc.Text(), -1) {
		pp, _ := strconv.Atoi(m[1])
		if pp <= 0 {
			continue
		}
		ml, _ := parse.Odds(m[3])
		record.Horses = append(record.Horses, models.HorseEntry{
			PostPosition: pp,
			Name:         parse.CleanText(m[2]),
			MorningLine:  ml,
		})
	}
	if len(record.Horses) == 0 {
		return nil
	}
	return []models.EntryRecord{record}
}

func horseFromRow(row *goquery.Selection, ppCol, horseCol, mlCol, jockeyCol, trainerCol, medCol, weightCol int) *models.HorseEntry {
	pp, err := strconv.Atoi(cellText(row, ppCol))
	name := parse.CleanText(cellText(row, horseCol))
	if err != nil || pp <= 0 || name == "" {
		return nil
	}
	ml, _ := parse.Odds(cellText(row, mlCol))
	return &models.HorseEntry{
		PostPosition: pp,
		Name:         name,
		MorningLine:  ml,
		Jockey:       parse.CleanText(cellText(row, jockeyCol)),
		Trainer:      parse.CleanText(cellText(row, trainerCol)),
		Medication:   parse.CleanText(cellText(row, medCol)),
		Weight:       parse.Weight(cellText(row, weightCol)),
	}
}

func raceNumberFromHeader(header string, fallback int) int {
	if m := raceHeaderRe.FindStringSubmatch(header); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return fallback
}

func fillConditions(record *models.EntryRecord, text string) {
	if m := postTimeRe.FindStringSubmatch(text); m != nil {
		record.PostTime = parse.CleanText(m[1])
	}
	if m := distanceRe.FindStringSubmatch(text); m != nil {
		record.Distance = parse.CleanText(m[1])
	}
	if m := surfaceRe.FindStringSubmatch(text); m != nil {
		record.Surface = parse.CleanText(m[1])
	}
}
