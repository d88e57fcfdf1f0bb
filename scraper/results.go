package scraper

import (
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/turfline/turfpulse/models"
	"github.com/turfline/turfpulse/pkg/parse"
)

// ExtractResults runs the results cascade. A results page carries the finish
// order plus an optional payouts table; the payouts table is read with the
// same structural-then-generic preference as the finish table.
func ExtractResults(doc *goquery.Document, ctx Context) Extraction {
	if order := finishFromLabeledTable(doc); len(order) > 0 {
		return taggedResults(buildResult(order, doc, ctx), StrategyStructural)
	}
	if order := finishFromGenericTables(doc); len(order) > 0 {
		return taggedResults(buildResult(order, doc, ctx), StrategyAlternate)
	}
	if order := finishFromText(doc); len(order) > 0 {
		return taggedResults(buildResult(order, doc, ctx), StrategyTextPattern)
	}
	return taggedResults(syntheticResults(ctx), StrategySynthetic)
}

func taggedResults(recs []models.RaceResult, strategy Strategy) Extraction {
	for i := range recs {
		recs[i].Source = string(strategy)
	}
	return Extraction{Strategy: strategy, Results: recs}
}

func buildResult(order []models.FinishPosition, doc *goquery.Document, ctx Context) []models.RaceResult {
	return []models.RaceResult{{
		RaceKey:     ctx.raceKey(0),
		FinishOrder: order,
		Payouts:     payoutsFromTables(doc),
		SourceURL:   ctx.SourceURL,
		CapturedAt:  ctx.CapturedAt,
	}}
}

func finishFromLabeledTable(doc *goquery.Document) []models.FinishPosition {
	var order []models.FinishPosition
	doc.Find("table.results-table tr, table#results tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		pos, err := strconv.Atoi(cellText(row, 0))
		horse := parse.CleanText(cellText(row, 1))
		if err != nil || pos <= 0 || horse == "" {
			return
		}
		order = append(order, models.FinishPosition{
			Position:  pos,
			HorseName: horse,
			Jockey:    parse.CleanText(cellText(row, 2)),
			Time:      parse.CleanText(cellText(row, 3)),
		})
	})
	return order
}

func finishFromGenericTables(doc *goquery.Document) []models.FinishPosition {
	var order []models.FinishPosition
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		idx := headerIndex(table)
		posCol, okPos := columnFor(idx, "fin", "finish", "pos", "position")
		horseCol, okHorse := columnFor(idx, "horse", "horse name", "runner")
		if !okPos || !okHorse {
			return true
		}
		jockeyCol, okJockey := columnFor(idx, "jockey", "rider")
		timeCol, okTime := columnFor(idx, "time", "final time")

		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			pos, err := strconv.Atoi(cellText(row, posCol))
			horse := parse.CleanText(cellText(row, horseCol))
			if err != nil || pos <= 0 || horse == "" {
				return
			}
			fp := models.FinishPosition{Position: pos, HorseName: horse}
			if okJockey {
				fp.Jockey = parse.CleanText(cellText(row, jockeyCol))
			}
			if okTime {
				fp.Time = parse.CleanText(cellText(row, timeCol))
			}
			order = append(order, fp)
		})
		return len(order) == 0
	})
	return order
}

var finishTupleRe = regexp.MustCompile(`(?m)^\s*(\d{1,2})(?:st|nd|rd|th)?\s{1,4}([A-Z][A-Za-z'.\-]+(?: [A-Z][A-Za-z'.\-]+){0,3})\s*$`)

func finishFromText(doc *goquery.Document) []models.FinishPosition {
	var order []models.FinishPosition
	expected := 1
	for _, m := range finishTupleRe.FindAllStringSubmatch(doc.Text(), -1) {
		pos, _ := strconv.Atoi(m[1])
		// Positions must read 1, 2, 3... from the top of the page; anything
		// out of sequence is some other numbered list.
		if pos != expected {
			continue
		}
		order = append(order, models.FinishPosition{
			Position:  pos,
			HorseName: parse.CleanText(m[2]),
		})
		expected++
	}
	if expected < 3 {
		return nil // fewer than two in-sequence rows is noise, not a finish order
	}
	return order
}

// payoutsFromTables reads the bet-descriptor -> amount map from a payouts
// table when one is present.
func payoutsFromTables(doc *goquery.Document) map[string]float64 {
	payouts := make(map[string]float64)

	readRows := func(table *goquery.Selection, descCol, amountCol int) {
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			desc := parse.CleanText(cellText(row, descCol))
			amount := parse.Money(cellText(row, amountCol))
			if desc == "" || amount == nil {
				return
			}
			payouts[desc] = *amount
		})
	}

	labeled := doc.Find("table.payouts-table, table#payouts")
	if labeled.Length() > 0 {
		labeled.Each(func(_ int, table *goquery.Selection) {
			readRows(table, 0, 1)
		})
	} else {
		doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
			idx := headerIndex(table)
			descCol, okDesc := columnFor(idx, "wager", "bet", "pool")
			amountCol, okAmount := columnFor(idx, "payout", "paid", "amount")
			if !okDesc || !okAmount {
				return true
			}
			readRows(table, descCol, amountCol)
			return len(payouts) == 0
		})
	}

	if len(payouts) == 0 {
		return nil
	}
	return payouts
}
