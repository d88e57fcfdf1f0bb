package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/turfline/turfpulse/models"
	"github.com/turfline/turfpulse/pkg/parse"
)

// ExtractWillPays runs the will-pay cascade over a single-race page.
func ExtractWillPays(doc *goquery.Document, ctx Context) Extraction {
	if recs := willPaysFromLabeledTable(doc, ctx); len(recs) > 0 {
		return taggedWillPays(recs, StrategyStructural)
	}
	if recs := willPaysFromGenericTables(doc, ctx); len(recs) > 0 {
		return taggedWillPays(recs, StrategyAlternate)
	}
	if recs := willPaysFromText(doc, ctx); len(recs) > 0 {
		return taggedWillPays(recs, StrategyTextPattern)
	}
	return taggedWillPays(syntheticWillPays(ctx), StrategySynthetic)
}

func taggedWillPays(recs []models.WillPay, strategy Strategy) Extraction {
	for i := range recs {
		recs[i].Source = string(strategy)
	}
	return Extraction{Strategy: strategy, WillPays: recs}
}

// wagerType maps a raw wager label to the enumerated multi-race wagers.
// Unrecognized labels return "".
func wagerType(raw string) models.WagerType {
	label := strings.ToLower(parse.CleanText(raw))
	switch {
	case strings.Contains(label, "double"):
		return models.WagerDouble
	case strings.Contains(label, "pick 3"), strings.Contains(label, "pick3"):
		return models.WagerPick3
	case strings.Contains(label, "pick 4"), strings.Contains(label, "pick4"):
		return models.WagerPick4
	case strings.Contains(label, "pick 5"), strings.Contains(label, "pick5"):
		return models.WagerPick5
	case strings.Contains(label, "pick 6"), strings.Contains(label, "pick6"):
		return models.WagerPick6
	}
	return ""
}

func willPayFromRow(row *goquery.Selection, wagerCol, comboCol, payoutCol int, ctx Context) (models.WillPay, bool) {
	wager := wagerType(cellText(row, wagerCol))
	combo := parse.CleanText(cellText(row, comboCol))
	if wager == "" || combo == "" {
		return models.WillPay{}, false
	}
	wp := models.WillPay{
		RaceKey:     ctx.raceKey(0),
		WagerType:   wager,
		Combination: combo,
		Payout:      parse.Money(cellText(row, payoutCol)),
		CapturedAt:  ctx.CapturedAt,
	}
	if strings.Contains(strings.ToLower(row.Text()), "carryover") {
		wp.Carryover = true
		wp.CarryoverAmount = firstMoneyToken(row.Text())
		wp.Payout = nil
	}
	return wp, true
}

var moneyTokenRe = regexp.MustCompile(`\$[\d,]+(?:\.\d+)?`)

func firstMoneyToken(text string) *float64 {
	return parse.Money(moneyTokenRe.FindString(text))
}

func willPaysFromLabeledTable(doc *goquery.Document, ctx Context) []models.WillPay {
	var out []models.WillPay
	doc.Find("table.willpays-table tr, table#willpays tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		if wp, ok := willPayFromRow(row, 0, 1, 2, ctx); ok {
			out = append(out, wp)
		}
	})
	return out
}

func willPaysFromGenericTables(doc *goquery.Document, ctx Context) []models.WillPay {
	var out []models.WillPay
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		idx := headerIndex(table)
		wagerCol, okWager := columnFor(idx, "wager", "bet", "pool")
		comboCol, okCombo := columnFor(idx, "combination", "combo", "ticket")
		payoutCol, okPayout := columnFor(idx, "will pay", "willpay", "payout", "pays")
		if !okWager || !okCombo || !okPayout {
			return true
		}
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			if wp, ok := willPayFromRow(row, wagerCol, comboCol, payoutCol, ctx); ok {
				out = append(out, wp)
			}
		})
		return len(out) == 0
	})
	return out
}

var willPayTupleRe = regexp.MustCompile(`(?im)^\s*(daily double|pick\s*[3-6])\s+([\d]+(?:[-/][\d]+)+)\s+\$?([\d,]+\.?\d*)\s*$`)

func willPaysFromText(doc *goquery.Document, ctx Context) []models.WillPay {
	var out []models.WillPay
	for _, m := range willPayTupleRe.FindAllStringSubmatch(doc.Text(), -1) {
		wager := wagerType(m[1])
		if wager == "" {
			continue
		}
		out = append(out, models.WillPay{
			RaceKey:     ctx.raceKey(0),
			WagerType:   wager,
			Combination: strings.ReplaceAll(m[2], "/", "-"),
			Payout:      parse.Money(m[3]),
			CapturedAt:  ctx.CapturedAt,
		})
	}
	return out
}
