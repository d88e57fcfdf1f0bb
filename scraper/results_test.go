package scraper

import (
	"testing"
)

const resultsStructuralHTML = `<html><body>
<table class="results-table">
<tr><th>Fin</th><th>Horse</th><th>Jockey</th><th>Time</th></tr>
<tr><td>1</td><td>Rail Runner</td><td>J. Castellano</td><td>1:36.20</td></tr>
<tr><td>2</td><td>Copper Kettle</td><td>F. Prat</td><td></td></tr>
<tr><td>3</td><td>Night Watch</td><td>L. Saez</td><td></td></tr>
</table>
<table class="payouts-table">
<tr><th>Wager</th><th>Paid</th></tr>
<tr><td>Win</td><td>$7.20</td></tr>
<tr><td>Exacta 1-2</td><td>$38.40</td></tr>
</table>
</body></html>`

const resultsTextHTML = `<html><body><pre>
1st  Rail Runner
2nd  Copper Kettle
3rd  Night Watch
4th  Bay Breeze
</pre></body></html>`

func TestExtractResultsStructural(t *testing.T) {
	ext := ExtractResults(doc(t, resultsStructuralHTML), testContext())
	if ext.Strategy != StrategyStructural {
		t.Fatalf("strategy = %q, want structural", ext.Strategy)
	}
	if len(ext.Results) != 1 {
		t.Fatalf("records = %d, want 1", len(ext.Results))
	}

	result := ext.Results[0]
	if len(result.FinishOrder) != 3 {
		t.Fatalf("finish order = %d positions, want 3", len(result.FinishOrder))
	}
	winner := result.FinishOrder[0]
	if winner.Position != 1 || winner.HorseName != "Rail Runner" || winner.Jockey != "J. Castellano" {
		t.Errorf("winner = %+v", winner)
	}
	if winner.Time != "1:36.20" {
		t.Errorf("winner time = %q", winner.Time)
	}
	if result.Payouts["Win"] != 7.2 {
		t.Errorf("win payout = %v, want 7.2", result.Payouts["Win"])
	}
	if result.Payouts["Exacta 1-2"] != 38.4 {
		t.Errorf("exacta payout = %v, want 38.4", result.Payouts["Exacta 1-2"])
	}
	if result.SourceURL == "" {
		t.Error("source URL not carried")
	}
}

func TestExtractResultsTextPattern(t *testing.T) {
	ext := ExtractResults(doc(t, resultsTextHTML), testContext())
	if ext.Strategy != StrategyTextPattern {
		t.Fatalf("strategy = %q, want text-pattern", ext.Strategy)
	}
	order := ext.Results[0].FinishOrder
	if len(order) != 4 {
		t.Fatalf("finish order = %d positions, want 4", len(order))
	}
	for i, fp := range order {
		if fp.Position != i+1 {
			t.Errorf("position[%d] = %d, want %d", i, fp.Position, i+1)
		}
	}
}

func TestExtractResultsSyntheticFallback(t *testing.T) {
	ext := ExtractResults(doc(t, "<html><body><h1>no results yet</h1></body></html>"), testContext())
	if ext.Strategy != StrategySynthetic {
		t.Fatalf("strategy = %q, want synthetic", ext.Strategy)
	}
	if len(ext.Results) != 1 {
		t.Fatalf("records = %d, want 1", len(ext.Results))
	}
	result := ext.Results[0]
	if len(result.FinishOrder) != 5 {
		t.Errorf("synthetic finish order = %d positions, want 5", len(result.FinishOrder))
	}
	if result.Source != string(StrategySynthetic) {
		t.Errorf("synthetic result tagged %q", result.Source)
	}
}
