package parse

import (
	"testing"

	"github.com/turfline/turfpulse/models"
)

func TestOddsFractional(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"5-2", 2.5},
		{"7/2", 3.5},
		{"1-9", 1.0 / 9.0},
		{"10-1", 10},
		{" 3 - 1 ", 3},
	}
	for _, c := range cases {
		got, status := Odds(c.raw)
		if got == nil {
			t.Fatalf("Odds(%q) = nil, want %v", c.raw, c.want)
		}
		if *got != c.want {
			t.Errorf("Odds(%q) = %v, want %v", c.raw, *got, c.want)
		}
		if status != models.OddsStatusNone {
			t.Errorf("Odds(%q) status = %q, want none", c.raw, status)
		}
	}
}

func TestOddsDecimalAndEven(t *testing.T) {
	if got, _ := Odds("3.40"); got == nil || *got != 3.4 {
		t.Errorf("Odds(3.40) = %v, want 3.4", got)
	}
	if got, _ := Odds("EVEN"); got == nil || *got != 1.0 {
		t.Errorf("Odds(EVEN) = %v, want 1.0", got)
	}
}

func TestOddsSentinels(t *testing.T) {
	cases := []struct {
		raw  string
		want models.OddsStatus
	}{
		{"SCR", models.OddsStatusScratched},
		{"scratched", models.OddsStatusScratched},
		{"MTO", models.OddsStatusMainTrackOnly},
	}
	for _, c := range cases {
		got, status := Odds(c.raw)
		if got != nil {
			t.Errorf("Odds(%q) = %v, want nil", c.raw, *got)
		}
		if status != c.want {
			t.Errorf("Odds(%q) status = %q, want %q", c.raw, status, c.want)
		}
	}
}

func TestOddsUnparseable(t *testing.T) {
	for _, raw := range []string{"", "-", "N/A", "abc", "1-0", "-4.2"} {
		got, status := Odds(raw)
		if got != nil {
			t.Errorf("Odds(%q) = %v, want nil", raw, *got)
		}
		if status != models.OddsStatusNone {
			t.Errorf("Odds(%q) status = %q, want none", raw, status)
		}
	}
}

func TestMoney(t *testing.T) {
	if got := Money("$12.40"); got == nil || *got != 12.4 {
		t.Errorf("Money($12.40) = %v, want 12.4", got)
	}
	if got := Money("1,234.00"); got == nil || *got != 1234.0 {
		t.Errorf("Money(1,234.00) = %v, want 1234.0", got)
	}
	if got := Money("n/a"); got != nil {
		t.Errorf("Money(n/a) = %v, want nil", *got)
	}
}

func TestWeight(t *testing.T) {
	if got := Weight("118"); got == nil || *got != 118 {
		t.Errorf("Weight(118) = %v, want 118", got)
	}
	for _, raw := range []string{"", "0", "1200", "heavy"} {
		if got := Weight(raw); got != nil {
			t.Errorf("Weight(%q) = %v, want nil", raw, *got)
		}
	}
}

func TestProgramNumber(t *testing.T) {
	cases := map[string]string{
		"1":    "1",
		"1a":   "1A",
		" 12 ": "12",
		"1AB":  "",
		"abc":  "",
		"123":  "",
	}
	for raw, want := range cases {
		if got := ProgramNumber(raw); got != want {
			t.Errorf("ProgramNumber(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestRaceDate(t *testing.T) {
	cases := []string{"2026-09-01", "09/01/2026", "September 1, 2026", "Sep 1, 2026"}
	for _, raw := range cases {
		got, ok := RaceDate(raw)
		if !ok || got != "2026-09-01" {
			t.Errorf("RaceDate(%q) = %q, %v; want 2026-09-01, true", raw, got, ok)
		}
	}
	if _, ok := RaceDate("tomorrow"); ok {
		t.Error("RaceDate(tomorrow) parsed, want failure")
	}
}

func TestRaceNumber(t *testing.T) {
	cases := map[string]int{"7": 7, "Race 7": 7, "R7": 7, "race 12": 12}
	for raw, want := range cases {
		got, ok := RaceNumber(raw)
		if !ok || got != want {
			t.Errorf("RaceNumber(%q) = %d, %v; want %d, true", raw, got, ok, want)
		}
	}
	for _, raw := range []string{"", "0", "Race X"} {
		if _, ok := RaceNumber(raw); ok {
			t.Errorf("RaceNumber(%q) parsed, want failure", raw)
		}
	}
}
