package models

import (
	"fmt"
	"time"
)

// OddsHistoryCap bounds the per-horse odds history window. Insertion is at
// the head; entries beyond the cap fall off the tail.
const OddsHistoryCap = 20

// OddsStatus marks a sentinel condition on a horse's current odds.
type OddsStatus string

const (
	OddsStatusNone          OddsStatus = ""
	OddsStatusScratched     OddsStatus = "scratched"
	OddsStatusMainTrackOnly OddsStatus = "mto"
)

// RaceKey is the natural key shared by every extracted record: track plus
// race number plus race date (date only, no clock component).
type RaceKey struct {
	Track      string `bson:"track" json:"track"`
	RaceNumber int    `bson:"race_number" json:"race_number"`
	RaceDate   string `bson:"race_date" json:"race_date"` // YYYY-MM-DD
}

func (k RaceKey) String() string {
	return fmt.Sprintf("%s/%d/%s", k.Track, k.RaceNumber, k.RaceDate)
}

// OddsSample is one point in a horse's bounded odds history.
type OddsSample struct {
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Odds      float64   `bson:"odds" json:"odds"`
}

// OddsEntry is a normalized per-horse odds observation. Odds is nil when the
// raw token was unparseable or the horse carries a sentinel status.
type OddsEntry struct {
	RaceKey       `bson:",inline"`
	ProgramNumber string     `bson:"program_number" json:"program_number"`
	HorseName     string     `bson:"horse_name" json:"horse_name"`
	Odds          *float64   `bson:"odds" json:"odds"`
	Status        OddsStatus `bson:"status,omitempty" json:"status,omitempty"`
	WinPool       *float64   `bson:"win_pool,omitempty" json:"win_pool,omitempty"`
	CapturedAt    time.Time  `bson:"captured_at" json:"captured_at"`
	Source        string     `bson:"source" json:"source"`
}

// WagerType enumerates multi-race exotic wagers that carry will-pays.
type WagerType string

const (
	WagerDouble WagerType = "double"
	WagerPick3  WagerType = "pick3"
	WagerPick4  WagerType = "pick4"
	WagerPick5  WagerType = "pick5"
	WagerPick6  WagerType = "pick6"
)

// WillPay is a projected payout for a multi-race wager combination.
type WillPay struct {
	RaceKey         `bson:",inline"`
	WagerType       WagerType `bson:"wager_type" json:"wager_type"`
	Combination     string    `bson:"combination" json:"combination"`
	Payout          *float64  `bson:"payout" json:"payout"`
	Carryover       bool      `bson:"carryover" json:"carryover"`
	CarryoverAmount *float64  `bson:"carryover_amount,omitempty" json:"carryover_amount,omitempty"`
	CapturedAt      time.Time `bson:"captured_at" json:"captured_at"`
	Source          string    `bson:"source" json:"source"`
}

// FinishPosition is one row of a race's finish order.
type FinishPosition struct {
	Position  int     `bson:"position" json:"position"`
	HorseName string  `bson:"horse_name" json:"horse_name"`
	Jockey    string  `bson:"jockey,omitempty" json:"jockey,omitempty"`
	Time      string  `bson:"time,omitempty" json:"time,omitempty"`
}

// RaceResult is the settled outcome of a race: ordered finish positions plus
// a bet-descriptor -> amount payout map.
type RaceResult struct {
	RaceKey     `bson:",inline"`
	FinishOrder []FinishPosition   `bson:"finish_order" json:"finish_order"`
	Payouts     map[string]float64 `bson:"payouts,omitempty" json:"payouts,omitempty"`
	SourceURL   string             `bson:"source_url,omitempty" json:"source_url,omitempty"`
	CapturedAt  time.Time          `bson:"captured_at" json:"captured_at"`
	Source      string             `bson:"source" json:"source"`
}

// HorseEntry is one horse on a race card.
type HorseEntry struct {
	PostPosition int      `bson:"post_position" json:"post_position"`
	Name         string   `bson:"name" json:"name"`
	MorningLine  *float64 `bson:"morning_line" json:"morning_line"`
	Jockey       string   `bson:"jockey,omitempty" json:"jockey,omitempty"`
	Trainer      string   `bson:"trainer,omitempty" json:"trainer,omitempty"`
	Medication   string   `bson:"medication,omitempty" json:"medication,omitempty"`
	Weight       *int     `bson:"weight,omitempty" json:"weight,omitempty"`
}

// EntryRecord is a full race card: race conditions plus the ordered list of
// entered horses.
type EntryRecord struct {
	RaceKey    `bson:",inline"`
	PostTime   string       `bson:"post_time,omitempty" json:"post_time,omitempty"`
	Distance   string       `bson:"distance,omitempty" json:"distance,omitempty"`
	Surface    string       `bson:"surface,omitempty" json:"surface,omitempty"`
	Conditions string       `bson:"conditions,omitempty" json:"conditions,omitempty"`
	Horses     []HorseEntry `bson:"horses" json:"horses"`
	CapturedAt time.Time    `bson:"captured_at" json:"captured_at"`
	Source     string       `bson:"source" json:"source"`
}

// HorseOdds is the per-horse aggregate stored inside a race document: the
// latest observation plus the bounded history window.
type HorseOdds struct {
	ProgramNumber string       `bson:"program_number" json:"program_number"`
	HorseName     string       `bson:"horse_name" json:"horse_name"`
	CurrentOdds   *float64     `bson:"current_odds" json:"current_odds"`
	Status        OddsStatus   `bson:"status,omitempty" json:"status,omitempty"`
	WinPool       *float64     `bson:"win_pool,omitempty" json:"win_pool,omitempty"`
	History       []OddsSample `bson:"history" json:"history"`
	UpdatedAt     time.Time    `bson:"updated_at" json:"updated_at"`
}

// Race is the durable aggregate keyed by RaceKey: the race card fields plus
// per-horse odds state. Settled results live in their own collection.
type Race struct {
	RaceKey    `bson:",inline"`
	PostTime   string      `bson:"post_time,omitempty" json:"post_time,omitempty"`
	Distance   string      `bson:"distance,omitempty" json:"distance,omitempty"`
	Surface    string      `bson:"surface,omitempty" json:"surface,omitempty"`
	Conditions string      `bson:"conditions,omitempty" json:"conditions,omitempty"`
	Source     string      `bson:"source,omitempty" json:"source,omitempty"`
	Horses     []HorseOdds `bson:"horses" json:"horses"`
	UpdatedAt  time.Time   `bson:"updated_at" json:"updated_at"`
}

// FindHorse returns the horse with the given program number, or nil.
func (r *Race) FindHorse(programNumber string) *HorseOdds {
	for i := range r.Horses {
		if r.Horses[i].ProgramNumber == programNumber {
			return &r.Horses[i]
		}
	}
	return nil
}

// DeadLetterEntry holds a record that could not be reconciled against a known
// race at ingestion time. Entries are append-only and never auto-deleted.
type DeadLetterEntry struct {
	Payload    interface{} `bson:"payload" json:"payload"`
	Reason     string      `bson:"reason" json:"reason"`
	ReceivedAt time.Time   `bson:"received_at" json:"received_at"`
}
