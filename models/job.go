package models

import (
	"time"
)

// JobKind identifies the scrape domain a job targets.
type JobKind string

const (
	JobKindOdds    JobKind = "odds"
	JobKindWillPay JobKind = "will_pays"
	JobKindResults JobKind = "results"
	JobKindEntries JobKind = "entries"
)

// ValidJobKind reports whether k is one of the four scrape domains.
func ValidJobKind(k JobKind) bool {
	switch k {
	case JobKindOdds, JobKindWillPay, JobKindResults, JobKindEntries:
		return true
	}
	return false
}

// JobStatus represents the lifecycle state of a scrape job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// ScrapeJob is a recurring unit of scrape work. Jobs are created by an
// operator and mutated only by the scheduler (status, timestamps) or by an
// operator (active flag, interval, URL). Jobs are never hard-deleted while
// referenced by history; operators disable them via Active=false.
type ScrapeJob struct {
	ID              string     `db:"id" json:"id"`
	Track           string     `db:"track" json:"track"`
	Kind            JobKind    `db:"kind" json:"kind"`
	URL             string     `db:"url" json:"url,omitempty"`
	IntervalSeconds int        `db:"interval_seconds" json:"interval_seconds"`
	Active          bool       `db:"active" json:"active"`
	Status          JobStatus  `db:"status" json:"status"`
	LastRunAt       *time.Time `db:"last_run_at" json:"last_run_at,omitempty"`
	NextRunAt       time.Time  `db:"next_run_at" json:"next_run_at"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Due reports whether the job is eligible to run at now. Due-ness is always
// computed from next_run_at, never stored as an explicit flag.
func (j *ScrapeJob) Due(now time.Time) bool {
	return j.Active && !j.NextRunAt.After(now)
}

// Interval returns the job interval as a duration.
func (j *ScrapeJob) Interval() time.Duration {
	return time.Duration(j.IntervalSeconds) * time.Second
}

// JobOutcome is the per-job entry in a batch summary. Exactly one of
// RecordCount or Error is meaningful, selected by Success.
type JobOutcome struct {
	JobID       string  `json:"id"`
	Kind        JobKind `json:"kind"`
	Track       string  `json:"track"`
	Success     bool    `json:"success"`
	RecordCount int     `json:"record_count,omitempty"`
	Error       string  `json:"error,omitempty"`
}
