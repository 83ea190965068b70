package models

import "time"

type ScanTrigger string

const (
	TriggerManual    ScanTrigger = "manual"
	TriggerScheduled ScanTrigger = "scheduled"
)

// MatchResult is the outcome of scanning the whole universe for one interval.
// Symbols is a set; it is kept sorted so reports are stable.
type MatchResult struct {
	Interval string
	Symbols  []string
	Scanned  int
	Skipped  int
	Failed   int
	Duration time.Duration
	Err      error
}

type Report struct {
	Trigger    ScanTrigger
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []MatchResult
}

// Result returns the match result for interval, if the report has one.
func (r *Report) Result(interval string) (MatchResult, bool) {
	for _, res := range r.Results {
		if res.Interval == interval {
			return res, true
		}
	}
	return MatchResult{}, false
}
