package model

import "time"

// Outcome is the terminal state of one post.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// ReportEntry records what happened to one post. Index is 1-based and
// counts from the start of the full identifier list.
type ReportEntry struct {
	Index    int
	Post     Post
	Outcome  Outcome
	Retried  bool
	Output   string
	Bytes    int64
	Duration time.Duration
	Err      error
}

// CrawlReport is the per-run summary returned by the orchestrator.
// It is never persisted.
type CrawlReport struct {
	RunID       string
	Total       int
	Entries     []ReportEntry
	Interrupted bool
	// Remaining holds the posts that were not processed because the run was
	// interrupted, starting with the one that was in flight.
	Remaining []Post
	// ListingErr is set when enumeration stopped early on a fetch failure.
	ListingErr error
}

// ListingFailed reports whether the listing broke off before collecting any
// post, so the run had nothing to do for a reason other than an empty
// source.
func (r CrawlReport) ListingFailed() bool {
	return r.ListingErr != nil && r.Total == 0
}

// Failed returns the 0-based indices of failed posts, in processing order.
func (r CrawlReport) Failed() []int {
	out := []int{}
	for _, e := range r.Entries {
		if e.Outcome == OutcomeFailure {
			out = append(out, e.Index-1)
		}
	}
	return out
}

// Succeeded counts successful posts.
func (r CrawlReport) Succeeded() int {
	n := 0
	for _, e := range r.Entries {
		if e.Outcome == OutcomeSuccess {
			n++
		}
	}
	return n
}
