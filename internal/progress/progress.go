package progress

import (
	"time"

	"bilicrawl/internal/model"
)

// Stage identifies where a post is in the crawl state machine.
type Stage string

const (
	StagePending     Stage = "pending"
	StageResolved    Stage = "resolved"
	StageDownloading Stage = "downloading"
	StageMuxing      Stage = "muxing"
	StageRetrying    Stage = "retrying"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Update conveys a stage change or byte progress for one post.
// Percent is 0..100 when known, negative when unknown. Stream fetchers do
// not know the post position and leave Index at zero; observers attribute
// such updates to the post in flight.
type Update struct {
	Index   int // 1-based
	Total   int
	PostID  string
	Title   string
	Stage   Stage
	Kind    model.StreamKind // set while downloading
	Percent float64
	Bytes   int64
	Speed   string
	Message string
}

// Result is emitted once per post when it reaches Done or Failed.
type Result struct {
	Index    int
	PostID   string
	Title    string
	Outcome  model.Outcome
	Output   string
	Bytes    int64
	Duration time.Duration
	Err      error
}

// Reporter is implemented by the TUI or any observer of a crawl.
type Reporter interface {
	Update(u Update)
	Result(r Result)
	Finished(report model.CrawlReport)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Update(Update)              {}
func (Nop) Result(Result)              {}
func (Nop) Finished(model.CrawlReport) {}
