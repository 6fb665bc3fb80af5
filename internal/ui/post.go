package ui

import (
	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"bilicrawl/internal/model"
	"bilicrawl/internal/progress"
)

// postState is the row for the post in flight.
type postState struct {
	index  int
	total  int
	id     string
	title  string
	stage  progress.Stage
	kind   model.StreamKind
	status string

	bytes   int64
	speed   string
	percent float64 // -1 means unknown

	spinner spinner.Model
	bar     bubblesprogress.Model
}

func newPostState(styles Styles) postState {
	sp := spinner.New()
	sp.Style = styles.Spinner
	return postState{
		stage:   progress.StagePending,
		status:  "Collecting posts",
		percent: -1,
		spinner: sp,
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(40),
		),
	}
}

// apply folds an update into the row. Updates without an index belong to
// the post already in flight.
func (p *postState) apply(u progress.Update) {
	if u.Index != 0 && u.Index != p.index {
		p.index = u.Index
		p.bytes, p.speed, p.kind = 0, "", ""
	}
	if u.Total != 0 {
		p.total = u.Total
	}
	if u.PostID != "" {
		p.id = u.PostID
	}
	if u.Title != "" {
		p.title = u.Title
	}
	if u.Stage != "" {
		p.stage = u.Stage
	}
	if u.Kind != "" {
		p.kind = u.Kind
	}
	if u.Message != "" {
		p.status = u.Message
	}
	if u.Bytes > 0 {
		p.bytes = u.Bytes
	}
	if u.Speed != "" {
		p.speed = u.Speed
	}
	p.percent = u.Percent
}
