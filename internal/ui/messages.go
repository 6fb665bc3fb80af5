package ui

import (
	"bilicrawl/internal/model"
	"bilicrawl/internal/progress"
)

type postUpdateMsg struct {
	U progress.Update
}

type postResultMsg struct {
	R progress.Result
}

type finishedMsg struct {
	Report model.CrawlReport
}

type crawlDoneMsg struct {
	Report model.CrawlReport
	Err    error
}
