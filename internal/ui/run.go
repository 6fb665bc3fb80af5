package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"bilicrawl/internal/model"
)

// Run shows the crawl in a full-screen program and returns its report once
// the crawl has stopped. Quitting the program cancels the crawl; the report
// then carries the remaining posts.
func Run(ctx context.Context, heading string, crawl CrawlFunc) (model.CrawlReport, error) {
	m := NewModel(ctx, heading)
	go m.runCrawl(crawl)

	prog := tea.NewProgram(m, tea.WithContext(ctx))
	_, progErr := prog.Run()

	m.cancel()
	done := <-m.resultCh
	if progErr != nil && !errors.Is(progErr, tea.ErrProgramKilled) {
		return done.Report, progErr
	}
	return done.Report, done.Err
}
