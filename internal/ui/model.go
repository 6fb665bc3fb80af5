package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"bilicrawl/internal/model"
	"bilicrawl/internal/progress"
)

// CrawlFunc runs one crawl, reporting through rep.
type CrawlFunc func(ctx context.Context, rep progress.Reporter) (model.CrawlReport, error)

// recentResults is how many finished posts stay on screen.
const recentResults = 8

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	heading string

	current   postState
	results   []progress.Result
	succeeded int
	failed    int

	stopping bool
	report   *model.CrawlReport
	done     bool
	err      error

	width, height int
	styles        Styles

	eventCh  chan tea.Msg
	resultCh chan crawlDoneMsg
}

func NewModel(ctx context.Context, heading string) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()
	return Model{
		ctx:      c,
		cancel:   cancel,
		heading:  heading,
		current:  newPostState(sty),
		styles:   sty,
		eventCh:  make(chan tea.Msg, 256),
		resultCh: make(chan crawlDoneMsg, 1),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.current.spinner.Tick, m.listenEventsCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.stopping {
				return m, tea.Quit
			}
			// Let the crawl record what is left before quitting.
			m.stopping = true
			m.current.status = "Stopping, press again to quit now"
			m.cancel()
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case postUpdateMsg:
		m.current.apply(msg.U)

	case postResultMsg:
		r := msg.R
		if r.Outcome == model.OutcomeSuccess {
			m.succeeded++
		} else {
			m.failed++
		}
		m.results = append(m.results, r)
		if len(m.results) > recentResults {
			m.results = m.results[len(m.results)-recentResults:]
		}

	case finishedMsg:
		rep := msg.Report
		m.report = &rep

	case crawlDoneMsg:
		m.done = true
		m.err = msg.Err
		if m.report == nil {
			rep := msg.Report
			m.report = &rep
		}
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	var c tea.Cmd
	m.current.spinner, c = m.current.spinner.Update(msg)
	if c != nil {
		cmds = append(cmds, c)
	}
	cmds = append(cmds, m.listenEventsCmd())
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.done {
		return m.viewHeader() + "\n\n" + m.viewResults() + "\n" + m.viewSummary()
	}
	return m.viewHeader() + "\n\n" + m.viewCurrent() + "\n" + m.viewResults()
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		return <-m.eventCh
	}
}

// runCrawl runs crawl to completion. The outcome goes both to the program
// (to quit) and to resultCh, since Run may outlive the program when the
// user force-quits.
func (m Model) runCrawl(crawl CrawlFunc) {
	rep := teaReporter{ctx: m.ctx, ch: m.eventCh}
	report, err := crawl(m.ctx, rep)
	done := crawlDoneMsg{Report: report, Err: err}
	m.resultCh <- done
	select {
	case m.eventCh <- done:
	case <-m.ctx.Done():
		select {
		case m.eventCh <- done:
		default:
		}
	}
}

type teaReporter struct {
	ctx context.Context
	ch  chan tea.Msg
}

func (r teaReporter) Update(u progress.Update) {
	// Byte progress may be dropped; stage changes may not.
	if u.Stage == progress.StageDownloading && u.Index == 0 {
		select {
		case r.ch <- postUpdateMsg{U: u}:
		default:
		}
		return
	}
	r.send(postUpdateMsg{U: u})
}

func (r teaReporter) Result(res progress.Result) {
	r.send(postResultMsg{R: res})
}

func (r teaReporter) Finished(report model.CrawlReport) {
	select {
	case r.ch <- finishedMsg{Report: report}:
	default:
	}
}

// send blocks until the program takes msg or the crawl is cancelled and
// the buffer is full.
func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
		select {
		case r.ch <- msg:
		default:
		}
	}
}
