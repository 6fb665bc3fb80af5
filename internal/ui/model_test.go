package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilicrawl/internal/model"
	"bilicrawl/internal/progress"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok)
	return mm
}

func TestPostState_FetcherUpdatesStickToCurrentPost(t *testing.T) {
	p := newPostState(defaultStyles())
	p.apply(progress.Update{Index: 2, Total: 5, PostID: "BV2", Title: "two", Stage: progress.StageResolved, Percent: -1})
	p.apply(progress.Update{Stage: progress.StageDownloading, Kind: model.KindVideo, Percent: 50, Bytes: 1024, Speed: "1 KiB/s"})

	assert.Equal(t, 2, p.index)
	assert.Equal(t, 5, p.total)
	assert.Equal(t, "two", p.title)
	assert.Equal(t, model.KindVideo, p.kind)
	assert.Equal(t, int64(1024), p.bytes)
	assert.InDelta(t, 50.0, p.percent, 0.01)

	p.apply(progress.Update{Index: 3, Total: 5, PostID: "BV3", Stage: progress.StagePending, Percent: -1})
	assert.Equal(t, int64(0), p.bytes, "a new post resets byte counters")
	assert.Equal(t, "BV3", p.id)
}

func TestModel_CountsResultsAndQuitsWhenDone(t *testing.T) {
	m := NewModel(context.Background(), "creator 42")
	m = update(t, m, postResultMsg{R: progress.Result{Index: 1, Outcome: model.OutcomeSuccess, Title: "a", Duration: time.Second}})
	m = update(t, m, postResultMsg{R: progress.Result{Index: 2, Outcome: model.OutcomeFailure, Title: "b", Err: errors.New("403")}})
	assert.Equal(t, 1, m.succeeded)
	assert.Equal(t, 1, m.failed)
	assert.Contains(t, m.View(), "creator 42")

	report := model.CrawlReport{Total: 2, Entries: []model.ReportEntry{
		{Index: 1, Outcome: model.OutcomeSuccess},
		{Index: 2, Outcome: model.OutcomeFailure},
	}}
	next, cmd := m.Update(crawlDoneMsg{Report: report})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Contains(t, next.(Model).View(), "Failed to crawl 1/2 video(s)")
}

func TestModel_FirstQuitKeyCancelsCrawl(t *testing.T) {
	m := NewModel(context.Background(), "x")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.stopping)
	assert.Error(t, m.ctx.Err())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "哔哩…", truncate("哔哩哔哩", 3))
}
