package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"bilicrawl/internal/model"
	"bilicrawl/internal/progress"
)

func (m Model) viewHeader() string {
	total := m.current.total
	finished := m.succeeded + m.failed
	title := m.styles.Title.Render("bilicrawl - " + m.heading)
	sub := fmt.Sprintf("Posts: %d/%d done", finished, total)
	if m.failed > 0 {
		sub += fmt.Sprintf(" (%d failed)", m.failed)
	}
	sub += " • q: stop"
	return title + "\n" + m.styles.Subtitle.Render(sub)
}

func (m Model) stageStyle(s progress.Stage) func(...string) string {
	switch s {
	case progress.StagePending, progress.StageResolved:
		return m.styles.StageMeta.Render
	case progress.StageDownloading:
		return m.styles.StageDL.Render
	case progress.StageMuxing:
		return m.styles.StageMux.Render
	case progress.StageRetrying:
		return m.styles.StageRetry.Render
	case progress.StageDone:
		return m.styles.Success.Render
	case progress.StageFailed:
		return m.styles.Error.Render
	}
	return m.styles.PostInfo.Render
}

func (m Model) viewCurrent() string {
	p := m.current
	name := p.title
	if name == "" {
		name = p.id
	}
	left := m.styles.PostTitle.Render(truncate(name, 48))
	if p.index > 0 {
		left = m.styles.Header.Render(fmt.Sprintf("[%d/%d] ", p.index, p.total)) + left
	}
	stage := m.stageStyle(p.stage)(string(p.stage))
	if p.kind != "" && p.stage == progress.StageDownloading {
		stage += m.styles.Faint.Render(" " + string(p.kind))
	}

	var right string
	switch {
	case p.percent >= 0 && p.percent <= 100:
		right = fmt.Sprintf("%s %5.1f%%", p.bar.ViewAs(p.percent/100.0), p.percent)
	default:
		right = m.styles.Spinner.Render(p.spinner.View()) + " " + m.styles.Faint.Render("working")
	}
	if p.bytes > 0 {
		right += "  " + humanize.IBytes(uint64(p.bytes))
	}
	if p.speed != "" {
		right += "  " + p.speed
	}

	line1 := left + "  " + stage
	line2 := m.styles.PostInfo.Render(p.status)
	return m.styles.Box.Render(line1 + "\n" + right + "\n" + line2)
}

func (m Model) viewResults() string {
	if len(m.results) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range m.results {
		name := r.Title
		if name == "" {
			name = r.PostID
		}
		if r.Outcome == model.OutcomeSuccess {
			b.WriteString(m.styles.Success.Render(fmt.Sprintf("  ✓ %d %s", r.Index, truncate(name, 48))))
			b.WriteString(m.styles.Faint.Render(fmt.Sprintf("  %s, %s", humanize.IBytes(uint64(r.Bytes)), r.Duration.Round(1e8))))
		} else {
			b.WriteString(m.styles.Error.Render(fmt.Sprintf("  ✗ %d %s", r.Index, truncate(name, 48))))
			if r.Err != nil {
				b.WriteString(m.styles.Faint.Render("  " + truncate(r.Err.Error(), 60)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewSummary() string {
	if m.report == nil {
		return ""
	}
	r := *m.report
	var b strings.Builder
	failed := r.Failed()
	switch {
	case r.Total == 0:
		b.WriteString(m.styles.Warning.Render("There is no video to crawl."))
	case len(failed) > 0:
		b.WriteString(m.styles.Warning.Render(fmt.Sprintf("Failed to crawl %d/%d video(s)", len(failed), r.Total)))
		b.WriteString("\n")
		b.WriteString(m.styles.Faint.Render(fmt.Sprintf("Unsuccessful list: %v", failed)))
	default:
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("%d video(s) downloaded", r.Succeeded())))
	}
	if r.Interrupted {
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render(fmt.Sprintf("Interrupted with %d post(s) remaining", len(r.Remaining))))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.err.Error()))
	}
	if len(m.results) > 0 {
		last := m.results[len(m.results)-1]
		if last.Output != "" {
			b.WriteString("\n")
			b.WriteString(m.styles.Faint.Render("Saved to " + filepath.Dir(last.Output)))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
