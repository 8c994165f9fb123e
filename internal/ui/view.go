package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/hollow/internal/dispatch"
	"github.com/zjrosen/hollow/internal/history"
)

const statusRows = 1

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.width < minCols || m.height < minRows {
		msg := fmt.Sprintf("Terminal too small\nMinimum: %dx%d", minCols, minRows)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}

	st := m.disp.Render()

	if st.Overlay != dispatch.OverlayNone {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderOverlay(st))
	}

	body := m.renderBody(st)
	status := m.renderStatus(st)
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}

// ============================================================================
// Body
// ============================================================================

func (m Model) renderBody(st dispatch.RenderState) string {
	lines := strings.Split(st.Content, "\n")

	spacing := st.LineSpacing
	if spacing < 1 {
		spacing = 1
	}
	visible := (m.height - statusRows) / spacing
	if visible < 1 {
		visible = 1
	}

	top := st.CursorLine - visible/2
	if top > len(lines)-visible {
		top = len(lines) - visible
	}
	if top < 0 {
		top = 0
	}

	width := st.TextWidth
	if width > m.width {
		width = m.width
	}
	leftPad := strings.Repeat(" ", max(0, (m.width-width)/2))

	// Rune offset of the first visible line, for match highlighting.
	offset := 0
	for i := 0; i < top; i++ {
		offset += len([]rune(lines[i])) + 1
	}

	var b strings.Builder
	for i := top; i < len(lines) && i < top+visible; i++ {
		rendered := m.renderLine(st, lines[i], i, offset)
		rendered = truncate.String(rendered, uint(width))
		b.WriteString(leftPad)
		b.WriteString(rendered)
		b.WriteString(strings.Repeat("\n", spacing))
		offset += len([]rune(lines[i])) + 1
	}

	out := strings.TrimSuffix(b.String(), "\n")
	return lipgloss.NewStyle().Height(m.height - statusRows).Render(out)
}

// renderLine styles one buffer line: search highlights first, the
// cursor cell on top.
func (m Model) renderLine(st dispatch.RenderState, line string, lineIdx, lineOffset int) string {
	runes := []rune(line)
	cursorHere := lineIdx == st.CursorLine && st.Overlay == dispatch.OverlayNone

	var b strings.Builder
	for col, r := range runes {
		text := string(r)
		if r == '\t' {
			text = strings.Repeat(" ", m.tabWidth)
		}
		switch {
		case cursorHere && col == st.CursorCol:
			b.WriteString(styleCursor.Render(text))
		case matchClass(st, lineOffset+col) == 2:
			b.WriteString(styleCurrentMatch.Render(text))
		case matchClass(st, lineOffset+col) == 1:
			b.WriteString(styleMatch.Render(text))
		default:
			b.WriteString(text)
		}
	}
	// Cursor past the last rune renders as a reversed cell.
	if cursorHere && st.CursorCol >= len(runes) {
		b.WriteString(styleCursor.Render(" "))
	}
	return b.String()
}

// matchClass reports whether the rune offset lies inside the current
// match (2), another match (1), or none (0).
func matchClass(st dispatch.RenderState, offset int) int {
	for i, match := range st.Matches {
		if offset >= match.Start && offset < match.End {
			if i == st.CurrentMatch {
				return 2
			}
			return 1
		}
	}
	return 0
}

// ============================================================================
// Status line
// ============================================================================

func (m Model) renderStatus(st dispatch.RenderState) string {
	if st.Mode == dispatch.ModeSearch {
		return styleMessage.Render(truncate.String("/"+st.SearchInput, uint(m.width)))
	}
	if !st.ShowStatus && st.StatusMessage == "" && !st.Saved {
		return ""
	}

	var left []string
	if st.ShowStatus {
		left = append(left, styleStatusMode.Render(st.Mode.String()))
		name := st.DocumentName
		if st.Modified {
			name += " +"
		}
		left = append(left, styleStatus.Render(name))
	}
	switch {
	case st.StatusMessage != "":
		left = append(left, styleMessage.Render(st.StatusMessage))
	case st.Saved:
		left = append(left, styleSaved.Render("Saved"))
	}

	var right []string
	if st.ShowStatus {
		right = append(right, styleStatus.Render(fmt.Sprintf("%d words", st.WordCount)))
		if st.ShowGoal && st.DailyGoal > 0 {
			right = append(right, styleStatus.Render(goalSummary(st)))
		}
		right = append(right, styleStatus.Render(st.Elapsed))
	}

	l := strings.Join(left, "  ")
	r := strings.Join(right, "  ")
	gap := m.width - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 1 {
		return truncate.String(l, uint(m.width))
	}
	return l + strings.Repeat(" ", gap) + r
}

func goalSummary(st dispatch.RenderState) string {
	summary := fmt.Sprintf("goal %d/%d", st.TodayWords, st.DailyGoal)
	if st.GoalExceeded {
		summary += " ✓+"
	} else if st.GoalProgress >= 1 {
		summary += " ✓"
	}
	if st.Streak > 0 {
		summary += fmt.Sprintf("  streak %d", st.Streak)
	}
	return summary
}

// ============================================================================
// Overlays
// ============================================================================

func (m Model) renderOverlay(st dispatch.RenderState) string {
	w := min(m.width-6, 64)

	switch st.Overlay {
	case dispatch.OverlayHelp:
		return styleOverlay.Render(m.help)
	case dispatch.OverlayStats:
		return styleOverlay.Render(renderStats(st, w))
	case dispatch.OverlayVersions:
		return styleOverlay.Render(renderVersionList(st))
	case dispatch.OverlayVersionView:
		body := wordwrap.String(st.VersionView, w)
		title := styleOverlayTitle.Render("Version from " + st.VersionTime.Format("Jan 2 15:04:05"))
		hint := styleStatus.Render("r restore · esc back")
		return styleOverlay.Render(title + "\n\n" + body + "\n\n" + hint)
	case dispatch.OverlayVersionDiff:
		title := styleOverlayTitle.Render("Diff with " + st.VersionTime.Format("Jan 2 15:04:05"))
		return styleOverlay.Render(title + "\n\n" + renderDiff(st, w))
	case dispatch.OverlayQuitConfirm:
		return styleOverlay.Render(
			styleOverlayTitle.Render("Unsaved changes") +
				"\n\nSave before quitting?\n\n" +
				styleStatus.Render("y save and quit · n discard · c cancel"))
	}
	return ""
}

func renderStats(st dispatch.RenderState, width int) string {
	var b strings.Builder
	b.WriteString(styleOverlayTitle.Render("Session"))
	b.WriteString(fmt.Sprintf("\n\n%-16s %d", "Words", st.WordCount))
	b.WriteString(fmt.Sprintf("\n%-16s %d", "Written today", st.SessionWords))
	b.WriteString(fmt.Sprintf("\n%-16s %s", "Elapsed", st.Elapsed))

	if st.DailyGoal > 0 {
		b.WriteString("\n\n")
		b.WriteString(styleOverlayTitle.Render("Daily goal"))
		b.WriteString(fmt.Sprintf("\n\n%-16s %d / %d", "Progress", st.TodayWords, st.DailyGoal))
		b.WriteString("\n" + progressBar(st.GoalProgress, min(width, 40)))
		if st.GoalExceeded {
			b.WriteString(" " + styleSaved.Render("exceeded"))
		}
		b.WriteString(fmt.Sprintf("\n%-16s %d days", "Streak", st.Streak))
	}

	b.WriteString("\n\n")
	b.WriteString(styleStatus.Render("any key to close"))
	return b.String()
}

func progressBar(ratio float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return styleSaved.Render(strings.Repeat("█", filled)) +
		styleStatus.Render(strings.Repeat("░", width-filled))
}

func renderVersionList(st dispatch.RenderState) string {
	var b strings.Builder
	b.WriteString(styleOverlayTitle.Render("Versions"))
	b.WriteString("\n\n")

	if len(st.Versions) == 0 {
		b.WriteString(styleStatus.Render("No versions recorded yet"))
	}
	for i, rec := range st.Versions {
		row := fmt.Sprintf("%s  %s",
			rec.Timestamp.Format("Jan 2 15:04:05"),
			fmt.Sprintf("%d words", rec.WordCount))
		row = runewidth.FillRight(row, 36)
		if i == st.VersionIndex {
			b.WriteString(styleSelected.Render(row))
		} else {
			b.WriteString(row)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleStatus.Render("enter view · d diff · r restore · esc back"))
	return b.String()
}

func renderDiff(st dispatch.RenderState, width int) string {
	var b strings.Builder
	for _, line := range st.VersionDiff {
		text := truncate.String(line.Op.String()+" "+line.Text, uint(width))
		switch line.Op {
		case history.OpInsert:
			b.WriteString(styleDiffInsert.Render(text))
		case history.OpDelete:
			b.WriteString(styleDiffDelete.Render(text))
		default:
			b.WriteString(styleDiffEqual.Render(text))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
