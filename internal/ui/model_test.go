package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hollow/internal/config"
	"github.com/zjrosen/hollow/internal/dispatch"
)

func newTestModel(t *testing.T, content string) Model {
	t.Helper()

	path := filepath.Join(t.TempDir(), "draft.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := config.Defaults()
	cfg.Display.ShowStatus = true
	cfg.Editor.AutoSaveSeconds = 0

	disp, err := dispatch.New(path, cfg, dispatch.Deps{})
	require.NoError(t, err)
	return New(disp, cfg)
}

func sized(t *testing.T, m Model, w, h int) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model)
}

func press(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ============================================================================
// Key translation
// ============================================================================

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want dispatch.Key
	}{
		{"rune", keyRunes("a"), dispatch.Rune('a')},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, dispatch.Rune(' ')},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, dispatch.Special(dispatch.KeyEsc)},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, dispatch.Special(dispatch.KeyEnter)},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, dispatch.Special(dispatch.KeyBackspace)},
		{"arrow", tea.KeyMsg{Type: tea.KeyUp}, dispatch.Special(dispatch.KeyUp)},
		{"page", tea.KeyMsg{Type: tea.KeyPgDown}, dispatch.Special(dispatch.KeyPageDown)},
		{"save", tea.KeyMsg{Type: tea.KeyCtrlS}, dispatch.Ctrl('s')},
		{"undo", tea.KeyMsg{Type: tea.KeyCtrlZ}, dispatch.Ctrl('z')},
		{"word move", tea.KeyMsg{Type: tea.KeyCtrlRight}, dispatch.CtrlSpecial(dispatch.KeyRight)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translateKey(tt.msg)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateKeyIgnoresUnbound(t *testing.T) {
	_, ok := translateKey(tea.KeyMsg{Type: tea.KeyCtrlA})
	require.False(t, ok)

	_, ok = translateKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true})
	require.False(t, ok)

	// Tab has no editing meaning; only tabs already in a document render.
	_, ok = translateKey(tea.KeyMsg{Type: tea.KeyTab})
	require.False(t, ok)
}

// ============================================================================
// View
// ============================================================================

func TestViewShowsBufferAndStatus(t *testing.T) {
	m := sized(t, newTestModel(t, "hello world"), 80, 24)

	view := ansi.Strip(m.View())
	require.Contains(t, view, "hello world")
	require.Contains(t, view, "WRITE")
	require.Contains(t, view, "draft.md")
	require.Contains(t, view, "2 words")
}

func TestViewModeFollowsDispatcher(t *testing.T) {
	m := sized(t, newTestModel(t, "text"), 80, 24)
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Contains(t, ansi.Strip(m.View()), "NAVIGATE")
}

func TestViewSearchPrompt(t *testing.T) {
	m := sized(t, newTestModel(t, "needle in text"), 80, 24)
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc}, keyRunes("/"), keyRunes("needle"))
	require.Contains(t, ansi.Strip(m.View()), "/needle")
}

func TestViewHelpOverlay(t *testing.T) {
	m := sized(t, newTestModel(t, "text"), 80, 24)
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc}, keyRunes("?"))

	view := ansi.Strip(m.View())
	require.Contains(t, view, "hollow")
	require.Contains(t, view, "delete line")
}

func TestViewQuitConfirm(t *testing.T) {
	m := sized(t, newTestModel(t, ""), 80, 24)
	m = press(m, keyRunes("x"), tea.KeyMsg{Type: tea.KeyCtrlQ})
	require.Contains(t, ansi.Strip(m.View()), "Unsaved changes")
}

func TestViewTerminalTooSmall(t *testing.T) {
	m := sized(t, newTestModel(t, "text"), 30, 5)
	require.Contains(t, ansi.Strip(m.View()), "Terminal too small")
}

func TestViewStatsOverlay(t *testing.T) {
	m := sized(t, newTestModel(t, "five words are in here"), 80, 24)
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc}, keyRunes("s"))

	view := ansi.Strip(m.View())
	require.Contains(t, view, "Session")
	require.Contains(t, view, "Elapsed")
}

// ============================================================================
// Program lifecycle
// ============================================================================

func TestProgramTypesAndQuits(t *testing.T) {
	m := newTestModel(t, "")
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	tm.Send(keyRunes("hello"))
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return strings.Contains(ansi.Strip(string(bts)), "hello")
	}, teatest.WithDuration(3*time.Second))

	// Unsaved changes: quit needs the confirmation step.
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlQ})
	tm.Send(keyRunes("n"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestProgramSaveThenQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.md")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	cfg := config.Defaults()
	disp, err := dispatch.New(path, cfg, dispatch.Deps{})
	require.NoError(t, err)

	tm := teatest.NewTestModel(t, New(disp, cfg), teatest.WithInitialTermSize(80, 24))
	tm.Send(keyRunes("kept"))
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlS})
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlQ})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "kept", string(data))
}
