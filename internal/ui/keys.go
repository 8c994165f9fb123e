package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/hollow/internal/dispatch"
)

// translateKey maps a terminal key message to the dispatcher's logical
// key event. ok is false for keys the editor has no meaning for.
func translateKey(msg tea.KeyMsg) (dispatch.Key, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return dispatch.Key{}, false
		}
		return dispatch.Rune(msg.Runes[0]), true
	case tea.KeySpace:
		return dispatch.Rune(' '), true
	}

	switch msg.String() {
	case "esc":
		return dispatch.Special(dispatch.KeyEsc), true
	case "enter":
		return dispatch.Special(dispatch.KeyEnter), true
	case "backspace":
		return dispatch.Special(dispatch.KeyBackspace), true
	case "delete":
		return dispatch.Special(dispatch.KeyDelete), true
	case "up":
		return dispatch.Special(dispatch.KeyUp), true
	case "down":
		return dispatch.Special(dispatch.KeyDown), true
	case "left":
		return dispatch.Special(dispatch.KeyLeft), true
	case "right":
		return dispatch.Special(dispatch.KeyRight), true
	case "home":
		return dispatch.Special(dispatch.KeyHome), true
	case "end":
		return dispatch.Special(dispatch.KeyEnd), true
	case "pgup":
		return dispatch.Special(dispatch.KeyPageUp), true
	case "pgdown":
		return dispatch.Special(dispatch.KeyPageDown), true
	case "ctrl+left":
		return dispatch.CtrlSpecial(dispatch.KeyLeft), true
	case "ctrl+right":
		return dispatch.CtrlSpecial(dispatch.KeyRight), true
	case "ctrl+home":
		return dispatch.CtrlSpecial(dispatch.KeyHome), true
	case "ctrl+end":
		return dispatch.CtrlSpecial(dispatch.KeyEnd), true
	case "ctrl+s":
		return dispatch.Ctrl('s'), true
	case "ctrl+q":
		return dispatch.Ctrl('q'), true
	case "ctrl+g":
		return dispatch.Ctrl('g'), true
	case "ctrl+z":
		return dispatch.Ctrl('z'), true
	case "ctrl+y":
		return dispatch.Ctrl('y'), true
	case "ctrl+r":
		return dispatch.Ctrl('r'), true
	}

	return dispatch.Key{}, false
}
