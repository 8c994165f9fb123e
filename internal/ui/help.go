package ui

import (
	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/hollow/internal/log"
)

const helpMarkdown = `# hollow

## Everywhere

| Key | Action |
|-----|--------|
| ctrl+s | save |
| ctrl+q | quit |
| ctrl+g | toggle status line |
| ctrl+z | undo |
| ctrl+y | redo |

## Write mode

Type. Escape drops you into Navigate mode.

## Navigate mode

| Key | Action |
|-----|--------|
| i | back to writing |
| h j k l | move |
| w b | word forward / back |
| { } | paragraph back / forward |
| 0 $ | line start / end |
| gg G | document start / end |
| dd | delete line |
| yy | yank line |
| p | paste line below |
| u / ctrl+r | undo / redo |
| / | search, then n N to cycle |
| ? | this help |
| s | session stats |
| v | version history |

## Version history

| Key | Action |
|-----|--------|
| j k | select version |
| enter | view |
| d | diff against current |
| r | restore |
| esc | back |
`

// renderHelp renders the help text once per size; glamour output is
// cached by the model.
func renderHelp(width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.ErrorErr(log.CatUI, err, "building help renderer")
		return helpMarkdown
	}
	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		log.ErrorErr(log.CatUI, err, "rendering help")
		return helpMarkdown
	}
	return out
}
