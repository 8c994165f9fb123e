package dispatch

// KeyCode identifies a logical key. The input layer (internal/ui)
// decodes terminal escape sequences into these; the dispatcher never
// sees raw bytes.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyEsc
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// Key is one logical key event. Rune is meaningful only for KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
	Ctrl bool
}

// Rune builds a plain printable key event.
func Rune(r rune) Key { return Key{Code: KeyRune, Rune: r} }

// Ctrl builds a control-chord key event, e.g. Ctrl('s') for save.
func Ctrl(r rune) Key { return Key{Code: KeyRune, Rune: r, Ctrl: true} }

// Special builds a non-printable key event.
func Special(code KeyCode) Key { return Key{Code: code} }

// CtrlSpecial builds a control-modified non-printable key event, e.g.
// ctrl+arrow for word-wise movement.
func CtrlSpecial(code KeyCode) Key { return Key{Code: code, Ctrl: true} }
