package dispatch

// Mode is the top-level input mode.
type Mode int

const (
	ModeWrite Mode = iota
	ModeNavigate
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "WRITE"
	case ModeNavigate:
		return "NAVIGATE"
	case ModeSearch:
		return "SEARCH"
	default:
		return "UNKNOWN"
	}
}

// Overlay is the active full-screen overlay, if any. Overlays capture
// all input except the universal bindings.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayStats
	OverlayVersions
	OverlayVersionView
	OverlayVersionDiff
	OverlayQuitConfirm
)

func (o Overlay) String() string {
	switch o {
	case OverlayNone:
		return "none"
	case OverlayHelp:
		return "help"
	case OverlayStats:
		return "stats"
	case OverlayVersions:
		return "versions"
	case OverlayVersionView:
		return "version view"
	case OverlayVersionDiff:
		return "version diff"
	case OverlayQuitConfirm:
		return "quit confirm"
	default:
		return "unknown"
	}
}
