// Package ui is the bubbletea front end. It owns no editing logic: key
// events are translated and handed to the dispatcher, and the view is
// painted from the dispatcher's render state.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/hollow/internal/config"
	"github.com/zjrosen/hollow/internal/dispatch"
	"github.com/zjrosen/hollow/internal/log"
	"github.com/zjrosen/hollow/internal/pubsub"
	"github.com/zjrosen/hollow/internal/watcher"
)

const (
	minCols = 40
	minRows = 10

	// tickEvery drives periodic maintenance (autosave, status timers).
	tickEvery = 250 * time.Millisecond

	helpWidth = 60
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the root application model.
type Model struct {
	disp *dispatch.Dispatcher

	width    int
	height   int
	tabWidth int
	help     string

	watcherHandle   *watcher.Watcher
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[string]
}

// New builds the front end around an editing session.
func New(disp *dispatch.Dispatcher, cfg config.Config) Model {
	return Model{
		disp:     disp,
		tabWidth: cfg.Editor.TabWidth,
		help:     renderHelp(helpWidth),
	}
}

// WithWatcher attaches a running document watcher whose broker events
// surface as external-change notices.
func (m Model) WithWatcher(w *watcher.Watcher, broker *pubsub.Broker[string]) Model {
	ctx, cancel := context.WithCancel(context.Background())
	m.watcherHandle = w
	m.watcherCancel = cancel
	m.watcherListener = pubsub.NewContinuousListener(ctx, broker)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.disp.SetPageRows(max(1, msg.Height-statusRows))
		return m, nil

	case tea.KeyMsg:
		// A runes message can carry several characters (paste); each one
		// goes through the dispatcher on its own.
		if msg.Type == tea.KeyRunes && !msg.Alt {
			for _, r := range msg.Runes {
				m.disp.HandleKey(dispatch.Rune(r))
			}
		} else {
			key, ok := translateKey(msg)
			if !ok {
				return m, nil
			}
			m.disp.HandleKey(key)
		}
		if m.disp.ShouldQuit() {
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		m.disp.Tick()
		return m, tick()

	case pubsub.Event[string]:
		if msg.Type == pubsub.FileChangedEvent {
			m.disp.NotifyExternalChange()
		}
		if m.watcherListener != nil {
			return m, m.watcherListener.Listen()
		}
		return m, nil
	}

	return m, nil
}

// Close releases the watcher resources.
func (m *Model) Close() {
	if m.watcherCancel != nil {
		m.watcherCancel()
	}
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			log.ErrorErr(log.CatWatcher, err, "stopping watcher")
		}
	}
}
