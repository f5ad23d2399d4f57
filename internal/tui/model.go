// Package tui renders the live agent dashboard. All engine mutation
// happens on the bubbletea event loop: one Merge per tick message, so
// the tracker's single-writer rule holds by construction.
package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JiwanChung/coder-tools/internal/monitor"
	"github.com/JiwanChung/coder-tools/internal/notify"
	"github.com/JiwanChung/coder-tools/internal/status"
	"github.com/JiwanChung/coder-tools/internal/tmux"
	"github.com/JiwanChung/coder-tools/internal/usage"
)

// PaneSource produces one complete observation batch per call
type PaneSource interface {
	ListPanes() ([]tmux.Pane, error)
}

// Navigator focuses panes; satisfied by tmux.Manager
type Navigator interface {
	SwitchTo(session string, window, pane int) error
}

// Options configures the dashboard
type Options struct {
	Interval   time.Duration
	ShowAll    bool
	Compact    bool
	Notify     bool
	Jump       bool
	SelfPaneID string
}

// Model is the bubbletea model for the monitor dashboard
type Model struct {
	tracker   *monitor.Tracker
	source    PaneSource
	navigator Navigator
	resolver  *usage.Resolver
	notifier  *notify.Notifier
	opts      Options
	keys      keyMap

	selected          int
	showAll           bool
	compact           bool
	groupBySession    bool
	showStats         bool
	collapsedSessions map[string]bool
	statusFilter      *status.Status

	width     int
	height    int
	statusMsg string
	sourceErr error
}

type tickMsg time.Time

type keyMap struct {
	Quit     key.Binding
	Down     key.Binding
	Up       key.Binding
	ShowAll  key.Binding
	Compact  key.Binding
	Group    key.Binding
	Stats    key.Binding
	Working  key.Binding
	Waiting  key.Binding
	Collapse key.Binding
	Costs    key.Binding
	Export   key.Binding
	Jump     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "move")),
		Up:       key.NewBinding(key.WithKeys("k", "up")),
		ShowAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all panes")),
		Compact:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compact")),
		Group:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group")),
		Stats:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		Working:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "working only")),
		Waiting:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "waiting only")),
		Collapse: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "collapse")),
		Costs:    key.NewBinding(key.WithKeys("$"), key.WithHelp("$", "costs")),
		Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Jump:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "jump")),
	}
}

// New creates the dashboard model
func New(tracker *monitor.Tracker, source PaneSource, navigator Navigator, resolver *usage.Resolver, notifier *notify.Notifier, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	return Model{
		tracker:           tracker,
		source:            source,
		navigator:         navigator,
		resolver:          resolver,
		notifier:          notifier,
		opts:              opts,
		keys:              defaultKeyMap(),
		showAll:           opts.ShowAll,
		compact:           opts.Compact,
		collapsedSessions: make(map[string]bool),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the poll loop with an immediate refresh
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return tickMsg(time.Now()) }
}

// Update handles tick and key messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.refresh()
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// refresh runs one poll tick: list panes, merge, notify, clamp. A pane
// source failure means no update this tick; existing records persist.
func (m *Model) refresh() {
	batch, err := m.source.ListPanes()
	if err != nil {
		m.sourceErr = err
		return
	}
	m.sourceErr = nil

	events := m.tracker.Merge(batch, m.opts.SelfPaneID)
	if m.notifier != nil {
		m.notifier.Publish(events)
	}
	if m.opts.Jump && m.navigator != nil {
		for _, ev := range events {
			_ = m.navigator.SwitchTo(ev.SessionName, ev.WindowIndex, ev.PaneIndex)
			break
		}
	}

	m.selected = monitor.ClampSelection(m.selected, len(m.visible()))
}

func (m *Model) visible() []*monitor.PaneRecord {
	return m.tracker.Visible(m.showAll, m.statusFilter)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if count := len(m.visible()); count > 0 {
			m.selected = (m.selected + 1) % count
		}

	case key.Matches(msg, m.keys.Up):
		if count := len(m.visible()); count > 0 {
			m.selected = (m.selected + count - 1) % count
		}

	case key.Matches(msg, m.keys.ShowAll):
		m.showAll = !m.showAll
		m.selected = 0

	case key.Matches(msg, m.keys.Compact):
		m.compact = !m.compact

	case key.Matches(msg, m.keys.Group):
		m.groupBySession = !m.groupBySession

	case key.Matches(msg, m.keys.Stats):
		m.showStats = !m.showStats

	case key.Matches(msg, m.keys.Working):
		m.toggleFilter(status.Working)

	case key.Matches(msg, m.keys.Waiting):
		m.toggleFilter(status.WaitingForInput)

	case key.Matches(msg, m.keys.Collapse):
		if r := m.selectedRecord(); r != nil {
			session := r.Pane.SessionName
			m.collapsedSessions[session] = !m.collapsedSessions[session]
		}

	case key.Matches(msg, m.keys.Costs):
		m.refreshCosts()

	case key.Matches(msg, m.keys.Export):
		m.exportStats()

	case key.Matches(msg, m.keys.Jump):
		if r := m.selectedRecord(); r != nil && m.navigator != nil {
			_ = m.navigator.SwitchTo(r.Pane.SessionName, r.Pane.WindowIndex, r.Pane.PaneIndex)
		}
	}
	return m, nil
}

func (m *Model) toggleFilter(s status.Status) {
	if m.statusFilter != nil && *m.statusFilter == s {
		m.statusFilter = nil
	} else {
		m.statusFilter = &s
	}
	m.selected = 0
}

func (m Model) selectedRecord() *monitor.PaneRecord {
	view := m.visible()
	if m.selected < len(view) {
		return view[m.selected]
	}
	return nil
}

// refreshCosts resolves usage for every agent pane and caches it on the
// records. Blocking file IO, deliberately keyed to an explicit request.
func (m *Model) refreshCosts() {
	if m.resolver == nil {
		return
	}
	resolved := 0
	for _, r := range m.visible() {
		if r.Pane.Provider == "" {
			continue
		}
		report := m.resolver.Resolve(r.Pane.CurrentPath, r.Pane.Provider)
		m.tracker.AttachUsage(r.Pane.ID, report)
		resolved++
	}
	m.statusMsg = fmt.Sprintf("resolved usage for %d panes", resolved)
}

// exportStats writes a JSON snapshot of the current view to the cwd
func (m *Model) exportStats() {
	view := m.visible()
	snap := m.tracker.Export(view, m.tracker.Aggregate(view))

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		m.statusMsg = "export failed"
		return
	}
	name := fmt.Sprintf("coder-tools-stats-%s.json", snap.Timestamp)
	if err := os.WriteFile(name, data, 0o644); err != nil {
		m.statusMsg = "export failed: " + err.Error()
		return
	}
	m.statusMsg = "exported " + name
}
