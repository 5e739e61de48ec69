package dex

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/pokedex/internal/pokeapi"
)

// helpBarHeight is the number of lines reserved for the help bar.
const helpBarHeight = 1

// searchBarHeight is the number of lines used by the search input row.
const searchBarHeight = 2

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Model is the root Bubble Tea model for the dex TUI: a search input, a
// left pane listing cached names, and a right detail pane rendering the
// session phase.
type Model struct {
	ctx      context.Context
	session  *Session
	fetcher  pokeapi.Fetcher
	recorder Recorder

	input    textinput.Model
	spin     spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     dexKeys

	focus  Focus
	cursor int
	width  int
	height int
	fatal  error
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithRecorder sets the recorder notified on each successful lookup.
func WithRecorder(r Recorder) ModelOption {
	return func(m *Model) { m.recorder = r }
}

// WithSuggestions seeds the search input's completion suggestions,
// typically from lookup history.
func WithSuggestions(names []string) ModelOption {
	return func(m *Model) {
		m.input.ShowSuggestions = true
		m.input.SetSuggestions(names)
	}
}

// NewModel creates a dex Model with search focus. ctx bounds the fetches
// issued by the model; cancelling it aborts any in-flight request.
func NewModel(ctx context.Context, session *Session, fetcher pokeapi.Fetcher, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Placeholder = "pokémon name"
	ti.CharLimit = 64
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		session:  session,
		fetcher:  fetcher,
		input:    ti,
		spin:     sp,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     DexKeyMap(),
		focus:    FocusSearch,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Err returns the fatal error that terminated the model, if any. Reducer
// errors are programmer errors and end the program rather than degrade
// the display.
func (m Model) Err() error {
	return m.fatal
}

// Init starts the input cursor blink and the spinner tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

// fetchCmd issues an async fetch for name under the given session
// generation and delivers the outcome as a FetchResultMsg.
func (m Model) fetchCmd(name string, gen uint64) tea.Cmd {
	fetcher, ctx := m.fetcher, m.ctx
	return func() tea.Msg {
		data, err := fetcher.FetchByName(ctx, name)
		return FetchResultMsg{Gen: gen, Name: name, Data: data, Err: err}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		_, rightWidth := PaneWidths(msg.Width)
		vpWidth := rightWidth - borderChrome
		if vpWidth < 0 {
			vpWidth = 0
		}
		m.viewport.Width = vpWidth
		m.viewport.Height = m.contentHeight()
		m.syncViewport()
		return m, nil

	case FetchResultMsg:
		return m.applyFetchResult(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyFetchResult feeds a fetch outcome into the session.
func (m Model) applyFetchResult(msg FetchResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.session.Reject(msg.Gen, msg.Err)
		m.syncViewport()
		return m, nil
	}

	if err := m.session.Resolve(msg.Gen, msg.Name, msg.Data); err != nil {
		m.fatal = err
		return m, tea.Quit
	}
	if m.recorder != nil && m.session.Phase() == PhaseResolved && m.session.Selection() == msg.Name {
		m.recorder.Record(msg.Name)
	}
	m.clampCursor()
	m.syncViewport()
	return m, nil
}

// handleKey processes key messages with global and focus-specific routing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.focus == FocusSearch {
			m.focus = FocusList
			m.input.Blur()
		} else {
			m.focus = FocusSearch
			m.input.Focus()
		}
		return m, nil
	}

	if m.focus == FocusList {
		return m.handleListKey(msg)
	}
	return m.handleSearchKey(msg)
}

// handleSearchKey routes keys while the search input has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := pokeapi.Normalize(m.input.Value())
		if name == "" {
			return m, nil
		}
		m.input.SetValue("")
		return m.selectName(name)

	case "esc":
		if m.input.Value() != "" {
			m.input.SetValue("")
			return m, nil
		}
		m.session.Select("")
		m.syncViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleListKey routes keys while the cached-name list has focus.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := m.session.Cache().Names()

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if len(names) > 0 {
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(names) - 1
			}
		}
		return m, nil

	case "down", "j":
		if len(names) > 0 {
			m.cursor++
			if m.cursor >= len(names) {
				m.cursor = 0
			}
		}
		return m, nil

	case "enter":
		if m.cursor < len(names) {
			return m.selectName(names[m.cursor])
		}
		return m, nil

	case "d", "x":
		if m.cursor < len(names) {
			if err := m.session.Remove(names[m.cursor]); err != nil {
				m.fatal = err
				return m, tea.Quit
			}
			m.clampCursor()
			m.syncViewport()
		}
		return m, nil

	case "esc":
		m.focus = FocusSearch
		m.input.Focus()
		return m, nil
	}

	return m, nil
}

// selectName runs a selection through the session and issues a fetch
// command when the cache misses.
func (m Model) selectName(name string) (tea.Model, tea.Cmd) {
	fetch, gen := m.session.Select(name)
	m.syncViewport()
	if !fetch {
		return m, nil
	}
	return m, m.fetchCmd(name, gen)
}

// clampCursor keeps the list cursor inside the cached-name range.
func (m *Model) clampCursor() {
	n := m.session.Cache().Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// syncViewport refreshes the detail pane content from the session.
func (m *Model) syncViewport() {
	m.viewport.SetContent(m.renderDetail())
}

// contentHeight returns the usable height for pane content.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - helpBarHeight - searchBarHeight
	if h < 1 {
		return 1
	}
	return h
}
