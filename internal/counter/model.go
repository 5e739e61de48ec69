package counter

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/pokedex/internal/store"
)

// Model is a Bubble Tea model driving the counter reducer through a Store.
// Every key press becomes a dispatched Action; the view renders whatever
// state the store holds.
type Model struct {
	store *store.Store[State, Action]
	step  int
	err   error
}

var countStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

// NewModel creates a counter Model around an existing store. step is the
// delta dispatched per increment/decrement key press.
func NewModel(s *store.Store[State, Action], step int) Model {
	if step == 0 {
		step = 1
	}
	return Model{store: s, step: step}
}

// Init returns no initial command; the counter is purely key-driven.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update dispatches counter actions for key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "+", "up", "k":
		return m.dispatch(Increment{Step: m.step})
	case "-", "down", "j":
		return m.dispatch(Increment{Step: -m.step})
	case "0", "r":
		return m.dispatch(Replace{Count: 0})
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	}
	return m, nil
}

// dispatch applies an action and quits with the error on reducer failure.
// Reducer errors are programmer errors; they abort the program rather than
// degrade the display.
func (m Model) dispatch(a Action) (tea.Model, tea.Cmd) {
	if err := m.store.Dispatch(a); err != nil {
		m.err = err
		return m, tea.Quit
	}
	return m, nil
}

// Err returns the dispatch error that terminated the model, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the count with a one-line key legend.
func (m Model) View() string {
	s := fmt.Sprintf("\n  count: %s\n\n", countStyle.Render(fmt.Sprintf("%d", m.store.State().Count)))
	s += fmt.Sprintf("  +/- step by %d · 0 reset · q quit\n", m.step)
	return s
}
