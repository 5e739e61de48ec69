package dex

import "github.com/charmbracelet/bubbles/key"

// dexKeys holds the key bindings for the dex TUI.
type dexKeys struct {
	Submit key.Binding
	Tab    key.Binding
	Up     key.Binding
	Down   key.Binding
	Remove key.Binding
	Clear  key.Binding
	Quit   key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k dexKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Tab, k.Up, k.Down, k.Remove, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k dexKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Tab, k.Clear},
		{k.Up, k.Down, k.Remove, k.Quit},
	}
}

// DexKeyMap returns the key bindings for the dex TUI.
func DexKeyMap() dexKeys {
	return dexKeys{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "look up"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "remove"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear selection"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
