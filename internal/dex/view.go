package dex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/pokedex/internal/pokeapi"
)

// View renders the search bar, the two panes, and the help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	leftStyle := UnfocusedBorder()
	rightStyle := UnfocusedBorder()
	if m.focus == FocusList {
		leftStyle = FocusedBorder()
	} else {
		rightStyle = FocusedBorder()
	}

	left := leftStyle.
		Width(leftWidth - borderChrome).
		Height(contentHeight).
		Render(m.renderList(contentHeight))

	right := rightStyle.
		Width(rightWidth - borderChrome).
		Height(contentHeight).
		Render(m.viewport.View())

	search := " " + m.input.View() + "\n"
	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	helpBar := m.help.View(m.keys)

	return search + panes + "\n" + helpBar
}

// renderList renders the cached names in insertion order, marking the
// cursor row and the currently displayed name.
func (m Model) renderList(maxLines int) string {
	names := m.session.Cache().Names()
	if len(names) == 0 {
		return hintStyle.Render("cache empty")
	}

	var b strings.Builder
	for i, name := range names {
		if i >= maxLines {
			break
		}
		prefix := "  "
		if i == m.cursor {
			prefix = CursorMarker
		}
		line := prefix + name
		if name == m.session.Selection() {
			line += " " + displayedMark
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderDetail renders the right pane for the current session phase.
func (m Model) renderDetail() string {
	switch m.session.Phase() {
	case PhaseIdle:
		return hintStyle.Render("Type a name and press enter to look up a pokémon.")

	case PhasePending:
		return fmt.Sprintf("%s fetching %s...", m.spin.View(), m.session.Selection())

	case PhaseRejected:
		err := m.session.Err()
		if errors.Is(err, pokeapi.ErrNotFound) {
			return errorStyle.Render(fmt.Sprintf("No pokémon named %q.", m.session.Selection()))
		}
		return errorStyle.Render(fmt.Sprintf("Lookup failed: %v", err))

	case PhaseResolved:
		return formatPokemon(m.session.Current())
	}
	return ""
}

// formatPokemon renders a resolved Pokémon as the detail pane body.
func formatPokemon(p pokeapi.Pokemon) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(fmt.Sprintf("#%03d %s", p.ID, p.Name)))
	if len(p.Types) > 0 {
		fmt.Fprintf(&b, "type     %s\n", strings.Join(p.Types, ", "))
	}
	fmt.Fprintf(&b, "height   %.1f m\n", float64(p.Height)/10)
	fmt.Fprintf(&b, "weight   %.1f kg\n", float64(p.Weight)/10)
	fmt.Fprintf(&b, "base xp  %d\n", p.BaseExperience)
	if len(p.Abilities) > 0 {
		fmt.Fprintf(&b, "ability  %s\n", strings.Join(p.Abilities, ", "))
	}

	if len(p.Stats) > 0 {
		b.WriteString("\n")
		for _, s := range p.Stats {
			fmt.Fprintf(&b, "%-16s %3d %s\n", s.Name, s.Value, statBar(s.Value))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// statBar renders a proportional bar for a base stat (capped at 255).
func statBar(value int) string {
	if value < 0 {
		value = 0
	}
	if value > 255 {
		value = 255
	}
	return strings.Repeat("█", value/16)
}
