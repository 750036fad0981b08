// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// DecisionRow represents one decided candidate in the list.
type DecisionRow struct {
	Generation uint64
	Path       string
	Action     string
	NetPct     string
	Size       string
	Actionable bool
}

// DecisionsComponent renders the rolling list of decisions.
type DecisionsComponent struct {
	rows    []DecisionRow
	maxRows int
}

// NewDecisionsComponent creates a new decisions component.
func NewDecisionsComponent(maxRows int) *DecisionsComponent {
	return &DecisionsComponent{
		rows:    make([]DecisionRow, 0),
		maxRows: maxRows,
	}
}

// Add prepends a decision to the list.
func (d *DecisionsComponent) Add(row DecisionRow) {
	d.rows = append([]DecisionRow{row}, d.rows...)
	if len(d.rows) > d.maxRows {
		d.rows = d.rows[:d.maxRows]
	}
}

// Clear clears all decisions.
func (d *DecisionsComponent) Clear() {
	d.rows = make([]DecisionRow, 0)
}

// View renders the decisions component.
func (d *DecisionsComponent) View() string {
	if len(d.rows) == 0 {
		return "No candidates decided yet..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	executeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	skipStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	result := headerStyle.Render(fmt.Sprintf("DECISIONS (last %d)\n", d.maxRows))
	result += "┌───────┬──────────────────────────────┬──────────────────┬──────────┬──────────┐\n"
	result += "│  Gen  │            Path              │      Action      │   Net    │   Size   │\n"
	result += "├───────┼──────────────────────────────┼──────────────────┼──────────┼──────────┤\n"

	for _, row := range d.rows {
		style := skipStyle
		icon := "·"
		if row.Actionable {
			style = executeStyle
			icon = "✓"
		}

		result += fmt.Sprintf("│%6d │ %-28s │ %s %s│%9s │%9s │\n",
			row.Generation,
			truncate(row.Path, 28),
			icon,
			style.Render(fmt.Sprintf("%-15s", row.Action)),
			row.NetPct,
			row.Size,
		)
	}

	result += "└───────┴──────────────────────────────┴──────────────────┴──────────┴──────────┘"

	return result
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
