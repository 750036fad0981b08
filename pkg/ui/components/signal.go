package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SignalState holds the market signal figures for display.
type SignalState struct {
	Sentiment  string
	Confidence string
	RiskFlags  []string
	Stale      bool
	Negative   bool
}

// SignalComponent renders the market signal panel.
type SignalComponent struct {
	state SignalState
	seen  bool
}

// NewSignalComponent creates a new signal component.
func NewSignalComponent() *SignalComponent {
	return &SignalComponent{}
}

// Update records the latest observed signal.
func (s *SignalComponent) Update(state SignalState) {
	s.state = state
	s.seen = true
}

// View renders the signal component.
func (s *SignalComponent) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	positiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	negativeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)

	if !s.seen {
		return labelStyle.Render("SIGNAL") + "\nNo signal observed yet..."
	}

	sentiment := positiveStyle.Render(s.state.Sentiment)
	if s.state.Negative {
		sentiment = negativeStyle.Render(s.state.Sentiment)
	}

	line := fmt.Sprintf("Sentiment: %s  │  Confidence: %s", sentiment, s.state.Confidence)
	if len(s.state.RiskFlags) > 0 {
		line += "  │  " + warnStyle.Render("⚠ "+strings.Join(s.state.RiskFlags, ", "))
	}
	if s.state.Stale {
		line += "  │  " + warnStyle.Render("stale")
	}

	return labelStyle.Render("SIGNAL") + "\n" + line
}
