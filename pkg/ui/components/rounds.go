package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RoundSummary holds the figures of the latest detection round plus
// cumulative tallies across the session.
type RoundSummary struct {
	Generation    uint64
	PoolsOK       int
	PoolsTotal    int
	Candidates    int
	Executed      int
	Reduced       int
	Skipped       int
	GasPriceGwei  string
	Duration      time.Duration
	SignalStale   bool
	SessionTrades int
	SessionPnL    string

	TotalRounds     int64
	TotalCandidates int64
	TotalActionable int64
}

// RoundsComponent renders the round summary panel.
type RoundsComponent struct {
	summary RoundSummary
	seen    bool
}

// NewRoundsComponent creates a new rounds component.
func NewRoundsComponent() *RoundsComponent {
	return &RoundsComponent{}
}

// Update records the latest round and bumps the session tallies.
func (r *RoundsComponent) Update(summary RoundSummary) {
	summary.TotalRounds = r.summary.TotalRounds + 1
	summary.TotalCandidates = r.summary.TotalCandidates + int64(summary.Candidates)
	summary.TotalActionable = r.summary.TotalActionable + int64(summary.Executed+summary.Reduced)
	r.summary = summary
	r.seen = true
}

// View renders the rounds component.
func (r *RoundsComponent) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)

	if !r.seen {
		return labelStyle.Render("ROUNDS") + "\nWaiting for first round..."
	}

	s := r.summary
	coverage := valueStyle.Render(fmt.Sprintf("%d/%d", s.PoolsOK, s.PoolsTotal))
	if s.PoolsOK < s.PoolsTotal {
		coverage = warnStyle.Render(fmt.Sprintf("%d/%d", s.PoolsOK, s.PoolsTotal))
	}
	signal := valueStyle.Render("live")
	if s.SignalStale {
		signal = warnStyle.Render("stale")
	}

	return labelStyle.Render("ROUNDS") + "\n" +
		fmt.Sprintf("Gen: %s  │  Pools: %s  │  Gas: %s gwei  │  Signal: %s\n",
			valueStyle.Render(fmt.Sprintf("#%d", s.Generation)),
			coverage,
			valueStyle.Render(s.GasPriceGwei),
			signal,
		) +
		fmt.Sprintf("Candidates: %s  │  Exec: %s  │  Reduced: %s  │  Skip: %s  │  Took: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.Candidates)),
			valueStyle.Render(fmt.Sprintf("%d", s.Executed)),
			valueStyle.Render(fmt.Sprintf("%d", s.Reduced)),
			valueStyle.Render(fmt.Sprintf("%d", s.Skipped)),
			valueStyle.Render(s.Duration.Round(time.Millisecond).String()),
		) +
		sessionLine(s, valueStyle)
}

func sessionLine(s RoundSummary, valueStyle lipgloss.Style) string {
	line := fmt.Sprintf("Session: %s rounds, %s candidates, %s actionable",
		valueStyle.Render(fmt.Sprintf("%d", s.TotalRounds)),
		valueStyle.Render(fmt.Sprintf("%d", s.TotalCandidates)),
		valueStyle.Render(fmt.Sprintf("%d", s.TotalActionable)),
	)
	if s.SessionTrades > 0 {
		line += fmt.Sprintf("  │  %s fills, pnl %s",
			valueStyle.Render(fmt.Sprintf("%d", s.SessionTrades)),
			valueStyle.Render(s.SessionPnL))
	}
	return line
}
