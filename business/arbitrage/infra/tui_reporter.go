package infra

import (
	"context"
	"time"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/app"
	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
	"github.com/shogunprotocol/shogun-core-ai/pkg/ui"
)

// TUIReporter implements Reporter by forwarding events to the Bubble Tea
// program as messages. The program itself is owned by main; this adapter
// only sends.
type TUIReporter struct{}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{}
}

// Start marks the detection loop as live in the TUI.
func (r *TUIReporter) Start(ctx context.Context) error {
	ui.Send(ui.StartupMsg{Step: "Starting detection loop", Status: "connected"})
	return nil
}

// ReportDecision sends one decided candidate to the TUI.
func (r *TUIReporter) ReportDecision(d domain.Decision) {
	ui.Send(ui.DecisionMsg{Decision: d})
}

// ReportRound sends the end-of-round summary to the TUI.
func (r *TUIReporter) ReportRound(stats app.RoundStats) {
	ui.Send(ui.RoundMsg{Stats: stats})
}

// UpdateConnectionStatus sends connection status to the TUI.
func (r *TUIReporter) UpdateConnectionStatus(name string, connected bool, latency time.Duration) {
	ui.Send(ui.ConnectionStatusMsg{Name: name, Connected: connected, Latency: latency})
}

// Stop is a no-op; main owns the program's lifecycle.
func (r *TUIReporter) Stop() error {
	return nil
}
