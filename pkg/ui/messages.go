// Package ui provides the Bubble Tea TUI for the detection engine.
package ui

import (
	"time"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/app"
	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
)

// Message types for TUI updates

// DecisionMsg is sent when a candidate has been decided.
type DecisionMsg struct {
	Decision domain.Decision
}

// RoundMsg is sent at the end of every detection round.
type RoundMsg struct {
	Stats app.RoundStats
}

// ConnectionStatusMsg is sent when upstream connectivity changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Latency   time.Duration
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// WelcomeCompleteMsg signals the welcome screen is done (timeout or keypress).
type WelcomeCompleteMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // Current step name
	Status  string // "connecting", "connected", "failed"
	Message string // Optional message
}
