// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
)

// PoolIssue names a pool excluded from a round and why.
type PoolIssue struct {
	Pool   string
	Reason string
}

// RoundStats summarizes one detection round.
type RoundStats struct {
	Generation    uint64
	StartedAt     time.Time
	Duration      time.Duration
	PoolsOK       int
	PoolsTotal    int
	Excluded      []PoolIssue
	Candidates    int
	Executed      int
	Reduced       int
	Skipped       int
	SignalStale   bool
	GasPriceGwei  string
	SessionTrades int
	SessionPnL    string
}

// Reporter receives decisions and round summaries for display or logging.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// ReportDecision delivers one decided candidate.
	ReportDecision(d domain.Decision)

	// ReportRound delivers the end-of-round summary.
	ReportRound(stats RoundStats)

	// UpdateConnectionStatus reflects upstream connectivity in the display.
	UpdateConnectionStatus(name string, connected bool, latency time.Duration)

	// Stop gracefully shuts down the reporter.
	Stop() error
}

// ExecutionSink receives actionable decisions. Implementations may print,
// simulate, or submit them.
type ExecutionSink interface {
	// Execute consumes one actionable decision.
	Execute(ctx context.Context, d domain.Decision) error
}

// SessionAccounting is implemented by sinks that keep a running tally of
// fills across the session.
type SessionAccounting interface {
	// SessionPnL returns the fill count and cumulative profit so far.
	SessionPnL() (trades int, pnl decimal.Decimal)
}
