// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/app"
	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
)

var hundred = decimal.NewFromInt(100)

func toPercent(ratio decimal.Decimal) string {
	return ratio.Mul(hundred).StringFixed(4)
}

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo creates a ConsoleReporter writing to w.
func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Shogun Detection Engine Started")
	fmt.Fprintln(r.out, "===============================")
	return nil
}

// ReportDecision outputs one decided candidate. Skips are folded into the
// round summary; only actionable decisions get a full block.
func (r *ConsoleReporter) ReportDecision(d domain.Decision) {
	if !d.IsActionable() {
		return
	}
	opp := d.Opportunity

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "%s  %s\n", d.Action, opp.Path.String())
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Generation:     #%d\n", opp.Generation)
	fmt.Fprintf(r.out, "Detected:       %s\n", opp.DetectedAt.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Route:          %s\n", opp.Path.PoolRoute())
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "RATIOS")
	fmt.Fprintf(r.out, "  Gross:          %s%%\n", toPercent(opp.GrossRatio))
	fmt.Fprintf(r.out, "  Gas:            -%s%%\n", toPercent(opp.Costs.GasRatio))
	fmt.Fprintf(r.out, "  Impact:         -%s%%\n", toPercent(opp.Costs.ImpactRatio))
	fmt.Fprintf(r.out, "  Net:            %s%%\n", toPercent(opp.NetRatio))
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "TRADE")
	fmt.Fprintf(r.out, "  Notional:       %s WCORE\n", opp.Notional.StringFixed(4))
	fmt.Fprintf(r.out, "  Size Factor:    %s\n", d.SizeFactor.String())
	fmt.Fprintf(r.out, "  Trade Size:     %s WCORE\n", d.TradeSize().StringFixed(4))
	fmt.Fprintf(r.out, "  Reason:         %s\n", d.Reason)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "SIGNAL")
	fmt.Fprintf(r.out, "  Sentiment:      %s\n", d.Signal.Sentiment.String())
	fmt.Fprintf(r.out, "  Confidence:     %s\n", d.Signal.Confidence)
	if len(d.Signal.RiskFlags) > 0 {
		fmt.Fprintf(r.out, "  Risk Flags:     %v\n", d.Signal.RiskFlags)
	}
	if d.Signal.Stale {
		fmt.Fprintln(r.out, "  (signal stale)")
	}
	fmt.Fprintln(r.out, "================================================================================")
}

// ReportRound outputs the end-of-round summary, one line per round plus a
// line per excluded pool.
func (r *ConsoleReporter) ReportRound(stats app.RoundStats) {
	stale := ""
	if stats.SignalStale {
		stale = " signal=stale"
	}
	session := ""
	if stats.SessionTrades > 0 {
		session = fmt.Sprintf(" session=%d/%s", stats.SessionTrades, stats.SessionPnL)
	}
	fmt.Fprintf(r.out, "[%s] round #%d pools=%d/%d candidates=%d exec=%d reduced=%d skip=%d gas=%sgwei %s%s%s\n",
		stats.StartedAt.Format("15:04:05"),
		stats.Generation,
		stats.PoolsOK, stats.PoolsTotal,
		stats.Candidates,
		stats.Executed, stats.Reduced, stats.Skipped,
		stats.GasPriceGwei,
		stats.Duration.Round(time.Millisecond),
		stale,
		session)

	for _, issue := range stats.Excluded {
		fmt.Fprintf(r.out, "    excluded %s: %s\n", issue.Pool, issue.Reason)
	}
}

// UpdateConnectionStatus outputs connection status changes.
func (r *ConsoleReporter) UpdateConnectionStatus(name string, connected bool, latency time.Duration) {
	status := "disconnected"
	if connected {
		status = fmt.Sprintf("connected (%s)", latency)
	}
	fmt.Fprintf(r.out, "[%s] %s: %s\n", time.Now().Format("15:04:05"), name, status)
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Shogun Detection Engine Stopped")
	return nil
}
