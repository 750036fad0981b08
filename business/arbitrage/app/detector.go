package app

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
	intelApp "github.com/shogunprotocol/shogun-core-ai/business/intelligence/app"
	marketApp "github.com/shogunprotocol/shogun-core-ai/business/market/app"
	marketDomain "github.com/shogunprotocol/shogun-core-ai/business/market/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
)

// Phase is the detector's position in a round.
type Phase string

const (
	PhaseIdle      Phase = "IDLE"
	PhaseFetching  Phase = "FETCHING"
	PhaseBuilding  Phase = "BUILDING"
	PhaseScanning  Phase = "SCANNING"
	PhaseCosting   Phase = "COSTING"
	PhaseDeciding  Phase = "DECIDING"
	PhaseReporting Phase = "REPORTING"
)

// DetectorConfig holds detection loop configuration.
type DetectorConfig struct {
	Interval time.Duration
}

// detectorMetrics holds OTEL metric instruments.
type detectorMetrics struct {
	rounds        metric.Int64Counter
	roundDuration metric.Float64Histogram
	candidates    metric.Int64Counter
	decisions     metric.Int64Counter
}

// Detector drives the detection rounds: every interval it takes a reserve
// snapshot, builds the exchange graph, scans for cycles, costs them, runs
// the decision policy against the current market signal, and hands the
// results to the reporter and execution sink. Rounds never overlap; if one
// runs past the interval the next tick is skipped.
type Detector struct {
	config    DetectorConfig
	snapshots *marketApp.SnapshotService
	signals   *intelApp.SignalService
	scanner   *Scanner
	costs     *CostModel
	policy    *DecisionPolicy
	reporter  Reporter
	sink      ExecutionSink
	logger    logger.LoggerInterface

	phase    atomic.Value // Phase
	inFlight atomic.Bool

	statsMu   sync.RWMutex
	lastStats RoundStats

	cancel  context.CancelFunc
	stopped chan struct{}

	tracer  trace.Tracer
	metrics *detectorMetrics
}

// NewDetector creates a new Detector.
func NewDetector(
	cfg DetectorConfig,
	snapshots *marketApp.SnapshotService,
	signals *intelApp.SignalService,
	scanner *Scanner,
	costs *CostModel,
	policy *DecisionPolicy,
	reporter Reporter,
	sink ExecutionSink,
	log logger.LoggerInterface,
) (*Detector, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	d := &Detector{
		config:    cfg,
		snapshots: snapshots,
		signals:   signals,
		scanner:   scanner,
		costs:     costs,
		policy:    policy,
		reporter:  reporter,
		sink:      sink,
		logger:    log,
		stopped:   make(chan struct{}),
		tracer:    otel.Tracer("detector"),
	}
	d.phase.Store(PhaseIdle)

	if err := d.initMetrics(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Detector) initMetrics() error {
	meter := otel.Meter("detector")
	var err error

	d.metrics = &detectorMetrics{}

	d.metrics.rounds, err = meter.Int64Counter(
		"detection_rounds_total",
		metric.WithDescription("Total detection rounds run"),
	)
	if err != nil {
		return err
	}

	d.metrics.roundDuration, err = meter.Float64Histogram(
		"detection_round_duration_ms",
		metric.WithDescription("Detection round duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	d.metrics.candidates, err = meter.Int64Counter(
		"candidates_total",
		metric.WithDescription("Total arbitrage candidates scanned"),
	)
	if err != nil {
		return err
	}

	d.metrics.decisions, err = meter.Int64Counter(
		"decisions_total",
		metric.WithDescription("Total decisions by action"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Start begins the detection loop.
func (d *Detector) Start(ctx context.Context) error {
	if err := d.reporter.Start(ctx); err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.run(loopCtx)

	d.logger.Info(ctx, "detector started", "interval", d.config.Interval.String())
	return nil
}

func (d *Detector) run(ctx context.Context) {
	defer close(d.stopped)

	// first round immediately, then on the ticker
	d.tick(ctx)

	ticker := time.NewTicker(d.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info(ctx, "detector stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *Detector) tick(ctx context.Context) {
	if !d.inFlight.CompareAndSwap(false, true) {
		d.logger.Warn(ctx, "previous round still in flight, skipping tick")
		return
	}
	defer d.inFlight.Store(false)

	d.runRound(ctx)
	d.phase.Store(PhaseIdle)
}

func (d *Detector) runRound(ctx context.Context) {
	ctx, span := d.tracer.Start(ctx, "detector.round")
	defer span.End()

	start := time.Now()
	d.metrics.rounds.Add(ctx, 1)

	stats := RoundStats{StartedAt: start}

	// FETCHING: one consistent reserve view plus the gas price
	d.phase.Store(PhaseFetching)
	snap, err := d.snapshots.Take(ctx)
	if err != nil {
		span.RecordError(err)
		d.logger.Error(ctx, "round aborted, no usable snapshot", "error", err)
		return
	}
	stats.Generation = snap.Generation
	stats.PoolsOK, stats.PoolsTotal = snap.Coverage()
	for name, ferr := range snap.Failed {
		stats.Excluded = append(stats.Excluded, PoolIssue{Pool: name, Reason: ferr.Error()})
	}
	sort.Slice(stats.Excluded, func(i, j int) bool {
		return stats.Excluded[i].Pool < stats.Excluded[j].Pool
	})

	gasPrice, err := d.snapshots.GasPrice(ctx)
	if err != nil {
		// cost the round with a zero price rather than dropping it
		d.logger.Warn(ctx, "gas price unavailable, costing without gas", "error", err)
		gasPrice = marketDomain.GasPrice{}
	}
	stats.GasPriceGwei = gasPrice.Gwei().String()

	// BUILDING
	d.phase.Store(PhaseBuilding)
	graph := domain.BuildGraph(snap)

	// SCANNING
	d.phase.Store(PhaseScanning)
	candidates := d.scanner.Scan(graph)
	stats.Candidates = len(candidates)
	d.metrics.candidates.Add(ctx, int64(len(candidates)))

	// COSTING
	d.phase.Store(PhaseCosting)
	d.costs.ApplyAll(candidates, gasPrice)
	domain.RankByNet(candidates)

	// DECIDING: one signal read per round so every candidate sees the same view
	d.phase.Store(PhaseDeciding)
	signal := d.signals.Current(ctx)
	stats.SignalStale = signal.Stale
	decisions := d.policy.DecideAll(candidates, signal)

	// REPORTING
	d.phase.Store(PhaseReporting)
	for _, decision := range decisions {
		d.metrics.decisions.Add(ctx, 1,
			metric.WithAttributes(attribute.String("action", string(decision.Action))))

		switch decision.Action {
		case domain.ActionExecute:
			stats.Executed++
		case domain.ActionExecuteReduced:
			stats.Reduced++
		default:
			stats.Skipped++
		}

		d.reporter.ReportDecision(decision)

		if decision.IsActionable() && d.sink != nil {
			if err := d.sink.Execute(ctx, decision); err != nil {
				d.logger.Error(ctx, "execution sink failed",
					"fingerprint", decision.Opportunity.Fingerprint,
					"error", err)
			}
		}
	}

	if acct, ok := d.sink.(SessionAccounting); ok {
		trades, pnl := acct.SessionPnL()
		stats.SessionTrades = trades
		stats.SessionPnL = pnl.String()
	}

	stats.Duration = time.Since(start)
	d.metrics.roundDuration.Record(ctx, float64(stats.Duration.Milliseconds()))

	d.statsMu.Lock()
	d.lastStats = stats
	d.statsMu.Unlock()

	d.reporter.ReportRound(stats)

	d.logger.Info(ctx, "round complete",
		"generation", stats.Generation,
		"pools", stats.PoolsOK,
		"candidates", stats.Candidates,
		"executed", stats.Executed,
		"reduced", stats.Reduced,
		"skipped", stats.Skipped,
		"duration_ms", stats.Duration.Milliseconds())
}

// Phase returns the detector's current phase.
func (d *Detector) Phase() Phase {
	return d.phase.Load().(Phase)
}

// LastStats returns the most recent completed round summary.
func (d *Detector) LastStats() RoundStats {
	d.statsMu.RLock()
	defer d.statsMu.RUnlock()
	return d.lastStats
}

// Stop gracefully shuts down the detector.
func (d *Detector) Stop() error {
	if d.cancel != nil {
		d.cancel()
		<-d.stopped
	}
	return d.reporter.Stop()
}
