package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
	intelApp "github.com/shogunprotocol/shogun-core-ai/business/intelligence/app"
	marketApp "github.com/shogunprotocol/shogun-core-ai/business/market/app"
	marketDomain "github.com/shogunprotocol/shogun-core-ai/business/market/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
)

type mapProvider struct {
	reserves map[string]marketDomain.Reserves
	fail     map[string]error
}

func (p *mapProvider) GetReserves(_ context.Context, pool marketDomain.Pool) (marketDomain.Reserves, error) {
	if err, ok := p.fail[pool.Key()]; ok {
		return marketDomain.Reserves{}, err
	}
	r, ok := p.reserves[pool.Key()]
	if !ok {
		return marketDomain.Reserves{}, errors.New("unknown pool")
	}
	return r, nil
}

type fixedGasOracle struct {
	price marketDomain.GasPrice
	err   error
}

func (o *fixedGasOracle) GetGasPrice(context.Context) (marketDomain.GasPrice, error) {
	return o.price, o.err
}

type recordingReporter struct {
	mu        sync.Mutex
	started   bool
	stopped   bool
	decisions []domain.Decision
	rounds    []RoundStats
}

func (r *recordingReporter) Start(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
	return nil
}

func (r *recordingReporter) ReportDecision(d domain.Decision) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, d)
}

func (r *recordingReporter) ReportRound(stats RoundStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds = append(r.rounds, stats)
}

func (r *recordingReporter) UpdateConnectionStatus(string, bool, time.Duration) {}

func (r *recordingReporter) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	return nil
}

func (r *recordingReporter) snapshot() ([]domain.Decision, []RoundStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Decision(nil), r.decisions...), append([]RoundStats(nil), r.rounds...)
}

type recordingSink struct {
	mu       sync.Mutex
	executed []domain.Decision
	err      error
}

func (s *recordingSink) Execute(_ context.Context, d domain.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executed = append(s.executed, d)
	return s.err
}

func trianglePools(t *testing.T) ([]marketDomain.Pool, map[string]marketDomain.Reserves) {
	t.Helper()
	snap := buildSnapshot(t, 0, triangle)

	pools := make([]marketDomain.Pool, 0, len(snap.States))
	reserves := make(map[string]marketDomain.Reserves, len(snap.States))
	for _, st := range snap.States {
		pools = append(pools, st.Pool)
		reserves[st.Pool.Key()] = st.Reserves
	}
	return pools, reserves
}

func newTestDetector(t *testing.T, provider marketApp.ReserveProvider, gas marketApp.GasOracle, pools []marketDomain.Pool, reporter Reporter, sink ExecutionSink) *Detector {
	t.Helper()
	log := logger.New(io.Discard, logger.LevelError, "test", nil)

	snapshots := marketApp.NewSnapshotService(marketApp.SnapshotConfig{Pools: pools}, provider, gas, log)
	signals := intelApp.NewSignalService(intelApp.SignalConfig{}, nil, nil, log)

	d, err := NewDetector(
		DetectorConfig{Interval: time.Hour},
		snapshots,
		signals,
		newTestScanner(t, 3),
		NewCostModel(CostModelConfig{UnitsPerSwap: 150000}),
		NewDecisionPolicy(DefaultPolicyConfig()),
		reporter,
		sink,
		log,
	)
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	return d
}

func thirtyGwei() marketDomain.GasPrice {
	return marketDomain.NewGasPriceFromWei(decimal.RequireFromString("30000000000"))
}

func TestDetector_RoundEndToEnd(t *testing.T) {
	pools, reserves := trianglePools(t)
	reporter := &recordingReporter{}
	sink := &recordingSink{}
	d := newTestDetector(t, &mapProvider{reserves: reserves}, &fixedGasOracle{price: thirtyGwei()}, pools, reporter, sink)

	d.runRound(context.Background())

	decisions, rounds := reporter.snapshot()
	if len(rounds) != 1 {
		t.Fatalf("expected 1 round summary, got %d", len(rounds))
	}
	stats := rounds[0]
	if stats.Generation != 1 {
		t.Errorf("generation = %d, want 1", stats.Generation)
	}
	if stats.PoolsOK != 3 || stats.PoolsTotal != 3 {
		t.Errorf("coverage = %d/%d, want 3/3", stats.PoolsOK, stats.PoolsTotal)
	}
	if stats.Candidates != 1 {
		t.Errorf("candidates = %d, want 1", stats.Candidates)
	}
	if stats.GasPriceGwei != "30" {
		t.Errorf("gas price = %s gwei, want 30", stats.GasPriceGwei)
	}
	if !stats.SignalStale {
		t.Error("no feeds configured, stats should carry the conservative stale signal")
	}

	// only the profitable direction around the triangle reaches the
	// policy; the conservative low-confidence signal halves its size
	if stats.Executed != 0 || stats.Reduced != 1 || stats.Skipped != 0 {
		t.Errorf("executed/reduced/skipped = %d/%d/%d, want 0/1/0",
			stats.Executed, stats.Reduced, stats.Skipped)
	}

	if len(decisions) != 1 {
		t.Fatalf("expected 1 reported decision, got %d", len(decisions))
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.executed) != 1 {
		t.Fatalf("expected 1 executed decision, got %d", len(sink.executed))
	}
	got := sink.executed[0]
	if got.Opportunity.Path.String() != "WCORE>ICE>SCORE>WCORE" {
		t.Errorf("executed path = %s, want WCORE>ICE>SCORE>WCORE", got.Opportunity.Path.String())
	}
	if got.SizeFactor.String() != "0.5" {
		t.Errorf("size factor = %s, want 0.5", got.SizeFactor.String())
	}
	if got.Opportunity.NetRatio.String() != "0.036228" {
		t.Errorf("net ratio = %s, want 0.036228", got.Opportunity.NetRatio.String())
	}
}

func TestDetector_ReportsRankedByNet(t *testing.T) {
	// the triangle plus a cross-venue spread yields several profitable
	// cycles; decisions must come out best net first
	pools := append(append([]testPool{}, triangle...),
		testPool{"WCORE-ICE", "archerswap", "WCORE", "ICE", "9500", "11000"})
	snap := buildSnapshot(t, 0, pools)

	poolList := make([]marketDomain.Pool, 0, len(snap.States))
	reserves := make(map[string]marketDomain.Reserves, len(snap.States))
	for _, st := range snap.States {
		poolList = append(poolList, st.Pool)
		reserves[st.Pool.Key()] = st.Reserves
	}

	reporter := &recordingReporter{}
	d := newTestDetector(t, &mapProvider{reserves: reserves}, &fixedGasOracle{price: thirtyGwei()}, poolList, reporter, &recordingSink{})

	d.runRound(context.Background())

	decisions, _ := reporter.snapshot()
	if len(decisions) < 2 {
		t.Fatalf("expected at least 2 decisions, got %d", len(decisions))
	}
	if decisions[0].Opportunity.NetRatio.String() != "0.036228" {
		t.Errorf("top net = %s, want the triangle at 0.036228",
			decisions[0].Opportunity.NetRatio.String())
	}
	for i := 1; i < len(decisions); i++ {
		if decisions[i].Opportunity.NetRatio.GreaterThan(decisions[i-1].Opportunity.NetRatio) {
			t.Errorf("decision %d net %s outranks %s before it", i,
				decisions[i].Opportunity.NetRatio.String(),
				decisions[i-1].Opportunity.NetRatio.String())
		}
	}
}

func TestDetector_PartialPoolFailure(t *testing.T) {
	pools, reserves := trianglePools(t)
	provider := &mapProvider{
		reserves: reserves,
		fail:     map[string]error{"icecreamswap/ICE-SCORE": errors.New("rpc timeout")},
	}
	reporter := &recordingReporter{}
	d := newTestDetector(t, provider, &fixedGasOracle{price: thirtyGwei()}, pools, reporter, &recordingSink{})

	d.runRound(context.Background())

	_, rounds := reporter.snapshot()
	if len(rounds) != 1 {
		t.Fatalf("round should complete on partial coverage, got %d summaries", len(rounds))
	}
	stats := rounds[0]
	if stats.PoolsOK != 2 || stats.PoolsTotal != 3 {
		t.Errorf("coverage = %d/%d, want 2/3", stats.PoolsOK, stats.PoolsTotal)
	}
	// the broken triangle leaves no closed cycle
	if stats.Candidates != 0 {
		t.Errorf("candidates = %d, want 0", stats.Candidates)
	}
	if len(stats.Excluded) != 1 || stats.Excluded[0].Pool != "icecreamswap/ICE-SCORE" {
		t.Fatalf("excluded = %+v, want the failed ICE-SCORE pool with its reason", stats.Excluded)
	}
	if stats.Excluded[0].Reason == "" {
		t.Error("excluded pool must carry a reason")
	}
}

func TestDetector_AllPoolsFailAbortsRound(t *testing.T) {
	pools, _ := trianglePools(t)
	provider := &mapProvider{fail: map[string]error{
		"icecreamswap/WCORE-ICE":   errors.New("down"),
		"icecreamswap/ICE-SCORE":   errors.New("down"),
		"icecreamswap/SCORE-WCORE": errors.New("down"),
	}}
	reporter := &recordingReporter{}
	d := newTestDetector(t, provider, &fixedGasOracle{price: thirtyGwei()}, pools, reporter, &recordingSink{})

	d.runRound(context.Background())

	decisions, rounds := reporter.snapshot()
	if len(rounds) != 0 || len(decisions) != 0 {
		t.Errorf("aborted round must not report, got %d rounds %d decisions", len(rounds), len(decisions))
	}
}

func TestDetector_GasOracleFailureUsesZeroPrice(t *testing.T) {
	pools, reserves := trianglePools(t)
	reporter := &recordingReporter{}
	gas := &fixedGasOracle{err: errors.New("oracle down")}
	d := newTestDetector(t, &mapProvider{reserves: reserves}, gas, pools, reporter, &recordingSink{})

	d.runRound(context.Background())

	_, rounds := reporter.snapshot()
	if len(rounds) != 1 {
		t.Fatalf("round should complete without a gas price, got %d summaries", len(rounds))
	}
	stats := rounds[0]
	if stats.GasPriceGwei != "0" {
		t.Errorf("gas price = %s gwei, want 0", stats.GasPriceGwei)
	}
	if stats.Reduced != 1 {
		t.Errorf("reduced = %d, want 1", stats.Reduced)
	}
}

func TestDetector_SinkFailureDoesNotAbortRound(t *testing.T) {
	pools, reserves := trianglePools(t)
	reporter := &recordingReporter{}
	sink := &recordingSink{err: errors.New("execution rejected")}
	d := newTestDetector(t, &mapProvider{reserves: reserves}, &fixedGasOracle{price: thirtyGwei()}, pools, reporter, sink)

	d.runRound(context.Background())

	_, rounds := reporter.snapshot()
	if len(rounds) != 1 {
		t.Fatalf("sink failure must not abort the round, got %d summaries", len(rounds))
	}
}

func TestDetector_SkipsOverlappingTick(t *testing.T) {
	pools, reserves := trianglePools(t)
	reporter := &recordingReporter{}
	d := newTestDetector(t, &mapProvider{reserves: reserves}, &fixedGasOracle{price: thirtyGwei()}, pools, reporter, &recordingSink{})

	d.inFlight.Store(true)
	d.tick(context.Background())

	_, rounds := reporter.snapshot()
	if len(rounds) != 0 {
		t.Errorf("tick during an in-flight round must be skipped, got %d summaries", len(rounds))
	}
}

func TestDetector_StartStop(t *testing.T) {
	pools, reserves := trianglePools(t)
	reporter := &recordingReporter{}
	d := newTestDetector(t, &mapProvider{reserves: reserves}, &fixedGasOracle{price: thirtyGwei()}, pools, reporter, &recordingSink{})

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// the first round runs immediately
	deadline := time.Now().Add(2 * time.Second)
	for d.LastStats().Generation == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for first round")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	if !reporter.started || !reporter.stopped {
		t.Errorf("reporter started=%v stopped=%v, want both true", reporter.started, reporter.stopped)
	}
	if d.Phase() != PhaseIdle {
		t.Errorf("phase after stop = %s, want %s", d.Phase(), PhaseIdle)
	}
}
