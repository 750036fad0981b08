package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/market/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/apperror"
	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
)

type stubProvider struct {
	reserves map[string]domain.Reserves
	errs     map[string]error
	delay    time.Duration
}

func (p *stubProvider) GetReserves(ctx context.Context, pool domain.Pool) (domain.Reserves, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return domain.Reserves{}, ctx.Err()
		}
	}
	if err, ok := p.errs[pool.Name]; ok {
		return domain.Reserves{}, err
	}
	return p.reserves[pool.Name], nil
}

type stubGasOracle struct {
	price domain.GasPrice
	err   error
}

func (o *stubGasOracle) GetGasPrice(ctx context.Context) (domain.GasPrice, error) {
	return o.price, o.err
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func testPools() []domain.Pool {
	reg := asset.DefaultRegistry()
	wcore, _ := reg.GetBySymbolAndChain("WCORE", asset.ChainIDCore)
	ice, _ := reg.GetBySymbolAndChain("ICE", asset.ChainIDCore)
	score, _ := reg.GetBySymbolAndChain("SCORE", asset.ChainIDCore)
	usdt, _ := reg.GetBySymbolAndChain("USDT", asset.ChainIDCore)

	return []domain.Pool{
		domain.NewPool("WCORE-ICE", common.HexToAddress("0x01"), "icecreamswap", wcore, ice),
		domain.NewPool("ICE-SCORE", common.HexToAddress("0x02"), "icecreamswap", ice, score),
		domain.NewPool("SCORE-WCORE", common.HexToAddress("0x03"), "icecreamswap", score, wcore),
		domain.NewPool("WCORE-USDT", common.HexToAddress("0x04"), "icecreamswap", wcore, usdt),
	}
}

func reservesOf(r0, r1 string) domain.Reserves {
	return domain.Reserves{
		Reserve0:  decimal.RequireFromString(r0),
		Reserve1:  decimal.RequireFromString(r1),
		BlockTime: time.Now(),
	}
}

func TestSnapshotService_Take_AllPoolsHealthy(t *testing.T) {
	pools := testPools()
	provider := &stubProvider{
		reserves: map[string]domain.Reserves{
			"WCORE-ICE":   reservesOf("10000", "12000"),
			"ICE-SCORE":   reservesOf("8000", "6400"),
			"SCORE-WCORE": reservesOf("5000", "5250"),
			"WCORE-USDT":  reservesOf("20000", "9400"),
		},
	}

	svc := NewSnapshotService(SnapshotConfig{Pools: pools, FetchTimeout: time.Second}, provider, &stubGasOracle{}, testLogger())

	snap, err := svc.Take(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snap.States) != 4 {
		t.Errorf("expected 4 states, got %d", len(snap.States))
	}
	if len(snap.Failed) != 0 {
		t.Errorf("expected no failures, got %v", snap.Failed)
	}
	if snap.Generation != 1 {
		t.Errorf("expected generation 1, got %d", snap.Generation)
	}
}

func TestSnapshotService_Take_PartialFailure(t *testing.T) {
	pools := testPools()
	provider := &stubProvider{
		reserves: map[string]domain.Reserves{
			"WCORE-ICE":   reservesOf("10000", "12000"),
			"SCORE-WCORE": reservesOf("5000", "5250"),
		},
		errs: map[string]error{
			"ICE-SCORE":  errors.New("rpc: connection refused"),
			"WCORE-USDT": errors.New("rpc: connection refused"),
		},
	}

	svc := NewSnapshotService(SnapshotConfig{Pools: pools, FetchTimeout: time.Second}, provider, &stubGasOracle{}, testLogger())

	snap, err := svc.Take(context.Background())
	if err != nil {
		t.Fatalf("partial failure should not fail the round: %v", err)
	}

	ok, total := snap.Coverage()
	if ok != 2 || total != 4 {
		t.Errorf("expected coverage 2/4, got %d/%d", ok, total)
	}
	if _, found := snap.Failed["icecreamswap/ICE-SCORE"]; !found {
		t.Error("expected icecreamswap/ICE-SCORE in failed set")
	}
}

func TestSnapshotService_Take_SameNameAcrossVenues(t *testing.T) {
	reg := asset.DefaultRegistry()
	wcore, _ := reg.GetBySymbolAndChain("WCORE", asset.ChainIDCore)
	ice, _ := reg.GetBySymbolAndChain("ICE", asset.ChainIDCore)
	score, _ := reg.GetBySymbolAndChain("SCORE", asset.ChainIDCore)

	// the same pair listed on two venues shares a pool name; a failure on
	// each must show up as two distinct entries
	pools := []domain.Pool{
		domain.NewPool("WCORE-ICE", common.HexToAddress("0x01"), "icecreamswap", wcore, ice),
		domain.NewPool("WCORE-ICE", common.HexToAddress("0x02"), "archerswap", wcore, ice),
		domain.NewPool("ICE-SCORE", common.HexToAddress("0x03"), "icecreamswap", ice, score),
	}
	provider := &stubProvider{
		reserves: map[string]domain.Reserves{
			"ICE-SCORE": reservesOf("8000", "6400"),
		},
		errs: map[string]error{
			"WCORE-ICE": errors.New("rpc: connection refused"),
		},
	}

	svc := NewSnapshotService(SnapshotConfig{Pools: pools, FetchTimeout: time.Second}, provider, &stubGasOracle{}, testLogger())

	snap, err := svc.Take(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Failed) != 2 {
		t.Fatalf("expected 2 failed entries, got %d: %v", len(snap.Failed), snap.Failed)
	}
	for _, key := range []string{"icecreamswap/WCORE-ICE", "archerswap/WCORE-ICE"} {
		if _, found := snap.Failed[key]; !found {
			t.Errorf("expected %s in failed set", key)
		}
	}
}

func TestSnapshotService_Take_AllPoolsFail(t *testing.T) {
	pools := testPools()
	provider := &stubProvider{
		errs: map[string]error{
			"WCORE-ICE":   errors.New("down"),
			"ICE-SCORE":   errors.New("down"),
			"SCORE-WCORE": errors.New("down"),
			"WCORE-USDT":  errors.New("down"),
		},
	}

	svc := NewSnapshotService(SnapshotConfig{Pools: pools, FetchTimeout: time.Second}, provider, &stubGasOracle{}, testLogger())

	_, err := svc.Take(context.Background())
	if err == nil {
		t.Fatal("expected error when all pools fail")
	}
	if apperror.GetCode(err) != apperror.CodeAllPoolsFailed {
		t.Errorf("expected CodeAllPoolsFailed, got %v", apperror.GetCode(err))
	}
}

func TestSnapshotService_Take_ZeroReservesExcluded(t *testing.T) {
	pools := testPools()[:1]
	provider := &stubProvider{
		reserves: map[string]domain.Reserves{
			"WCORE-ICE": reservesOf("0", "12000"),
		},
	}

	svc := NewSnapshotService(SnapshotConfig{Pools: pools, FetchTimeout: time.Second}, provider, &stubGasOracle{}, testLogger())

	_, err := svc.Take(context.Background())
	if err == nil {
		t.Fatal("expected error: the only pool has a drained side")
	}
	if apperror.GetCode(err) != apperror.CodeAllPoolsFailed {
		t.Errorf("expected CodeAllPoolsFailed, got %v", apperror.GetCode(err))
	}
}

func TestSnapshotService_Take_Timeout(t *testing.T) {
	pools := testPools()[:1]
	provider := &stubProvider{
		reserves: map[string]domain.Reserves{
			"WCORE-ICE": reservesOf("10000", "12000"),
		},
		delay: 200 * time.Millisecond,
	}

	svc := NewSnapshotService(SnapshotConfig{Pools: pools, FetchTimeout: 20 * time.Millisecond}, provider, &stubGasOracle{}, testLogger())

	_, err := svc.Take(context.Background())
	if err == nil {
		t.Fatal("expected error: the only pool timed out")
	}
}

func TestSnapshotService_GenerationMonotonic(t *testing.T) {
	pools := testPools()[:1]
	provider := &stubProvider{
		reserves: map[string]domain.Reserves{
			"WCORE-ICE": reservesOf("10000", "12000"),
		},
	}

	svc := NewSnapshotService(SnapshotConfig{Pools: pools, FetchTimeout: time.Second}, provider, &stubGasOracle{}, testLogger())

	first, err := svc.Take(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Take(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.Generation != first.Generation+1 {
		t.Errorf("generations must be monotonic: %d then %d", first.Generation, second.Generation)
	}
}
