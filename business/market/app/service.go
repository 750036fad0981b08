package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shogunprotocol/shogun-core-ai/business/market/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/apperror"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
)

// SnapshotConfig controls snapshot assembly.
type SnapshotConfig struct {
	Pools        []domain.Pool
	FetchTimeout time.Duration
	MaxParallel  int
}

// SnapshotService assembles generation-stamped reserve snapshots by fanning
// out to the reserve provider, one request per pool, with a per-pool timeout.
// A pool that fails or times out is dropped from the snapshot; the round
// only fails when no pool answered.
type SnapshotService struct {
	config   SnapshotConfig
	provider ReserveProvider
	gas      GasOracle
	logger   logger.LoggerInterface

	generation atomic.Uint64
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(cfg SnapshotConfig, provider ReserveProvider, gas GasOracle, log logger.LoggerInterface) *SnapshotService {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 8
	}
	return &SnapshotService{
		config:   cfg,
		provider: provider,
		gas:      gas,
		logger:   log,
	}
}

// Take fetches reserves for all configured pools and returns a new snapshot.
func (s *SnapshotService) Take(ctx context.Context) (*domain.Snapshot, error) {
	gen := s.generation.Add(1)
	snap := domain.NewSnapshot(gen)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxParallel)

	for _, pool := range s.config.Pools {
		pool := pool
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, s.config.FetchTimeout)
			defer cancel()

			reserves, err := s.provider.GetReserves(fetchCtx, pool)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if fetchCtx.Err() == context.DeadlineExceeded {
					err = apperror.Wrap(err, apperror.CodePoolFetchTimeout, pool.Key())
				}
				snap.Failed[pool.Key()] = err
				s.logger.Warn(ctx, "pool fetch failed",
					"pool", pool.Key(),
					"generation", gen,
					"error", err)
				// partial snapshots are fine, keep going
				return nil
			}
			if !reserves.IsUsable() {
				snap.Failed[pool.Key()] = apperror.New(apperror.CodeMalformedReserves,
					apperror.WithContext(pool.Key()))
				s.logger.Warn(ctx, "pool reserves unusable",
					"pool", pool.Key(),
					"generation", gen)
				return nil
			}
			state := domain.PoolState{Pool: pool, Reserves: reserves}
			snap.States = append(snap.States, state)
			s.logger.Debug(ctx, "pool reserves",
				"pool", pool.Key(),
				"mid", state.MidPrice().String(),
				"reserve0", reserves.Reserve0.String(),
				"reserve1", reserves.Reserve1.String())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(snap.States) == 0 {
		return nil, apperror.New(apperror.CodeAllPoolsFailed,
			apperror.WithContext(fmt.Sprintf("generation %d: %d pools requested", gen, len(s.config.Pools))))
	}

	ok, total := snap.Coverage()
	s.logger.Debug(ctx, "snapshot taken",
		"generation", gen,
		"pools_ok", ok,
		"pools_total", total)

	return snap, nil
}

// GasPrice returns the current gas price from the oracle.
func (s *SnapshotService) GasPrice(ctx context.Context) (domain.GasPrice, error) {
	return s.gas.GetGasPrice(ctx)
}

// Generation returns the latest issued snapshot generation.
func (s *SnapshotService) Generation() uint64 {
	return s.generation.Load()
}
