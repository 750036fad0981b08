package domain

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	marketDomain "github.com/shogunprotocol/shogun-core-ai/business/market/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/asset"
)

var feeFactor = decimal.RequireFromString("0.997")

func coreAssets(t *testing.T) (wcore, ice, score *asset.Asset) {
	t.Helper()
	reg := asset.DefaultRegistry()
	var ok bool
	if wcore, ok = reg.GetBySymbolAndChain("WCORE", asset.ChainIDCore); !ok {
		t.Fatal("WCORE not registered")
	}
	if ice, ok = reg.GetBySymbolAndChain("ICE", asset.ChainIDCore); !ok {
		t.Fatal("ICE not registered")
	}
	if score, ok = reg.GetBySymbolAndChain("SCORE", asset.ChainIDCore); !ok {
		t.Fatal("SCORE not registered")
	}
	return wcore, ice, score
}

func TestEdge_SwapOut(t *testing.T) {
	wcore, ice, _ := coreAssets(t)
	edge := Edge{
		PoolName:   "WCORE-ICE",
		Venue:      "icecreamswap",
		From:       wcore,
		To:         ice,
		ReserveIn:  decimal.NewFromInt(10000),
		ReserveOut: decimal.NewFromInt(12000),
	}

	tests := []struct {
		name     string
		amountIn string
		want     string
	}{
		{"hundred in", "100", "118.4589641276473559"},
		{"one in", "1", "1.1962807308111381"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := edge.SwapOut(decimal.RequireFromString(tt.amountIn), feeFactor)
			if got.String() != tt.want {
				t.Errorf("SwapOut(%s) = %s, want %s", tt.amountIn, got.String(), tt.want)
			}
		})
	}
}

func TestEdge_SwapOut_BelowSpotRate(t *testing.T) {
	wcore, ice, _ := coreAssets(t)
	edge := Edge{
		From:       wcore,
		To:         ice,
		ReserveIn:  decimal.NewFromInt(10000),
		ReserveOut: decimal.NewFromInt(12000),
	}

	// any finite trade must do worse than the marginal rate
	in := decimal.NewFromInt(1)
	out := edge.SwapOut(in, feeFactor)
	marginal := in.Mul(edge.SpotRate(feeFactor))
	if !out.LessThan(marginal) {
		t.Errorf("exec output %s should be below marginal %s", out.String(), marginal.String())
	}
}

func TestEdge_SpotRate(t *testing.T) {
	wcore, ice, _ := coreAssets(t)
	edge := Edge{
		From:       wcore,
		To:         ice,
		ReserveIn:  decimal.NewFromInt(10000),
		ReserveOut: decimal.NewFromInt(12000),
	}

	got := edge.SpotRate(feeFactor)
	if got.String() != "1.1964" {
		t.Errorf("SpotRate = %s, want 1.1964", got.String())
	}
}

func snapshotOf(t *testing.T, gen uint64) *marketDomain.Snapshot {
	t.Helper()
	wcore, ice, score := coreAssets(t)

	snap := marketDomain.NewSnapshot(gen)
	pools := []struct {
		name   string
		t0, t1 *asset.Asset
		r0, r1 int64
	}{
		{"WCORE-ICE", wcore, ice, 10000, 12000},
		{"ICE-SCORE", ice, score, 8000, 6400},
		{"SCORE-WCORE", score, wcore, 5000, 5500},
	}
	for i, p := range pools {
		snap.States = append(snap.States, marketDomain.PoolState{
			Pool: marketDomain.NewPool(p.name, common.BytesToAddress([]byte{byte(i + 1)}), "icecreamswap", p.t0, p.t1),
			Reserves: marketDomain.Reserves{
				Reserve0:  decimal.NewFromInt(p.r0),
				Reserve1:  decimal.NewFromInt(p.r1),
				BlockTime: time.Now(),
			},
		})
	}
	return snap
}

func TestBuildGraph(t *testing.T) {
	wcore, ice, _ := coreAssets(t)
	graph := BuildGraph(snapshotOf(t, 7))

	if graph.Generation != 7 {
		t.Errorf("expected generation 7, got %d", graph.Generation)
	}
	// 3 pools, 2 directed edges each
	if graph.EdgeCount() != 6 {
		t.Errorf("expected 6 edges, got %d", graph.EdgeCount())
	}

	// WCORE has two outgoing edges: into ICE and into SCORE's pool
	edges := graph.From(wcore)
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges from WCORE, got %d", len(edges))
	}
	// deterministic order by pool name: ICE pool before SCORE pool
	if edges[0].PoolName != "SCORE-WCORE" && edges[0].PoolName != "WCORE-ICE" {
		t.Errorf("unexpected pool %s", edges[0].PoolName)
	}
	if edges[0].PoolName > edges[1].PoolName {
		t.Errorf("edges not sorted: %s before %s", edges[0].PoolName, edges[1].PoolName)
	}

	iceEdges := graph.From(ice)
	if len(iceEdges) != 2 {
		t.Errorf("expected 2 edges from ICE, got %d", len(iceEdges))
	}
}

func TestBuildGraph_SkipsDrainedPools(t *testing.T) {
	snap := snapshotOf(t, 1)
	snap.States[1].Reserves.Reserve0 = decimal.Zero

	graph := BuildGraph(snap)
	if graph.EdgeCount() != 4 {
		t.Errorf("drained pool must contribute no edges, got %d edges", graph.EdgeCount())
	}
}

func TestPath_StringAndFingerprint(t *testing.T) {
	wcore, ice, score := coreAssets(t)
	graph := BuildGraph(snapshotOf(t, 3))

	var path Path
	for _, want := range []struct {
		from *asset.Asset
		pool string
	}{
		{wcore, "WCORE-ICE"},
		{ice, "ICE-SCORE"},
		{score, "SCORE-WCORE"},
	} {
		for _, e := range graph.From(want.from) {
			if e.PoolName == want.pool {
				path = append(path, e)
				break
			}
		}
	}
	if len(path) != 3 {
		t.Fatalf("failed to assemble path, got %d hops", len(path))
	}

	if path.String() != "WCORE>ICE>SCORE>WCORE" {
		t.Errorf("path string = %s", path.String())
	}

	fp := NewFingerprint(3, path)
	want := "g3:icecreamswap/WCORE-ICE:WCORE>icecreamswap/ICE-SCORE:ICE>icecreamswap/SCORE-WCORE:SCORE"
	if fp != want {
		t.Errorf("fingerprint = %s, want %s", fp, want)
	}
}

func TestGrossRatioOf(t *testing.T) {
	tests := []struct {
		name     string
		execOut  string
		notional string
		want     string
	}{
		{"profit", "10.4194950692200131", "10", "0.04195"},
		{"loss", "9.9458816569827398", "10", "-0.005412"},
		{"flat", "10", "10", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GrossRatioOf(decimal.RequireFromString(tt.execOut), decimal.RequireFromString(tt.notional))
			if got.String() != tt.want {
				t.Errorf("GrossRatioOf = %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func TestNewCostBreakdown(t *testing.T) {
	// 450000 units at 30 gwei = 0.0135 CORE over a 10 WCORE notional
	costs := NewCostBreakdown(
		450000,
		decimal.New(30, 9),
		decimal.NewFromInt(10),
		decimal.RequireFromString("10.4194950692200131"),
		decimal.RequireFromString("10.46524483488"),
	)

	if costs.GasCORE().String() != "0.0135" {
		t.Errorf("GasCORE = %s, want 0.0135", costs.GasCORE().String())
	}
	if costs.GasRatio.String() != "0.00135" {
		t.Errorf("GasRatio = %s, want 0.00135", costs.GasRatio.String())
	}
	if costs.ImpactRatio.String() != "0.004372" {
		t.Errorf("ImpactRatio = %s, want 0.004372", costs.ImpactRatio.String())
	}

	net := NetRatioOf(decimal.RequireFromString("0.04195"), costs)
	if net.String() != "0.036228" {
		t.Errorf("net = %s, want 0.036228", net.String())
	}
}
