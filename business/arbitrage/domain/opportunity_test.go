package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRankByNet(t *testing.T) {
	wcore, ice, _ := coreAssets(t)
	edge := func(venue, pool string) Edge {
		return Edge{PoolName: pool, Venue: venue, From: wcore, To: ice}
	}
	ranked := func(net string, path Path) *Opportunity {
		return &Opportunity{Path: path, NetRatio: decimal.RequireFromString(net)}
	}

	twoHop := Path{edge("icecreamswap", "WCORE-ICE"), edge("archerswap", "WCORE-ICE")}
	threeHop := Path{edge("icecreamswap", "WCORE-ICE"), edge("icecreamswap", "ICE-SCORE"), edge("icecreamswap", "SCORE-WCORE")}

	t.Run("net descending", func(t *testing.T) {
		opps := []*Opportunity{
			ranked("0.01", twoHop),
			ranked("0.036", threeHop),
			ranked("-0.002", twoHop),
			ranked("0.025", twoHop),
		}
		RankByNet(opps)

		want := []string{"0.036", "0.025", "0.01", "-0.002"}
		for i, w := range want {
			if opps[i].NetRatio.String() != w {
				t.Errorf("rank[%d] net = %s, want %s", i, opps[i].NetRatio.String(), w)
			}
		}
	})

	t.Run("equal nets prefer fewer hops", func(t *testing.T) {
		opps := []*Opportunity{
			ranked("0.01", threeHop),
			ranked("0.01", twoHop),
		}
		RankByNet(opps)

		if opps[0].Path.Hops() != 2 {
			t.Errorf("rank[0] hops = %d, want the two-hop candidate first", opps[0].Path.Hops())
		}
	})

	t.Run("equal nets and hops fall back to route", func(t *testing.T) {
		alt := Path{edge("archerswap", "WCORE-ICE"), edge("icecreamswap", "WCORE-ICE")}
		opps := []*Opportunity{
			ranked("0.01", twoHop),
			ranked("0.01", alt),
		}
		RankByNet(opps)

		if opps[0].Path.PoolRoute() >= opps[1].Path.PoolRoute() {
			t.Errorf("ties must order by pool route, got %s before %s",
				opps[0].Path.PoolRoute(), opps[1].Path.PoolRoute())
		}
	})
}
