package polymarket

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/intelligence/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
)

func oddsOf(vals ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestGradeOdds(t *testing.T) {
	tests := []struct {
		name string
		odds []decimal.Decimal
		want domain.ConfidenceTier
	}{
		{"extreme high odds", oddsOf("0.95"), domain.ConfidenceHigh},
		{"extreme low odds", oddsOf("0.05"), domain.ConfidenceHigh},
		{"mid-range odds", oddsOf("0.5"), domain.ConfidenceLow},
		{"leaning odds", oddsOf("0.7"), domain.ConfidenceMedium},
		{"one settled market wins", oddsOf("0.5", "0.92"), domain.ConfidenceHigh},
		{"boundary at 0.9", oddsOf("0.9"), domain.ConfidenceHigh},
		{"boundary inside mid band", oddsOf("0.4", "0.6"), domain.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gradeOdds(tt.odds)
			if got != tt.want {
				t.Errorf("gradeOdds = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOutcomeTokenIDs(t *testing.T) {
	tests := []struct {
		name   string
		market gammaMarket
		want   int
	}{
		{"two outcomes", gammaMarket{ClobTokenIDs: `["111","222"]`}, 2},
		{"empty payload", gammaMarket{}, 0},
		{"malformed payload", gammaMarket{ClobTokenIDs: `{"not":"a list"}`}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := outcomeTokenIDs(&tt.market)
			if len(ids) != tt.want {
				t.Errorf("outcomeTokenIDs = %v, want %d ids", ids, tt.want)
			}
		})
	}
}

func TestYesOdds_PrefersLiveStream(t *testing.T) {
	feed := NewFeed(FeedConfig{}, nil, logger.New(io.Discard, logger.LevelError, "test", nil))
	market := &gammaMarket{
		Slug:          "will-core-hit-5-usd",
		OutcomePrices: `["0.40","0.60"]`,
		ClobTokenIDs:  `["111","222"]`,
	}

	// without stream data the HTTP snapshot answers
	yes, err := feed.yesOdds(market)
	if err != nil {
		t.Fatalf("yesOdds: %v", err)
	}
	if yes.String() != "0.4" {
		t.Errorf("snapshot odds = %s, want 0.4", yes.String())
	}

	// a price_change on the first outcome token shadows the snapshot
	feed.handleMessage(context.Background(), []byte(`{"event_type":"price_change","asset_id":"111","price":"0.72"}`))

	yes, err = feed.yesOdds(market)
	if err != nil {
		t.Fatalf("yesOdds: %v", err)
	}
	if yes.String() != "0.72" {
		t.Errorf("live odds = %s, want 0.72", yes.String())
	}
}

func TestHandleMessage_IgnoresOtherEvents(t *testing.T) {
	feed := NewFeed(FeedConfig{}, nil, logger.New(io.Discard, logger.LevelError, "test", nil))

	feed.handleMessage(context.Background(), []byte(`{"event_type":"book","asset_id":"111","price":"0.5"}`))
	feed.handleMessage(context.Background(), []byte(`not json`))
	feed.handleMessage(context.Background(), []byte(`{"event_type":"price_change","asset_id":"111","price":"nope"}`))

	if len(feed.liveOdds) != 0 {
		t.Errorf("live odds = %v, want empty", feed.liveOdds)
	}
}

func TestIsRegulatorySlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"will-the-sec-approve-core-etf", true},
		{"crypto-regulation-passes-2026", true},
		{"will-core-hit-5-usd", false},
		{"exchange-ban-in-eu", true},
	}

	for _, tt := range tests {
		if got := isRegulatorySlug(tt.slug); got != tt.want {
			t.Errorf("isRegulatorySlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}
