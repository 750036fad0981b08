// Package polymarket implements the ConfidenceFeed port over the Polymarket
// gamma API, with live odds updates from the CLOB websocket stream.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/intelligence/app"
	"github.com/shogunprotocol/shogun-core-ai/business/intelligence/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/apperror"
	"github.com/shogunprotocol/shogun-core-ai/internal/httpclient"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
	"github.com/shogunprotocol/shogun-core-ai/internal/wsconn"
)

// Ensure Feed implements ConfidenceFeed.
var _ app.ConfidenceFeed = (*Feed)(nil)

// FeedConfig holds Polymarket feed configuration.
type FeedConfig struct {
	GammaURL     string
	WebSocketURL string
	MarketSlugs  []string
}

// gammaMarket is the subset of the gamma API market payload we read.
type gammaMarket struct {
	Slug          string `json:"slug"`
	OutcomePrices string `json:"outcomePrices"` // JSON-encoded array of decimal strings
	ClosedFlag    bool   `json:"closed"`
	ClobTokenIDs  string `json:"clobTokenIds"`
}

// Feed grades prediction-market odds into confidence tiers. Extreme odds on
// a watched market mean the crowd has settled, which reads as high
// confidence; mid-range odds mean genuine uncertainty. Markets whose slug
// names a regulatory event raise the regulatory risk flag when odds of the
// adverse outcome run hot.
type Feed struct {
	config FeedConfig
	client httpclient.Client
	ws     *wsconn.Client
	logger logger.LoggerInterface

	mu       sync.RWMutex
	liveOdds map[string]decimal.Decimal // clob token id -> last traded price
}

// NewFeed creates a new Polymarket confidence feed.
func NewFeed(cfg FeedConfig, client httpclient.Client, log logger.LoggerInterface) *Feed {
	return &Feed{
		config:   cfg,
		client:   client,
		logger:   log,
		liveOdds: make(map[string]decimal.Decimal),
	}
}

// Name identifies the feed in signal sources.
func (f *Feed) Name() string { return "polymarket" }

// FetchConfidence queries watched markets and fuses their odds into a tier
// plus risk flags.
func (f *Feed) FetchConfidence(ctx context.Context) (domain.ConfidenceTier, []domain.RiskFlag, error) {
	if len(f.config.MarketSlugs) == 0 {
		return domain.ConfidenceLow, nil, nil
	}

	var odds []decimal.Decimal
	var flags []domain.RiskFlag

	for _, slug := range f.config.MarketSlugs {
		market, err := f.fetchMarket(ctx, slug)
		if err != nil {
			f.logger.Warn(ctx, "polymarket fetch failed", "slug", slug, "error", err)
			continue
		}
		if market.ClosedFlag {
			continue
		}

		yes, err := f.yesOdds(market)
		if err != nil {
			f.logger.Warn(ctx, "polymarket odds unreadable", "slug", slug, "error", err)
			continue
		}
		odds = append(odds, yes)

		if isRegulatorySlug(slug) && yes.GreaterThan(decimal.RequireFromString("0.6")) {
			flags = append(flags, domain.RiskRegulatory)
		}
	}

	if len(odds) == 0 {
		return domain.ConfidenceLow, nil, apperror.New(apperror.CodeFeedFetchFailed,
			apperror.WithContext("no polymarket market answered"))
	}

	return gradeOdds(odds), dedupeFlags(flags), nil
}

func (f *Feed) fetchMarket(ctx context.Context, slug string) (*gammaMarket, error) {
	resp, err := f.client.NewRequest().
		SetQueryParam("slug", slug).
		Get(ctx, f.config.GammaURL+"/markets")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeFeedFetchFailed,
			apperror.WithContext(fmt.Sprintf("gamma status %d for %s", resp.StatusCode, slug)))
	}

	var markets []gammaMarket
	if err := json.Unmarshal(resp.Body(), &markets); err != nil {
		return nil, fmt.Errorf("parse gamma response: %w", err)
	}
	if len(markets) == 0 {
		return nil, apperror.New(apperror.CodeNotFound,
			apperror.WithContext("market "+slug))
	}
	return &markets[0], nil
}

// outcomeTokenIDs decodes the market's CLOB token id list. Empty or
// malformed payloads yield nil.
func outcomeTokenIDs(m *gammaMarket) []string {
	if m.ClobTokenIDs == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(m.ClobTokenIDs), &ids); err != nil {
		return nil
	}
	return ids
}

// yesOdds returns the price of the first outcome, preferring live websocket
// data over the HTTP snapshot.
func (f *Feed) yesOdds(m *gammaMarket) (decimal.Decimal, error) {
	if ids := outcomeTokenIDs(m); len(ids) > 0 {
		f.mu.RLock()
		live, ok := f.liveOdds[ids[0]]
		f.mu.RUnlock()
		if ok {
			return live, nil
		}
	}

	var prices []string
	if err := json.Unmarshal([]byte(m.OutcomePrices), &prices); err != nil {
		return decimal.Zero, fmt.Errorf("parse outcome prices: %w", err)
	}
	if len(prices) == 0 {
		return decimal.Zero, fmt.Errorf("no outcome prices for %s", m.Slug)
	}
	return decimal.NewFromString(prices[0])
}

// gradeOdds maps a batch of yes-odds to a confidence tier. The tier follows
// the most extreme market: a settled crowd anywhere is signal.
func gradeOdds(odds []decimal.Decimal) domain.ConfidenceTier {
	high := decimal.RequireFromString("0.9")
	low := decimal.RequireFromString("0.1")
	midLo := decimal.RequireFromString("0.4")
	midHi := decimal.RequireFromString("0.6")

	tier := domain.ConfidenceLow
	for _, o := range odds {
		switch {
		case o.GreaterThanOrEqual(high) || o.LessThanOrEqual(low):
			return domain.ConfidenceHigh
		case o.LessThan(midLo) || o.GreaterThan(midHi):
			tier = domain.ConfidenceMedium
		}
	}
	return tier
}

func isRegulatorySlug(slug string) bool {
	lower := strings.ToLower(slug)
	return strings.Contains(lower, "regulat") ||
		strings.Contains(lower, "sec-") ||
		strings.Contains(lower, "ban")
}

func dedupeFlags(flags []domain.RiskFlag) []domain.RiskFlag {
	if len(flags) < 2 {
		return flags
	}
	seen := make(map[domain.RiskFlag]struct{}, len(flags))
	out := flags[:0]
	for _, fl := range flags {
		if _, ok := seen[fl]; ok {
			continue
		}
		seen[fl] = struct{}{}
		out = append(out, fl)
	}
	return out
}
