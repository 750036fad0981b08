package app

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/intelligence/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
)

// SignalConfig controls signal refresh and staleness handling.
type SignalConfig struct {
	RefreshInterval time.Duration
	StalenessBound  time.Duration
}

// sentiment at or below this raises the sentiment-spike flag
var sentimentSpikeThreshold = decimal.RequireFromString("-0.5")

// more regulatory headlines than this in one batch raises the regulatory flag
const regulatoryNewsThreshold = 2

// SignalService fuses sentiment and confidence feeds into one Signal and
// keeps the last good value. A decision round never blocks on a feed: it
// reads the cached value while it is within the staleness bound and falls
// back to the conservative default once it outlives the bound or when
// nothing was ever fetched.
type SignalService struct {
	config     SignalConfig
	sentiment  SentimentFeed
	confidence ConfidenceFeed
	logger     logger.LoggerInterface

	mu   sync.RWMutex
	last *domain.Signal
}

// NewSignalService creates a new SignalService.
func NewSignalService(cfg SignalConfig, sentiment SentimentFeed, confidence ConfidenceFeed, log logger.LoggerInterface) *SignalService {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = time.Minute
	}
	if cfg.StalenessBound <= 0 {
		cfg.StalenessBound = 10 * time.Minute
	}
	return &SignalService{
		config:     cfg,
		sentiment:  sentiment,
		confidence: confidence,
		logger:     log,
	}
}

// Run refreshes the signal on a fixed interval until ctx is done.
func (s *SignalService) Run(ctx context.Context) {
	// prime once so the first scan rounds have something to read
	s.Refresh(ctx)

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh queries both feeds and stores the fused signal. A feed failure
// degrades that component instead of discarding the whole refresh.
func (s *SignalService) Refresh(ctx context.Context) {
	sources := make([]string, 0, 2)

	sentiment := decimal.Zero
	regulatoryNews := 0
	if s.sentiment != nil {
		sample, err := s.sentiment.FetchSentiment(ctx)
		if err != nil {
			s.logger.Warn(ctx, "sentiment feed failed", "feed", s.sentiment.Name(), "error", err)
		} else {
			sentiment = sample.Score
			regulatoryNews = sample.Regulatory
			sources = append(sources, s.sentiment.Name())
		}
	}

	tier := domain.ConfidenceLow
	var flags []domain.RiskFlag
	if s.confidence != nil {
		t, f, err := s.confidence.FetchConfidence(ctx)
		if err != nil {
			s.logger.Warn(ctx, "confidence feed failed", "feed", s.confidence.Name(), "error", err)
		} else {
			tier = t
			flags = f
			sources = append(sources, s.confidence.Name())
		}
	}

	if len(sources) == 0 {
		// both feeds down; keep whatever we had
		s.logger.Warn(ctx, "signal refresh produced nothing, keeping last value")
		return
	}

	signal := domain.NewSignal(sentiment, tier, flags, sources)
	if signal.Sentiment.LessThanOrEqual(sentimentSpikeThreshold) && !signal.HasFlag(domain.RiskSentimentSpike) {
		signal.RiskFlags = append(signal.RiskFlags, domain.RiskSentimentSpike)
	}
	if regulatoryNews > regulatoryNewsThreshold && !signal.HasFlag(domain.RiskRegulatory) {
		signal.RiskFlags = append(signal.RiskFlags, domain.RiskRegulatory)
	}

	s.mu.Lock()
	s.last = &signal
	s.mu.Unlock()

	s.logger.Debug(ctx, "signal refreshed",
		"sentiment", signal.Sentiment.String(),
		"confidence", string(signal.Confidence),
		"flags", len(signal.RiskFlags))
}

// Current returns the freshest available signal. Never errors: a signal
// past the staleness bound degrades to the conservative default, keeping
// only its risk flags, and a missing signal is conservative outright.
func (s *SignalService) Current(ctx context.Context) domain.Signal {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		return domain.Conservative()
	}
	if last.Age() > s.config.StalenessBound {
		fallback := domain.Conservative()
		fallback.RiskFlags = last.RiskFlags
		return fallback
	}
	return *last
}
