// Package domain contains the core domain types for the intelligence context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfidenceTier grades how much weight a signal deserves.
type ConfidenceTier string

const (
	ConfidenceLow    ConfidenceTier = "low"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceHigh   ConfidenceTier = "high"
)

// RiskFlag marks an elevated-risk market condition.
type RiskFlag string

const (
	RiskRegulatory     RiskFlag = "regulatory-risk"
	RiskSentimentSpike RiskFlag = "sentiment-spike"
)

var (
	sentimentMin = decimal.NewFromInt(-1)
	sentimentMax = decimal.NewFromInt(1)
)

// SentimentSample is one scored batch of market news: the aggregate
// sentiment plus headline counts feeding risk-flag derivation.
type SentimentSample struct {
	Score      decimal.Decimal
	Headlines  int
	Regulatory int
}

// Signal is the fused market intelligence view consumed by the decision
// policy. Sentiment is clamped to [-1, 1]; zero is neutral.
type Signal struct {
	Sentiment  decimal.Decimal
	Confidence ConfidenceTier
	RiskFlags  []RiskFlag
	Sources    []string
	FetchedAt  time.Time
	Stale      bool
}

// NewSignal creates a signal, clamping sentiment into [-1, 1].
func NewSignal(sentiment decimal.Decimal, confidence ConfidenceTier, flags []RiskFlag, sources []string) Signal {
	return Signal{
		Sentiment:  ClampSentiment(sentiment),
		Confidence: confidence,
		RiskFlags:  flags,
		Sources:    sources,
		FetchedAt:  time.Now(),
	}
}

// Conservative returns the fallback signal used when no feed has answered:
// neutral sentiment, low confidence, no flags.
func Conservative() Signal {
	return Signal{
		Sentiment:  decimal.Zero,
		Confidence: ConfidenceLow,
		FetchedAt:  time.Now(),
		Stale:      true,
	}
}

// ClampSentiment bounds a sentiment score to [-1, 1].
func ClampSentiment(s decimal.Decimal) decimal.Decimal {
	if s.LessThan(sentimentMin) {
		return sentimentMin
	}
	if s.GreaterThan(sentimentMax) {
		return sentimentMax
	}
	return s
}

// HasFlag reports whether the signal carries the given risk flag.
func (s Signal) HasFlag(flag RiskFlag) bool {
	for _, f := range s.RiskFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// IsNegative reports whether sentiment is below neutral.
func (s Signal) IsNegative() bool {
	return s.Sentiment.IsNegative()
}

// Age returns how long ago the signal was fetched.
func (s Signal) Age() time.Duration {
	return time.Since(s.FetchedAt)
}
