// Package app contains application services and port definitions for the intelligence context.
package app

import (
	"context"

	"github.com/shogunprotocol/shogun-core-ai/business/intelligence/domain"
)

// SentimentFeed scores recent market news into a sentiment sample with a
// score in [-1, 1] and headline counts.
type SentimentFeed interface {
	// FetchSentiment retrieves and scores the latest headlines.
	FetchSentiment(ctx context.Context) (domain.SentimentSample, error)

	// Name identifies the feed in signal sources.
	Name() string
}

// ConfidenceFeed grades prediction-market odds into a confidence tier and
// any elevated-risk flags.
type ConfidenceFeed interface {
	// FetchConfidence retrieves the current tier and risk flags.
	FetchConfidence(ctx context.Context) (domain.ConfidenceTier, []domain.RiskFlag, error)

	// Name identifies the feed in signal sources.
	Name() string
}
