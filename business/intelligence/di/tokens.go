// Package di contains dependency injection tokens for the intelligence context.
package di

import (
	"github.com/shogunprotocol/shogun-core-ai/business/intelligence/app"
	"github.com/shogunprotocol/shogun-core-ai/internal/di"
)

// Public service tokens - exposed to other modules
var (
	SignalService = di.NewToken[*app.SignalService]("intelligence.SignalService")
)

// Private dependency tokens - internal to intelligence module
var (
	SentimentFeed  = di.NewToken[app.SentimentFeed]("intelligence:sentimentFeed")
	ConfidenceFeed = di.NewToken[app.ConfidenceFeed]("intelligence:confidenceFeed")
)

// Helper functions for type-safe access
func GetSignalService(c di.ServiceRegistry) *app.SignalService {
	return di.GetToken(c, SignalService)
}

func GetSentimentFeed(c di.ServiceRegistry) app.SentimentFeed {
	return di.GetToken(c, SentimentFeed)
}

func GetConfidenceFeed(c di.ServiceRegistry) app.ConfidenceFeed {
	return di.GetToken(c, ConfidenceFeed)
}
