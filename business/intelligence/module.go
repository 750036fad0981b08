// Package intelligence implements the intelligence bounded context: market
// sentiment and prediction-market confidence feeds fused into one signal.
package intelligence

import (
	"context"

	"github.com/shogunprotocol/shogun-core-ai/business/intelligence/app"
	intelDI "github.com/shogunprotocol/shogun-core-ai/business/intelligence/di"
	"github.com/shogunprotocol/shogun-core-ai/business/intelligence/infra/polymarket"
	"github.com/shogunprotocol/shogun-core-ai/business/intelligence/infra/rss"
	"github.com/shogunprotocol/shogun-core-ai/internal/config"
	"github.com/shogunprotocol/shogun-core-ai/internal/di"
	"github.com/shogunprotocol/shogun-core-ai/internal/httpclient"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
	"github.com/shogunprotocol/shogun-core-ai/internal/monolith"
)

// Module implements the intelligence bounded context.
type Module struct{}

// RegisterServices registers all intelligence services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register SentimentFeed (private - internal dependency)
	di.RegisterToken(c, intelDI.SentimentFeed, func(sr di.ServiceRegistry) app.SentimentFeed {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := httpclient.NewInstrumentedClient(
			httpclient.WithProviderName("rss"),
			httpclient.WithRequestTimeout(cfg.Intelligence.FetchTimeout),
		)
		if err != nil {
			panic("failed to create rss http client: " + err.Error())
		}

		return rss.NewFeed(rss.FeedConfig{
			URLs:          cfg.Intelligence.RSSFeeds,
			RatePerMinute: cfg.Intelligence.RSSRatePerMinute,
		}, client, log)
	})

	// Register ConfidenceFeed (private - internal dependency)
	di.RegisterToken(c, intelDI.ConfidenceFeed, func(sr di.ServiceRegistry) app.ConfidenceFeed {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := httpclient.NewInstrumentedClient(
			httpclient.WithProviderName("polymarket"),
			httpclient.WithRequestTimeout(cfg.Intelligence.FetchTimeout),
		)
		if err != nil {
			panic("failed to create polymarket http client: " + err.Error())
		}

		return polymarket.NewFeed(polymarket.FeedConfig{
			GammaURL:     cfg.Intelligence.GammaURL,
			WebSocketURL: cfg.Intelligence.CLOBWebSocketURL,
			MarketSlugs:  cfg.Intelligence.MarketSlugs,
		}, client, log)
	})

	// Register SignalService (public - exposed to other modules)
	di.RegisterToken(c, intelDI.SignalService, func(sr di.ServiceRegistry) *app.SignalService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		svcCfg := app.SignalConfig{
			RefreshInterval: cfg.Intelligence.RefreshInterval,
			StalenessBound:  cfg.Intelligence.StalenessBound,
		}

		var sentiment app.SentimentFeed
		var confidence app.ConfidenceFeed
		if cfg.Intelligence.Enabled {
			sentiment = intelDI.GetSentimentFeed(sr)
			confidence = intelDI.GetConfidenceFeed(sr)
		}

		return app.NewSignalService(svcCfg, sentiment, confidence, log)
	})

	return nil
}

// Startup launches the background signal refresh loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	svc := intelDI.GetSignalService(mono.Services())

	if cfg.Intelligence.Enabled {
		go svc.Run(ctx)

		if cfg.Intelligence.CLOBWebSocketURL != "" {
			if feed, ok := intelDI.GetConfidenceFeed(mono.Services()).(*polymarket.Feed); ok {
				go func() {
					if err := feed.StartLiveOdds(ctx); err != nil {
						log.Warn(ctx, "clob live odds unavailable, serving http snapshots", "error", err)
					}
				}()
			}
		}

		log.Info(ctx, "intelligence module started",
			"rss_feeds", len(cfg.Intelligence.RSSFeeds),
			"markets", len(cfg.Intelligence.MarketSlugs))
	} else {
		log.Info(ctx, "intelligence module disabled, serving conservative signal")
	}

	return nil
}
