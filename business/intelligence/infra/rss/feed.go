// Package rss implements the SentimentFeed port over public news RSS feeds.
package rss

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/shogunprotocol/shogun-core-ai/business/intelligence/app"
	"github.com/shogunprotocol/shogun-core-ai/business/intelligence/domain"
	"github.com/shogunprotocol/shogun-core-ai/internal/apperror"
	"github.com/shogunprotocol/shogun-core-ai/internal/httpclient"
	"github.com/shogunprotocol/shogun-core-ai/internal/logger"
	"github.com/shogunprotocol/shogun-core-ai/internal/ratelimit"
)

// Ensure Feed implements SentimentFeed.
var _ app.SentimentFeed = (*Feed)(nil)

// maxItemsPerFeed caps how many headlines each feed contributes.
const maxItemsPerFeed = 20

type rssDocument struct {
	Channel struct {
		Items []struct {
			Title string `xml:"title"`
		} `xml:"item"`
	} `xml:"channel"`
}

// FeedConfig holds RSS feed configuration.
type FeedConfig struct {
	URLs          []string
	RatePerMinute int
}

// Feed fetches headlines from configured RSS feeds and scores them by
// keyword into a sentiment value. Requests are rate limited per feed host
// policy; a feed that fails is skipped rather than failing the batch.
type Feed struct {
	config  FeedConfig
	client  httpclient.Client
	limiter *ratelimit.Limiter
	logger  logger.LoggerInterface
}

// NewFeed creates a new RSS sentiment feed.
func NewFeed(cfg FeedConfig, client httpclient.Client, log logger.LoggerInterface) *Feed {
	rate := cfg.RatePerMinute
	if rate <= 0 {
		rate = 10
	}
	return &Feed{
		config:  cfg,
		client:  client,
		limiter: ratelimit.New(rate),
		logger:  log,
	}
}

// Name identifies the feed in signal sources.
func (f *Feed) Name() string { return "rss" }

// FetchSentiment retrieves headlines from every configured feed and returns
// the scored sample. Errors only when no feed answered.
func (f *Feed) FetchSentiment(ctx context.Context) (domain.SentimentSample, error) {
	var titles []string
	var fetched int

	for _, url := range f.config.URLs {
		if err := f.limiter.Wait(ctx); err != nil {
			return domain.SentimentSample{}, err
		}

		batch, err := f.fetchTitles(ctx, url)
		if err != nil {
			f.logger.Warn(ctx, "rss feed fetch failed", "url", url, "error", err)
			continue
		}
		titles = append(titles, batch...)
		fetched++
	}

	if fetched == 0 {
		return domain.SentimentSample{}, apperror.New(apperror.CodeFeedFetchFailed,
			apperror.WithContext(fmt.Sprintf("all %d rss feeds failed", len(f.config.URLs))))
	}

	return domain.SentimentSample{
		Score:      ScoreHeadlines(titles),
		Headlines:  len(titles),
		Regulatory: CountRegulatory(titles),
	}, nil
}

func (f *Feed) fetchTitles(ctx context.Context, url string) ([]string, error) {
	resp, err := f.client.NewRequest().Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeFeedFetchFailed,
			apperror.WithContext(fmt.Sprintf("%s: status %d", url, resp.StatusCode)))
	}

	var doc rssDocument
	if err := xml.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}

	titles := make([]string, 0, maxItemsPerFeed)
	for i, item := range doc.Channel.Items {
		if i >= maxItemsPerFeed {
			break
		}
		titles = append(titles, item.Title)
	}
	return titles, nil
}
