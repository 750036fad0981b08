package polymarket

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/internal/apperror"
	"github.com/shogunprotocol/shogun-core-ai/internal/wsconn"
)

// clobSubscribe is the CLOB market channel subscription request.
type clobSubscribe struct {
	Type      string   `json:"type"`
	AssetsIDs []string `json:"assets_ids"`
}

// clobPriceChange is a price_change event on the market channel.
type clobPriceChange struct {
	EventType string `json:"event_type"`
	AssetID   string `json:"asset_id"`
	Price     string `json:"price"`
}

// StartLiveOdds resolves the watched markets' outcome token IDs over the
// gamma API and opens the CLOB stream for them.
func (f *Feed) StartLiveOdds(ctx context.Context) error {
	var tokenIDs []string
	for _, slug := range f.config.MarketSlugs {
		market, err := f.fetchMarket(ctx, slug)
		if err != nil {
			f.logger.Warn(ctx, "polymarket market unresolved", "slug", slug, "error", err)
			continue
		}
		tokenIDs = append(tokenIDs, outcomeTokenIDs(market)...)
	}
	if len(tokenIDs) == 0 {
		return apperror.New(apperror.CodeFeedFetchFailed,
			apperror.WithContext("no clob token ids resolved"))
	}
	return f.StartStream(ctx, tokenIDs)
}

// StartStream connects to the CLOB websocket and keeps live odds for the
// given token IDs. Returns immediately; updates arrive in the background
// until ctx is done. Live odds shadow the HTTP snapshot in yesOdds.
func (f *Feed) StartStream(ctx context.Context, tokenIDs []string) error {
	if f.config.WebSocketURL == "" || len(tokenIDs) == 0 {
		return nil
	}

	ws, err := wsconn.New(wsconn.DefaultConfig(f.config.WebSocketURL, "polymarket-clob"))
	if err != nil {
		return err
	}

	ws.OnMessage(func(ctx context.Context, msg []byte) {
		f.handleMessage(ctx, msg)
	})
	ws.OnStateChange(func(state wsconn.State, err error) {
		if err != nil {
			f.logger.Warn(context.Background(), "clob stream state change",
				"state", string(state), "error", err)
		}
	})

	if err := ws.Connect(ctx); err != nil {
		return err
	}

	sub := clobSubscribe{Type: "market", AssetsIDs: tokenIDs}
	if err := ws.SendJSON(ctx, sub); err != nil {
		ws.Close()
		return err
	}

	f.ws = ws

	go func() {
		<-ctx.Done()
		ws.Close()
	}()

	f.logger.Info(ctx, "clob stream started", "assets", len(tokenIDs))
	return nil
}

func (f *Feed) handleMessage(ctx context.Context, msg []byte) {
	var event clobPriceChange
	if err := json.Unmarshal(msg, &event); err != nil {
		return
	}
	if event.EventType != "price_change" || event.AssetID == "" {
		return
	}
	price, err := decimal.NewFromString(event.Price)
	if err != nil {
		return
	}

	f.mu.Lock()
	f.liveOdds[event.AssetID] = price
	f.mu.Unlock()
}
