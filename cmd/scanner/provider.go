package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

// platformClient es lo que cada exchange adapter expone: snapshots más
// orderbooks bajo demanda.
type platformClient interface {
	ports.MarketProvider
	ports.BookProvider
}

// multiProvider combina varios exchanges detrás de un único par de ports.
// FetchMarkets concatena los snapshots de todos; FetchOrderBook enruta por
// ticker al exchange que lo publicó.
type multiProvider struct {
	clients map[domain.Platform]platformClient

	mu     sync.RWMutex
	origin map[string]domain.Platform // ticker → exchange de origen
}

func newMultiProvider() *multiProvider {
	return &multiProvider{
		clients: make(map[domain.Platform]platformClient),
		origin:  make(map[string]domain.Platform),
	}
}

func (mp *multiProvider) add(p domain.Platform, c platformClient) {
	mp.clients[p] = c
}

// FetchMarkets consulta todos los exchanges habilitados. Un exchange caído
// no tumba el batch mientras otro responda; si fallan todos, devuelve el
// último error.
func (mp *multiProvider) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	var out []domain.Market
	var lastErr error

	for platform, client := range mp.clients {
		markets, err := client.FetchMarkets(ctx)
		if err != nil {
			slog.Warn("platform fetch failed", "platform", platform, "err", err)
			lastErr = err
			continue
		}

		mp.mu.Lock()
		for _, m := range markets {
			mp.origin[m.Ticker] = platform
		}
		mp.mu.Unlock()

		out = append(out, markets...)
	}

	if len(out) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all platforms failed: %w", lastErr)
	}
	return out, nil
}

// FetchOrderBook enruta al exchange que publicó el ticker.
func (mp *multiProvider) FetchOrderBook(ctx context.Context, ticker string) (*domain.OrderBook, error) {
	mp.mu.RLock()
	platform, ok := mp.origin[ticker]
	mp.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown ticker %q, fetch markets first", ticker)
	}
	return mp.clients[platform].FetchOrderBook(ctx, ticker)
}
