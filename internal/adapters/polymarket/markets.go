package polymarket

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

const (
	gammaPageSize = 100
	maxGammaPages = 100
)

// FetchMarkets descarga los mercados binarios activos desde la Gamma API,
// paginando por offset hasta agotar resultados. Además de devolver los
// snapshots, memoriza los token IDs del CLOB de cada mercado para que
// FetchOrderBook pueda resolverlos después.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	var out []domain.Market
	for page := 0; page < maxGammaPages; page++ {
		url := fmt.Sprintf("%s/markets?active=true&closed=false&limit=%d&offset=%d",
			c.gammaBase, gammaPageSize, page*gammaPageSize)

		var raw []gammaMarket
		if err := c.get(ctx, c.gammaLimiter, url, &raw); err != nil {
			return nil, fmt.Errorf("polymarket.FetchMarkets: page %d: %w", page, err)
		}
		if len(raw) == 0 {
			break
		}

		for _, gm := range raw {
			m, pair, ok := mapGammaMarket(gm)
			if !ok {
				continue
			}
			c.rememberTokens(m.Ticker, pair)
			out = append(out, m)
		}

		if len(raw) < gammaPageSize {
			break
		}
	}

	slog.Debug("polymarket markets fetched", "count", len(out))
	return out, nil
}
