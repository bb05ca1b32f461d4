package kalshi

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

const (
	marketsPath    = "/markets"
	marketsPerPage = 200
	maxPages       = 50 // tope defensivo contra cursores que no convergen
)

// FetchMarkets implementa ports.MarketProvider: devuelve todos los
// mercados abiertos, paginando con el cursor del API.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	var markets []domain.Market
	cursor := ""

	for page := 0; page < maxPages; page++ {
		u := fmt.Sprintf("%s%s?status=open&limit=%d", c.baseURL, marketsPath, marketsPerPage)
		if cursor != "" {
			u += "&cursor=" + url.QueryEscape(cursor)
		}

		var resp marketsResponse
		if err := c.get(ctx, c.marketsLimiter, u, &resp); err != nil {
			return nil, fmt.Errorf("kalshi.FetchMarkets: page %d: %w", page, err)
		}

		for _, raw := range resp.Markets {
			m, ok := mapMarket(raw)
			if !ok {
				continue
			}
			markets = append(markets, m)
		}

		if resp.Cursor == "" || len(resp.Markets) == 0 {
			break
		}
		cursor = resp.Cursor
	}

	slog.Debug("kalshi markets fetched", "count", len(markets))
	return markets, nil
}
