package kalshi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// FetchOrderBook implementa ports.BookProvider para un mercado.
func (c *Client) FetchOrderBook(ctx context.Context, ticker string) (*domain.OrderBook, error) {
	u := fmt.Sprintf("%s%s/%s/orderbook", c.baseURL, marketsPath, url.PathEscape(ticker))

	var resp orderBookResponse
	if err := c.get(ctx, c.booksLimiter, u, &resp); err != nil {
		return nil, fmt.Errorf("kalshi.FetchOrderBook: %s: %w", ticker, err)
	}
	return mapOrderBook(resp.OrderBook), nil
}
