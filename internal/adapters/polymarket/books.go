package polymarket

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// FetchOrderBook descarga los libros del CLOB de los dos tokens del
// mercado y los combina en un OrderBook de cuatro lados. Requiere que
// FetchMarkets haya corrido antes para conocer los token IDs.
func (c *Client) FetchOrderBook(ctx context.Context, ticker string) (*domain.OrderBook, error) {
	pair, ok := c.tokensFor(ticker)
	if !ok {
		return nil, fmt.Errorf("polymarket.FetchOrderBook: unknown market %q, fetch markets first", ticker)
	}

	yesBook, err := c.fetchTokenBook(ctx, pair.yes)
	if err != nil {
		return nil, fmt.Errorf("polymarket.FetchOrderBook: yes book for %s: %w", ticker, err)
	}
	noBook, err := c.fetchTokenBook(ctx, pair.no)
	if err != nil {
		return nil, fmt.Errorf("polymarket.FetchOrderBook: no book for %s: %w", ticker, err)
	}

	return &domain.OrderBook{
		YesBids: mapLevels(yesBook.Bids),
		YesAsks: mapLevels(yesBook.Asks),
		NoBids:  mapLevels(noBook.Bids),
		NoAsks:  mapLevels(noBook.Asks),
	}, nil
}

func (c *Client) fetchTokenBook(ctx context.Context, tokenID string) (*bookResponse, error) {
	url := fmt.Sprintf("%s/book?token_id=%s", c.clobBase, tokenID)
	var book bookResponse
	if err := c.get(ctx, c.booksLimiter, url, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// mapLevels convierte niveles del CLOB (strings decimales) a niveles del
// dominio en centavos, descartando los que quedan sin precio o cantidad.
func mapLevels(levels []bookLevel) []domain.Level {
	out := make([]domain.Level, 0, len(levels))
	for _, lvl := range levels {
		price := priceStringToCents(lvl.Price)
		qty := sizeStringToInt(lvl.Size)
		if price <= 0 || qty <= 0 {
			continue
		}
		out = append(out, domain.Level{Price: price, Quantity: qty})
	}
	return out
}
