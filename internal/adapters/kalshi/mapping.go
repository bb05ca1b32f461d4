package kalshi

import (
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// mapMarket convierte un rawMarket a domain.Market. ok=false para
// mercados no operables (cerrados, sin fecha parseable).
func mapMarket(r rawMarket) (domain.Market, bool) {
	if r.Status != "open" && r.Status != "active" {
		return domain.Market{}, false
	}

	// expiration_time es la fecha de resolución; close_time (fin de
	// trading) es el fallback.
	resolution, err := time.Parse(time.RFC3339, r.ExpirationTime)
	if err != nil {
		resolution, err = time.Parse(time.RFC3339, r.CloseTime)
		if err != nil {
			return domain.Market{}, false
		}
	}

	return domain.Market{
		Ticker:         r.Ticker,
		Platform:       domain.PlatformKalshi,
		Title:          r.Title,
		Category:       r.Category,
		ResolutionDate: resolution.UTC(),
		YesBid:         r.YesBid,
		YesAsk:         r.YesAsk,
		NoBid:          r.NoBid,
		NoAsk:          r.NoAsk,
		Volume:         r.Volume,
		Liquidity:      r.Liquidity,
		URL:            "https://kalshi.com/markets/" + r.Ticker,
		LastUpdated:    time.Now().UTC(),
	}, true
}

// mapOrderBook convierte el book de Kalshi (solo bids por lado) al book
// de cuatro lados del dominio. El ask de un lado es el complemento del
// bid del lado contrario: comprar YES a p equivale a que alguien venda
// NO a 100-p.
func mapOrderBook(r rawOrderBook) *domain.OrderBook {
	book := &domain.OrderBook{}

	for _, lvl := range r.Yes {
		price, qty := lvl[0], lvl[1]
		if price <= 0 || qty <= 0 {
			continue
		}
		book.YesBids = append(book.YesBids, domain.Level{Price: price, Quantity: qty})
		book.NoAsks = append(book.NoAsks, domain.Level{Price: 100 - price, Quantity: qty})
	}
	for _, lvl := range r.No {
		price, qty := lvl[0], lvl[1]
		if price <= 0 || qty <= 0 {
			continue
		}
		book.NoBids = append(book.NoBids, domain.Level{Price: price, Quantity: qty})
		book.YesAsks = append(book.YesAsks, domain.Level{Price: 100 - price, Quantity: qty})
	}
	return book
}
