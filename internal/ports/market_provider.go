package ports

import (
	"context"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// MarketProvider entrega snapshots normalizados de mercados. El fetch real
// (HTTP, auth, retries) vive fuera del motor; aquí solo se asume que los
// snapshots llegan bien formados.
type MarketProvider interface {
	// FetchMarkets devuelve los mercados activos a escanear.
	FetchMarkets(ctx context.Context) ([]domain.Market, error)
}

// BookProvider obtiene el orderbook detallado de un mercado concreto.
// Se consulta bajo demanda para refinar cantidades; el provider es quien
// impone sus propios límites de requests.
type BookProvider interface {
	FetchOrderBook(ctx context.Context, ticker string) (*domain.OrderBook, error)
}
