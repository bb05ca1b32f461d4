package ports

import (
	"context"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// OrderRequest is a single limit order leg.
type OrderRequest struct {
	Ticker   string
	Side     domain.Side
	Action   domain.TradeAction
	Price    int // cents
	Quantity int
}

// PlacedOrder is the executor's acknowledgment of a submitted leg.
type PlacedOrder struct {
	OrderID  string
	Ticker   string
	Side     domain.Side
	Action   domain.TradeAction
	Price    int
	Quantity int
}

// OrderExecutor places single order legs. The capability is selected once
// at composition time: the engine calls the same interface whether orders
// are simulated or real, with no dry-run branches at call sites.
type OrderExecutor interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (PlacedOrder, error)
}
