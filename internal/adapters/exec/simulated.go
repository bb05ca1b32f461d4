// Package exec provides ports.OrderExecutor implementations. Only the
// simulated executor exists for now; a live venue adapter would slot in
// behind the same interface.
package exec

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/alejandrodnm/edgescan/internal/ports"
)

// Simulated acknowledges every order instantly with a synthetic ID and
// keeps the history in memory. It assumes full fills at the limit price.
type Simulated struct {
	mu     sync.Mutex
	orders []ports.PlacedOrder
}

// NewSimulated creates an empty simulated executor.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// PlaceOrder implements ports.OrderExecutor.
func (s *Simulated) PlaceOrder(ctx context.Context, req ports.OrderRequest) (ports.PlacedOrder, error) {
	if err := ctx.Err(); err != nil {
		return ports.PlacedOrder{}, fmt.Errorf("exec.PlaceOrder: %w", err)
	}
	if req.Price <= 0 || req.Price >= 100 {
		return ports.PlacedOrder{}, fmt.Errorf("exec.PlaceOrder: invalid price %d", req.Price)
	}
	if req.Quantity <= 0 {
		return ports.PlacedOrder{}, fmt.Errorf("exec.PlaceOrder: invalid quantity %d", req.Quantity)
	}

	order := ports.PlacedOrder{
		OrderID:  uuid.NewString(),
		Ticker:   req.Ticker,
		Side:     req.Side,
		Action:   req.Action,
		Price:    req.Price,
		Quantity: req.Quantity,
	}

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()

	slog.Debug("simulated order placed",
		"order_id", order.OrderID,
		"ticker", order.Ticker,
		"side", order.Side,
		"action", order.Action,
	)
	return order, nil
}

// Orders returns a copy of every acknowledged order, in placement order.
func (s *Simulated) Orders() []ports.PlacedOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.PlacedOrder, len(s.orders))
	copy(out, s.orders)
	return out
}
