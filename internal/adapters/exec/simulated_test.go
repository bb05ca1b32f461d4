package exec

import (
	"context"
	"testing"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated_PlaceOrder(t *testing.T) {
	s := NewSimulated()

	order, err := s.PlaceOrder(context.Background(), ports.OrderRequest{
		Ticker: "MKT", Side: domain.SideYes, Action: domain.ActionBuy, Price: 40, Quantity: 100,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderID)

	second, err := s.PlaceOrder(context.Background(), ports.OrderRequest{
		Ticker: "MKT", Side: domain.SideYes, Action: domain.ActionSell, Price: 45, Quantity: 100,
	})
	require.NoError(t, err)
	assert.NotEqual(t, order.OrderID, second.OrderID)
	assert.Len(t, s.Orders(), 2)
}

func TestSimulated_RejectsInvalidOrders(t *testing.T) {
	s := NewSimulated()

	_, err := s.PlaceOrder(context.Background(), ports.OrderRequest{Ticker: "MKT", Price: 0, Quantity: 100})
	assert.Error(t, err)
	_, err = s.PlaceOrder(context.Background(), ports.OrderRequest{Ticker: "MKT", Price: 100, Quantity: 100})
	assert.Error(t, err)
	_, err = s.PlaceOrder(context.Background(), ports.OrderRequest{Ticker: "MKT", Price: 40, Quantity: 0})
	assert.Error(t, err)
	assert.Empty(t, s.Orders())
}

func TestSimulated_HonorsCancelledContext(t *testing.T) {
	s := NewSimulated()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.PlaceOrder(ctx, ports.OrderRequest{Ticker: "MKT", Price: 40, Quantity: 100})
	assert.Error(t, err)
}
