package trading

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

// ArbResult reports the placed legs of one parity trade. Legs fill
// independently; Placed carries whatever was acknowledged before a failure.
type ArbResult struct {
	Ticker string
	Placed []ports.PlacedOrder
}

// ArbExecutor places the balanced leg set of a parity deviation.
type ArbExecutor struct {
	exec ports.OrderExecutor
}

// NewArbExecutor creates an executor over the given order capability.
func NewArbExecutor(exec ports.OrderExecutor) *ArbExecutor {
	return &ArbExecutor{exec: exec}
}

// Execute submits every leg of the opportunity. Mid-price opportunities
// are informational only and rejected here.
func (e *ArbExecutor) Execute(ctx context.Context, opp domain.ArbitrageOpportunity) (ArbResult, error) {
	result := ArbResult{Ticker: opp.Ticker}

	if !opp.Executable {
		return result, fmt.Errorf("trading.Execute: %s: mid-price opportunity is not executable", opp.Ticker)
	}

	for _, leg := range opp.Legs {
		placed, err := e.exec.PlaceOrder(ctx, ports.OrderRequest{
			Ticker:   leg.Ticker,
			Side:     leg.Side,
			Action:   leg.Action,
			Price:    leg.Price,
			Quantity: leg.Quantity,
		})
		if err != nil {
			return result, fmt.Errorf("trading.Execute: %s leg %s/%s (%d legs placed): %w",
				opp.Ticker, leg.Side, leg.Action, len(result.Placed), err)
		}
		result.Placed = append(result.Placed, placed)
	}

	slog.Info("arbitrage executed",
		"ticker", opp.Ticker,
		"legs", len(result.Placed),
		"deviation_pp", opp.Deviation,
		"expected_net", opp.NetProfit,
	)
	return result, nil
}
