// Package trading executes the opportunities the scanner finds. Execution
// is intentionally thin: sequencing, pacing and error reporting live here,
// order placement is behind ports.OrderExecutor.
package trading

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

// defaultLegDelay spaces the two legs so the venue sees them as separate
// orders and the buy fill can settle before the sell goes out.
const defaultLegDelay = 500 * time.Millisecond

// SpreadResult reports what actually happened for one crossed-book trade.
// The two legs are not atomic: Buy may be filled while Sell failed, which
// leaves an un-hedged long reported through Hedged=false.
type SpreadResult struct {
	Ticker   string
	Side     domain.Side
	Buy      ports.PlacedOrder
	Sell     ports.PlacedOrder
	Hedged   bool
	Quantity int
	// ExpectedNet is the scanner's net profit estimate, realized only
	// when both legs filled.
	ExpectedNet float64
}

// SpreadExecutor turns crossed-book opportunities into order pairs.
type SpreadExecutor struct {
	exec     ports.OrderExecutor
	legDelay time.Duration
}

// NewSpreadExecutor creates an executor over the given order capability.
func NewSpreadExecutor(exec ports.OrderExecutor) *SpreadExecutor {
	return &SpreadExecutor{exec: exec, legDelay: defaultLegDelay}
}

// Execute places the buy leg at the ask and then the sell leg at the bid.
// If the sell leg fails the buy is already filled: the result comes back
// with Hedged=false alongside the error so the caller can unwind.
func (e *SpreadExecutor) Execute(ctx context.Context, opp domain.TradeOpportunity) (SpreadResult, error) {
	result := SpreadResult{
		Ticker:      opp.Ticker,
		Side:        opp.Side,
		Quantity:    opp.Quantity,
		ExpectedNet: opp.NetProfit,
	}

	buy, err := e.exec.PlaceOrder(ctx, ports.OrderRequest{
		Ticker:   opp.Ticker,
		Side:     opp.Side,
		Action:   domain.ActionBuy,
		Price:    opp.BuyPrice,
		Quantity: opp.Quantity,
	})
	if err != nil {
		return result, fmt.Errorf("trading.Execute: buy leg %s: %w", opp.Ticker, err)
	}
	result.Buy = buy

	if e.legDelay > 0 {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("trading.Execute: %s: %w", opp.Ticker, ctx.Err())
		case <-time.After(e.legDelay):
		}
	}

	sell, err := e.exec.PlaceOrder(ctx, ports.OrderRequest{
		Ticker:   opp.Ticker,
		Side:     opp.Side,
		Action:   domain.ActionSell,
		Price:    opp.SellPrice,
		Quantity: opp.Quantity,
	})
	if err != nil {
		return result, fmt.Errorf("trading.Execute: sell leg %s (buy %s un-hedged): %w",
			opp.Ticker, buy.OrderID, err)
	}
	result.Sell = sell
	result.Hedged = true

	slog.Info("spread executed",
		"ticker", opp.Ticker,
		"side", opp.Side,
		"quantity", opp.Quantity,
		"spread_cents", opp.Spread,
		"expected_net", opp.NetProfit,
	)
	return result, nil
}

// ExecuteBatch runs the opportunities in order, isolating failures: one
// failed trade is reported and the batch continues.
func (e *SpreadExecutor) ExecuteBatch(ctx context.Context, opps []domain.TradeOpportunity) []SpreadResult {
	var results []SpreadResult
	for _, opp := range opps {
		result, err := e.Execute(ctx, opp)
		if err != nil {
			slog.Warn("spread execution failed", "ticker", opp.Ticker, "err", err)
			if ctx.Err() != nil {
				return results
			}
		}
		results = append(results, result)
	}
	return results
}
