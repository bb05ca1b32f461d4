package notify_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/edgescan/internal/adapters/notify"
	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() ports.ScanReport {
	return ports.ScanReport{
		Analyses: []domain.OpportunityAnalysis{{
			Ticker: "KXEDGE", Title: "Will the CPI print above 3%?",
			Side: domain.SideYes, FairProbability: 0.5, MarketProbability: 0.4,
			Edge: 0.10, ExpectedValue: 1.25, KellyFraction: 0.1667,
			RecommendedPrice: 40, AvailableQuantity: 500,
		}},
		Arbitrages: []domain.ArbitrageOpportunity{{
			Ticker: "KXPAR", Title: "Will it rain tomorrow?",
			TotalProbability: 1.02, Deviation: 2.0,
			Legs: []domain.ArbitrageLeg{
				{Ticker: "KXPAR", Side: domain.SideYes, Action: domain.ActionSell, Price: 52, Quantity: 50},
				{Ticker: "KXPAR", Side: domain.SideNo, Action: domain.ActionSell, Price: 50, Quantity: 49},
			},
			GrossProfit: 2.0, NetProfit: 1.12, ProfitPerDay: 0.11, Executable: true,
		}},
		Trades: []domain.TradeOpportunity{{
			Ticker: "KXCROSS", Title: "Will the Nasdaq close above 20k?",
			Side: domain.SideYes, BuyPrice: 12, SellPrice: 15,
			Quantity: 100, Spread: 3, GrossProfit: 3.0, NetProfit: 2.46,
		}},
	}
}

func TestConsole_Notify_TableMode(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, n.Notify(context.Background(), sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Will the CPI print above 3%?")
	assert.Contains(t, out, "Will it rain tomorrow?")
	assert.Contains(t, out, "Will the Nasdaq close above 20k?")
	assert.Contains(t, out, "Edge opportunities:")
	assert.Contains(t, out, "Parity arbitrage:")
	assert.Contains(t, out, "Crossed books:")
	assert.Contains(t, out, "S yes@52×50 + S no@50×49")
	assert.Contains(t, out, "1.250")
}

func TestConsole_Notify_CompactMode(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, n.Notify(context.Background(), sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "edge:1 arb:1 cross:1")
	assert.Contains(t, out, "ev1.25")
}

func TestConsole_Notify_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, n.Notify(context.Background(), ports.ScanReport{}))
	assert.Contains(t, buf.String(), "no opportunities found")
}

func TestPrintLedger(t *testing.T) {
	var buf bytes.Buffer
	exitTime := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	notify.PrintLedger(&buf, domain.LedgerSnapshot{
		InitialBalance: 10000,
		Balance:        10014.08,
		TotalTrades:    1,
		WinningTrades:  1,
		TotalPnL:       14.08,
		OpenPositions: []domain.PaperPosition{{
			MarketID: "KXA", MarketTitle: "Will the CPI print above 3%?",
			Side: domain.SideYes, EntryPrice: 40, Quantity: 64,
			CurrentPrice: 48, Status: domain.PositionOpen, TargetPrice: 60,
		}},
		ClosedPositions: []domain.PaperPosition{{
			MarketID: "KXB", MarketTitle: "Will it snow in Denver?",
			Side: domain.SideNo, EntryPrice: 25, Quantity: 40,
			Status: domain.PositionResolved, Resolution: domain.ResolutionWin,
			ExitPrice: 100, ExitTime: &exitTime, PnL: 30,
		}},
	})

	out := buf.String()
	// 10014.08 minus the 25.60 reserved by the open position.
	assert.Contains(t, out, "balance $10014.08 (available $9988.48")
	assert.Contains(t, out, "100% win")
	assert.Contains(t, out, "Will the CPI print above 3%?")
	assert.Contains(t, out, "$+5.12") // (48-40)/100×64 unrealized
	assert.Contains(t, out, "win")
}
