package notify

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// PrintLedger writes the paper account report: balance line, open
// positions table and settled history summary.
func PrintLedger(w io.Writer, snap domain.LedgerSnapshot) {
	realized := snap.TotalPnL
	roi := 0.0
	if snap.InitialBalance > 0 {
		roi = realized / snap.InitialBalance * 100
	}
	winRate := 0.0
	if snap.TotalTrades > 0 {
		winRate = float64(snap.WinningTrades) / float64(snap.TotalTrades) * 100
	}
	available := snap.Balance
	for _, pos := range snap.OpenPositions {
		available -= pos.Cost()
	}

	fmt.Fprintf(w, "\nPaper account — balance $%.2f (available $%.2f, started $%.2f) | realized $%+.2f (%.1f%% ROI) | %d settled, %.0f%% win\n",
		snap.Balance, available, snap.InitialBalance, realized, roi, snap.TotalTrades, winRate)

	if len(snap.OpenPositions) > 0 {
		fmt.Fprintln(w, "\nOpen positions:")
		table := tablewriter.NewWriter(w)
		table.Header("Market", "Side", "Entry", "Mark", "Qty", "Cost", "Unrealized", "Target")

		for _, pos := range snap.OpenPositions {
			mark := "-"
			if pos.CurrentPrice > 0 {
				mark = fmt.Sprintf("%d¢", pos.CurrentPrice)
			}
			table.Append(
				domain.TruncateTitle(pos.MarketTitle, pos.MarketID, 40),
				string(pos.Side),
				fmt.Sprintf("%d¢", pos.EntryPrice),
				mark,
				fmt.Sprintf("%d", pos.Quantity),
				fmt.Sprintf("$%.2f", pos.Cost()),
				fmt.Sprintf("$%+.2f", pos.UnrealizedPnL()),
				fmt.Sprintf("%.0f¢", pos.TargetPrice),
			)
		}
		table.Render()
	}

	if len(snap.ClosedPositions) > 0 {
		fmt.Fprintln(w, "\nSettled positions:")
		table := tablewriter.NewWriter(w)
		table.Header("Market", "Side", "Entry", "Exit", "Qty", "PnL", "Result")

		for _, pos := range snap.ClosedPositions {
			result := string(pos.Status)
			if pos.Resolution != domain.ResolutionNone {
				result = string(pos.Resolution)
			}
			table.Append(
				domain.TruncateTitle(pos.MarketTitle, pos.MarketID, 40),
				string(pos.Side),
				fmt.Sprintf("%d¢", pos.EntryPrice),
				fmt.Sprintf("%d¢", pos.ExitPrice),
				fmt.Sprintf("%d", pos.Quantity),
				fmt.Sprintf("$%+.2f", pos.PnL),
				result,
			)
		}
		table.Render()
	}
}
