package notify

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/edgescan/internal/scanner"
)

// PrintPortfolio imprime la asignación de Kelly recomendada para el
// bankroll actual, ordenada por coste descendente.
func PrintPortfolio(w io.Writer, positions map[string]scanner.PortfolioPosition, bankroll float64) {
	if len(positions) == 0 {
		return
	}

	sorted := make([]scanner.PortfolioPosition, 0, len(positions))
	total := 0.0
	for _, pos := range positions {
		sorted = append(sorted, pos)
		total += pos.TotalCost
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TotalCost > sorted[j].TotalCost })

	fmt.Fprintf(w, "\nRecommended allocation ($%.2f bankroll):\n", bankroll)
	table := tablewriter.NewWriter(w)
	table.Header("Ticker", "Side", "Contracts", "Price", "Cost", "Kelly", "EV")

	for _, pos := range sorted {
		table.Append(
			pos.Ticker,
			string(pos.Side),
			fmt.Sprintf("%d", pos.Contracts),
			fmt.Sprintf("%d¢", pos.Price),
			fmt.Sprintf("$%.2f", pos.TotalCost),
			fmt.Sprintf("%.1f%%", pos.KellyPct),
			fmt.Sprintf("%.3f", pos.ExpectedValue),
		)
	}
	table.Render()
	fmt.Fprintf(w, "total allocated: $%.2f (%.1f%% of bankroll)\n",
		total, total/bankroll*100)
}
