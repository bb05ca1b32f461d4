package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

// Console implementa ports.Notifier escribiendo el reporte del ciclo.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el reporte en el modo configurado.
func (c *Console) Notify(_ context.Context, report ports.ScanReport) error {
	if len(report.Analyses) == 0 && len(report.Arbitrages) == 0 && len(report.Trades) == 0 {
		fmt.Fprintf(c.out, "[%s] no opportunities found\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printFull(report)
	} else {
		c.printCompact(report)
	}
	return nil
}

// printCompact imprime lo esencial en una línea por frente.
func (c *Console) printCompact(report ports.ScanReport) {
	now := time.Now().Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] edge:%d arb:%d cross:%d",
		now, len(report.Analyses), len(report.Arbitrages), len(report.Trades))

	shown := 0
	for _, opp := range report.Analyses {
		if shown >= 4 {
			break
		}
		fmt.Fprintf(&sb, " | %s %s e%.1f%% ev%.2f",
			compactName(opp.Title, 25), opp.Side,
			opp.Edge*100, opp.ExpectedValue)
		shown++
	}
	for _, arb := range report.Arbitrages {
		fmt.Fprintf(&sb, " | [A]%s dev%.1fpp $%.2f",
			compactName(arb.Title, 25), arb.Deviation, arb.NetProfit)
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime las tablas de los tres frentes y el resumen.
func (c *Console) printFull(report ports.ScanReport) {
	now := time.Now().Format("15:04:05")
	fmt.Fprintf(c.out, "\n[%s] scan report — edge:%d arb:%d cross:%d\n",
		now, len(report.Analyses), len(report.Arbitrages), len(report.Trades))

	if len(report.Analyses) > 0 {
		c.printAnalyses(report.Analyses)
	}
	if len(report.Arbitrages) > 0 {
		c.printArbitrages(report.Arbitrages)
	}
	if len(report.Trades) > 0 {
		c.printTrades(report.Trades)
	}
}

func (c *Console) printAnalyses(opps []domain.OpportunityAnalysis) {
	fmt.Fprintln(c.out, "\nEdge opportunities:")
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Market", "Side", "Fair%", "Mkt%", "Edge", "EV", "Kelly", "Price", "Qty")

	for i, opp := range opps {
		p := opp.Projection()
		table.Append(
			fmt.Sprintf("%d", i+1),
			domain.TruncateTitle(opp.Title, opp.Ticker, 40),
			string(opp.Side),
			fmt.Sprintf("%.1f", p.FairProbability),
			fmt.Sprintf("%.1f", p.MarketProbability),
			fmt.Sprintf("%+.1fpp", p.Edge),
			fmt.Sprintf("%.3f", p.ExpectedValue),
			fmt.Sprintf("%.1f%%", p.KellyFraction),
			fmt.Sprintf("%d¢", opp.RecommendedPrice),
			fmt.Sprintf("%d", opp.AvailableQuantity),
		)
	}
	table.Render()
}

func (c *Console) printArbitrages(opps []domain.ArbitrageOpportunity) {
	fmt.Fprintln(c.out, "\nParity arbitrage:")
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Market", "Sum", "Dev", "Legs", "Gross", "Net", "$/day", "Exec")

	for i, opp := range opps {
		exec := "yes"
		if !opp.Executable {
			exec = "info"
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			domain.TruncateTitle(opp.Title, opp.Ticker, 40),
			fmt.Sprintf("%.0f¢", opp.TotalProbability*100),
			fmt.Sprintf("%.1fpp", opp.Deviation),
			describeLegs(opp.Legs),
			fmt.Sprintf("$%.2f", opp.GrossProfit),
			fmt.Sprintf("$%.2f", opp.NetProfit),
			fmt.Sprintf("$%.2f", opp.ProfitPerDay),
			exec,
		)
	}
	table.Render()
}

func (c *Console) printTrades(opps []domain.TradeOpportunity) {
	fmt.Fprintln(c.out, "\nCrossed books:")
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Market", "Side", "Buy", "Sell", "Spread", "Qty", "Net")

	for i, opp := range opps {
		table.Append(
			fmt.Sprintf("%d", i+1),
			domain.TruncateTitle(opp.Title, opp.Ticker, 40),
			string(opp.Side),
			fmt.Sprintf("%d¢", opp.BuyPrice),
			fmt.Sprintf("%d¢", opp.SellPrice),
			fmt.Sprintf("%d¢", opp.Spread),
			fmt.Sprintf("%d", opp.Quantity),
			fmt.Sprintf("$%.2f", opp.NetProfit),
		)
	}
	table.Render()
}

// describeLegs resume las patas: "S yes@52x50 + S no@50x49".
func describeLegs(legs []domain.ArbitrageLeg) string {
	parts := make([]string, len(legs))
	for i, leg := range legs {
		action := "B"
		if leg.Action == domain.ActionSell {
			action = "S"
		}
		parts[i] = fmt.Sprintf("%s %s@%d×%d", action, leg.Side, leg.Price, leg.Quantity)
	}
	return strings.Join(parts, " + ")
}

// compactName corta el título para el modo de una línea.
func compactName(title string, maxLen int) string {
	title = strings.TrimPrefix(title, "Will ")
	return domain.TruncateTitle(title, "", maxLen)
}
