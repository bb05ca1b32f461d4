package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alejandrodnm/edgescan/config"
	"github.com/alejandrodnm/edgescan/internal/adapters/exec"
	"github.com/alejandrodnm/edgescan/internal/adapters/notify"
	"github.com/alejandrodnm/edgescan/internal/adapters/storage"
	"github.com/alejandrodnm/edgescan/internal/paper"
	"github.com/alejandrodnm/edgescan/internal/ports"
	"github.com/alejandrodnm/edgescan/internal/scanner"
	"github.com/alejandrodnm/edgescan/internal/trading"
)

// paperEngine agrupa lo que necesita un ciclo de paper trading: el
// simulador de posiciones por edge y los ejecutores simulados para los
// frentes de crossed book y arbitraje.
type paperEngine struct {
	scanner *scanner.Scanner
	sim     *paper.Simulator
	store   ports.MarketStore
	spreads *trading.SpreadExecutor
	arbs    *trading.ArbExecutor
}

// runPaper ejecuta el loop de paper trading: cada ciclo escanea, abre
// posiciones simuladas sobre las oportunidades aceptadas, ejecuta los
// trades mecánicos contra el executor simulado, marca precios y liquida
// los mercados resueltos. El ledger sobrevive reinicios vía SQLite.
func runPaper(ctx context.Context, cfg *config.Config, s *scanner.Scanner, store *storage.SQLiteStore) {
	sim, err := paper.NewSimulator(ctx, paper.Config{
		InitialBalance: cfg.Paper.InitialBalance,
		PositionSize:   cfg.Paper.PositionSize,
		MaxPositions:   cfg.Paper.MaxPositions,
		MinEdge:        cfg.Paper.MinEdge,
	}, store)
	if err != nil {
		slog.Error("failed to start paper simulator", "err", err)
		os.Exit(1)
	}

	// Mercados resueltos mientras el proceso estaba caído: liquidarlos
	// desde los snapshots persistidos antes del primer ciclo.
	if settled, err := sim.SettleFromStore(ctx, store, time.Now().UTC()); err != nil {
		slog.Warn("startup settle from store failed", "err", err)
	} else if settled > 0 {
		slog.Info("positions settled from stored markets", "count", settled)
	}

	orders := exec.NewSimulated()
	engine := &paperEngine{
		scanner: s,
		sim:     sim,
		store:   store,
		spreads: trading.NewSpreadExecutor(orders),
		arbs:    trading.NewArbExecutor(orders),
	}

	slog.Info("paper trading started",
		"balance", sim.Account().Balance(),
		"position_size", cfg.Paper.PositionSize,
		"interval", cfg.ScanInterval(),
	)

	engine.runCycle(ctx)

	ticker := time.NewTicker(cfg.ScanInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("paper trading stopped", "orders_simulated", len(orders.Orders()))
			notify.PrintLedger(os.Stdout, sim.Account().Snapshot())
			return
		case <-ticker.C:
			engine.runCycle(ctx)
		}
	}
}

func (e *paperEngine) runCycle(ctx context.Context) {
	now := time.Now().UTC()

	report, err := e.scanner.RunOnce(ctx)
	if err != nil {
		slog.Error("paper cycle scan failed", "err", err)
		return
	}

	opened, err := e.sim.ProcessOpportunities(ctx, report.Analyses, now)
	if err != nil {
		slog.Warn("paper open failed", "err", err)
	}

	e.executeMechanical(ctx, report)

	// Posiciones cuyos mercados ya no aparecen en el scan se marcan y
	// liquidan con el último snapshot persistido.
	markets := e.sim.StoredMarkets(ctx, e.store, report.Markets)

	marked, err := e.sim.MarkPrices(ctx, markets, now)
	if err != nil {
		slog.Warn("paper mark failed", "err", err)
	}
	settled, err := e.sim.SettleResolved(ctx, markets, now)
	if err != nil {
		slog.Warn("paper settle failed", "err", err)
	}

	slog.Info("paper cycle complete",
		"opened", opened,
		"marked", marked,
		"settled", settled,
		"balance", e.sim.Account().Balance(),
		"available", e.sim.Account().AvailableBalance(),
		"open_positions", len(e.sim.Account().OpenPositions()),
	)

	// El portfolio teórico se dimensiona sobre el cash no reservado.
	bankroll := e.sim.Account().AvailableBalance()
	allocation := scanner.AllocatePortfolio(
		report.Analyses, bankroll, scanner.DefaultPortfolioConfig())
	notify.PrintPortfolio(os.Stdout, allocation, bankroll)
	notify.PrintLedger(os.Stdout, e.sim.Account().Snapshot())
}

// executeMechanical corre los frentes sin modelo (crossed books y
// arbitrajes ejecutables) contra el executor simulado.
func (e *paperEngine) executeMechanical(ctx context.Context, report ports.ScanReport) {
	if len(report.Trades) > 0 {
		results := e.spreads.ExecuteBatch(ctx, report.Trades)
		hedged := 0
		for _, r := range results {
			if r.Hedged {
				hedged++
			}
		}
		slog.Info("spread trades simulated", "attempted", len(report.Trades), "hedged", hedged)
	}

	for _, arb := range report.Arbitrages {
		if !arb.Executable {
			continue
		}
		if _, err := e.arbs.Execute(ctx, arb); err != nil {
			slog.Warn("arbitrage execution failed", "ticker", arb.Ticker, "err", err)
			continue
		}
		slog.Info("arbitrage simulated", "ticker", arb.Ticker, "net", arb.NetProfit)
	}
}
