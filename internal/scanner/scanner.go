package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

// Config contiene la configuración del scanner.
type Config struct {
	ScanInterval time.Duration
	Criteria     FilterCriteria
	Spread       SpreadConfig
	// BookQuantity es la liquidez acumulada exigida al precio recomendado.
	BookQuantity int
	// MinClassScore descarta mercados poco amenables a base rates antes
	// de analizarlos. 0 = no clasificar.
	MinClassScore float64
	// BooksPerSecond limita el ritmo de fetch de orderbooks dentro del
	// batch (el equivalente al delay entre requests del provider).
	BooksPerSecond float64
	// AnalysisWorkers es el tamaño del pool de análisis. 0 = NumCPU.
	AnalysisWorkers int
	// RunOnce ejecuta un único ciclo y termina.
	RunOnce bool
}

// DefaultConfig devuelve una configuración sensata para producción.
func DefaultConfig() Config {
	return Config{
		ScanInterval:   5 * time.Minute,
		Criteria:       DefaultFilterCriteria(),
		Spread:         DefaultSpreadConfig(),
		BookQuantity:   defaultBookQuantity,
		BooksPerSecond: 5,
	}
}

// Scanner es el orquestador del loop de escaneo: fetch → analyze →
// filter → rank → notify → persist. Los mercados se procesan en secuencia
// y cada fallo por-mercado se aísla: se loguea y el batch continúa.
type Scanner struct {
	cfg      Config
	markets  ports.MarketProvider
	books    ports.BookProvider // puede ser nil: sin refinamiento de book
	store    ports.MarketStore  // puede ser nil: sin persistencia
	notifier ports.Notifier

	analyzer *Analyzer
	filter   *Filter
	arb      *ArbitrageDetector
	spreads  *SpreadScanner
	limiter  *rate.Limiter
}

// New crea un Scanner con todas las dependencias inyectadas.
func New(
	cfg Config,
	markets ports.MarketProvider,
	books ports.BookProvider,
	store ports.MarketStore,
	notifier ports.Notifier,
) *Scanner {
	booksPerSec := cfg.BooksPerSecond
	if booksPerSec <= 0 {
		booksPerSec = 5
	}
	return &Scanner{
		cfg:      cfg,
		markets:  markets,
		books:    books,
		store:    store,
		notifier: notifier,
		analyzer: NewAnalyzer(cfg.BookQuantity),
		filter:   NewFilter(cfg.Criteria),
		arb:      NewArbitrageDetector(),
		spreads:  NewSpreadScanner(cfg.Spread),
		limiter:  rate.NewLimiter(rate.Limit(booksPerSec), 1),
	}
}

// Run ejecuta el loop de escaneo hasta que el contexto se cancele.
// Con cfg.RunOnce solo ejecuta un ciclo.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"interval", s.cfg.ScanInterval,
		"once", s.cfg.RunOnce,
	)

	if err := s.runCycle(ctx); err != nil {
		slog.Error("scan cycle failed", "err", err)
		if s.cfg.RunOnce {
			return err
		}
	}
	if s.cfg.RunOnce {
		return nil
	}

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				slog.Error("scan cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un ciclo y devuelve el reporte.
func (s *Scanner) RunOnce(ctx context.Context) (ports.ScanReport, error) {
	return s.cycle(ctx)
}

func (s *Scanner) runCycle(ctx context.Context) error {
	start := time.Now()

	report, err := s.cycle(ctx)
	if err != nil {
		return err
	}

	if err := s.notifier.Notify(ctx, report); err != nil {
		slog.Warn("notifier error", "err", err)
	}
	if s.store != nil {
		if err := s.store.SaveScan(ctx, start.UTC(), report.Analyses, report.Arbitrages, report.Trades); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	stats := Summarize(report.Analyses)
	slog.Info("scan cycle complete",
		"analyses", stats.Count,
		"avg_edge", stats.AvgEdge,
		"max_ev", stats.MaxEV,
		"arbitrages", len(report.Arbitrages),
		"trades", len(report.Trades),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// cycle hace el trabajo: fetch, enriquecer con base rates, detectar en los
// tres frentes y filtrar.
func (s *Scanner) cycle(ctx context.Context) (ports.ScanReport, error) {
	now := time.Now().UTC()

	markets, err := s.markets.FetchMarkets(ctx)
	if err != nil {
		return ports.ScanReport{}, fmt.Errorf("scanner.cycle: fetch markets: %w", err)
	}

	if s.store != nil {
		if err := s.store.SaveMarkets(ctx, markets); err != nil {
			slog.Warn("save markets failed", "err", err)
		}
	}

	var report ports.ScanReport
	report.Markets = markets

	candidates := markets
	if s.cfg.MinClassScore > 0 {
		candidates = FilterClassified(markets, s.cfg.MinClassScore)
		slog.Debug("classification pre-filter",
			"in", len(markets), "out", len(candidates))
	}

	// Enriquecimiento en secuencia (el limiter pacea los fetches de book);
	// el análisis puro va al worker pool.
	var enriched []domain.Market
	for _, m := range candidates {
		if !s.filter.MatchesMarket(m) {
			continue
		}
		enriched = append(enriched, s.enrich(ctx, m))
	}

	var analyses []domain.OpportunityAnalysis
	for _, res := range s.analyzeConcurrent(enriched, now, s.cfg.AnalysisWorkers) {
		analyses = append(analyses, res.analyses...)
		if res.hasArb {
			report.Arbitrages = append(report.Arbitrages, res.arb)
		}
		report.Trades = append(report.Trades, res.trades...)
	}

	report.Analyses = s.filter.Apply(analyses)
	sortArbitrages(report.Arbitrages)
	return report, nil
}

// enrich adjunta el base rate persistido y el orderbook bajo demanda.
// Cualquier fallo deja el mercado como estaba: los detectores degradan a
// los precios del snapshot.
func (s *Scanner) enrich(ctx context.Context, m domain.Market) domain.Market {
	if m.BaseRate == nil && s.store != nil {
		if br, ok, err := s.store.GetBaseRate(ctx, m.Ticker); err != nil {
			slog.Debug("base rate lookup failed", "ticker", m.Ticker, "err", err)
		} else if ok {
			m.BaseRate = &br
		}
	}

	if m.Book == nil && s.books != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return m // contexto cancelado
		}
		book, err := s.books.FetchOrderBook(ctx, m.Ticker)
		if err != nil {
			slog.Debug("order book fetch failed", "ticker", m.Ticker, "err", err)
		} else {
			m.Book = book
		}
	}
	return m
}

func sortArbitrages(opps []domain.ArbitrageOpportunity) {
	sort.Slice(opps, func(i, j int) bool {
		return opps[i].ProfitPerDay > opps[j].ProfitPerDay
	})
}
