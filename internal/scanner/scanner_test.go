package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMarkets struct {
	markets []domain.Market
	err     error
}

func (s *stubMarkets) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	return s.markets, s.err
}

type stubBooks struct {
	books map[string]*domain.OrderBook
	calls int
}

func (s *stubBooks) FetchOrderBook(ctx context.Context, ticker string) (*domain.OrderBook, error) {
	s.calls++
	book, ok := s.books[ticker]
	if !ok {
		return nil, errors.New("book unavailable")
	}
	return book, nil
}

type stubNotifier struct {
	reports []ports.ScanReport
}

func (s *stubNotifier) Notify(ctx context.Context, report ports.ScanReport) error {
	s.reports = append(s.reports, report)
	return nil
}

type stubStore struct {
	ports.MarketStore
	baseRates  map[string]domain.BaseRate
	saved      [][]domain.Market
	scansSaved int
}

func (s *stubStore) SaveMarkets(ctx context.Context, markets []domain.Market) error {
	s.saved = append(s.saved, markets)
	return nil
}

func (s *stubStore) GetBaseRate(ctx context.Context, ticker string) (domain.BaseRate, bool, error) {
	br, ok := s.baseRates[ticker]
	return br, ok, nil
}

func (s *stubStore) SaveScan(ctx context.Context, at time.Time, analyses []domain.OpportunityAnalysis, arbs []domain.ArbitrageOpportunity, trades []domain.TradeOpportunity) error {
	s.scansSaved++
	return nil
}

// testMarkets: uno con edge por base rate, uno con book cruzado y uno
// con paridad rota. Fechas relativas a ahora porque el ciclo usa el reloj.
func testMarkets() []domain.Market {
	resolution := time.Now().UTC().AddDate(0, 0, 10)
	return []domain.Market{
		{
			Ticker: "EDGE", Title: "Edge market", Platform: domain.PlatformKalshi,
			ResolutionDate: resolution,
			YesBid:         38, YesAsk: 40, NoBid: 60, NoAsk: 62,
		},
		{
			Ticker: "CROSS", Title: "Crossed market", Platform: domain.PlatformKalshi,
			ResolutionDate: resolution,
			YesBid:         15, YesAsk: 12, NoBid: 85, NoAsk: 88,
		},
		{
			Ticker: "PARITY", Title: "Parity market", Platform: domain.PlatformKalshi,
			ResolutionDate: resolution,
			YesBid:         52, YesAsk: 54, NoBid: 50, NoAsk: 52,
		},
	}
}

func scanCfg() Config {
	cfg := DefaultConfig()
	cfg.Criteria.MinQuantity = 0 // sin book provider no hay liquidez confirmada
	cfg.BooksPerSecond = 1000    // no frenar los tests
	return cfg
}

func TestScanner_RunOnceDetectsAllThreeFronts(t *testing.T) {
	store := &stubStore{baseRates: map[string]domain.BaseRate{
		"EDGE": {Rate: 0.5, Unit: domain.Absolute},
	}}

	s := New(scanCfg(), &stubMarkets{markets: testMarkets()}, nil, store, &stubNotifier{})
	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Analyses, 1)
	assert.Equal(t, "EDGE", report.Analyses[0].Ticker)
	assert.Equal(t, domain.SideYes, report.Analyses[0].Side)

	require.Len(t, report.Arbitrages, 1)
	assert.Equal(t, "PARITY", report.Arbitrages[0].Ticker)

	require.Len(t, report.Trades, 1)
	assert.Equal(t, "CROSS", report.Trades[0].Ticker)

	require.Len(t, store.saved, 1, "los mercados crudos se persisten")
	assert.Len(t, store.saved[0], 3)
}

func TestScanner_BookFailureDegradesToSnapshot(t *testing.T) {
	store := &stubStore{baseRates: map[string]domain.BaseRate{
		"EDGE": {Rate: 0.5, Unit: domain.Absolute},
	}}
	books := &stubBooks{books: map[string]*domain.OrderBook{}} // todo falla

	s := New(scanCfg(), &stubMarkets{markets: testMarkets()}, books, store, &stubNotifier{})
	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, books.calls, "se intenta el book de cada mercado")
	require.Len(t, report.Analyses, 1, "el fallo del book no tumba el análisis")
	assert.Equal(t, 40, report.Analyses[0].RecommendedPrice, "precio del snapshot")
}

func TestScanner_FetchErrorAborts(t *testing.T) {
	s := New(scanCfg(), &stubMarkets{err: errors.New("api down")}, nil, nil, &stubNotifier{})
	_, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "fetch markets")
}

func TestScanner_PlatformFilterSkipsMarkets(t *testing.T) {
	cfg := scanCfg()
	cfg.Criteria.Platforms = []domain.Platform{domain.PlatformPolymarket}

	s := New(cfg, &stubMarkets{markets: testMarkets()}, nil, nil, &stubNotifier{})
	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Analyses)
	assert.Empty(t, report.Arbitrages)
	assert.Empty(t, report.Trades)
}

func TestScanner_RunOnceModeNotifiesAndPersists(t *testing.T) {
	cfg := scanCfg()
	cfg.RunOnce = true

	store := &stubStore{baseRates: map[string]domain.BaseRate{}}
	notifier := &stubNotifier{}

	s := New(cfg, &stubMarkets{markets: testMarkets()}, nil, store, notifier)
	require.NoError(t, s.Run(context.Background()))

	require.Len(t, notifier.reports, 1)
	assert.Equal(t, 1, store.scansSaved)
}
