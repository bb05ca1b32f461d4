package paper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLedger struct {
	snap  domain.LedgerSnapshot
	ok    bool
	saves int
}

func (m *memLedger) SaveLedger(ctx context.Context, snap domain.LedgerSnapshot) error {
	m.snap = snap
	m.ok = true
	m.saves++
	return nil
}

func (m *memLedger) LoadLedger(ctx context.Context) (domain.LedgerSnapshot, bool, error) {
	return m.snap, m.ok, nil
}

func testOpp(ticker string, kelly float64, price int) domain.OpportunityAnalysis {
	return domain.OpportunityAnalysis{
		Ticker:           ticker,
		Title:            "Test market " + ticker,
		Platform:         domain.PlatformKalshi,
		Side:             domain.SideYes,
		FairProbability:  0.60,
		Edge:             0.10,
		ExpectedValue:    1.25,
		KellyFraction:    kelly,
		RecommendedPrice: price,
	}
}

func TestSimulator_SizingFromKelly(t *testing.T) {
	s, err := NewSimulator(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)

	// 100 × 0.16 × 4 = 64 contracts.
	assert.Equal(t, 64, s.contractsFor(0.16))
	// Kelly capped at 0.25: 100 × 0.25 × 4 = 100.
	assert.Equal(t, 100, s.contractsFor(0.80))
	// Floor of 10 contracts for dust-sized fractions.
	assert.Equal(t, 10, s.contractsFor(0.001))
}

func TestSimulator_ProcessOpensAndPersists(t *testing.T) {
	store := &memLedger{}
	s, err := NewSimulator(context.Background(), DefaultConfig(), store)
	require.NoError(t, err)

	opps := []domain.OpportunityAnalysis{
		testOpp("MKT-A", 0.16, 40),
		testOpp("MKT-B", 0.05, 25),
		testOpp("MKT-A", 0.16, 41), // duplicate market, silently skipped
	}

	opened, err := s.ProcessOpportunities(context.Background(), opps, entryTime)
	require.NoError(t, err)
	assert.Equal(t, 2, opened)
	assert.Equal(t, 1, store.saves)

	pos := s.Account().OpenPositions()
	require.Len(t, pos, 2)
	assert.Equal(t, 64, pos[0].Quantity)
	assert.InDelta(t, 60.0, pos[0].TargetPrice, 1e-9, "target = fair probability in cents")
}

func TestSimulator_SkipsEdgesBelowMinimum(t *testing.T) {
	s, err := NewSimulator(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)

	var opps []domain.OpportunityAnalysis
	for i := 0; i < 25; i++ {
		opp := testOpp(fmt.Sprintf("MKT-%d", i), 0.16, 40)
		opp.Edge = 0.001
		opps = append(opps, opp)
	}

	opened, err := s.ProcessOpportunities(context.Background(), opps, entryTime)
	require.NoError(t, err)
	assert.Equal(t, 0, opened, "edges under the threshold never open positions")
	assert.Empty(t, s.Account().OpenPositions())
}

func TestSimulator_StopsAtMaxPositions(t *testing.T) {
	s, err := NewSimulator(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)

	var opps []domain.OpportunityAnalysis
	for i := 0; i < 25; i++ {
		opps = append(opps, testOpp(fmt.Sprintf("MKT-%d", i), 0.16, 40))
	}

	opened, err := s.ProcessOpportunities(context.Background(), opps, entryTime)
	require.NoError(t, err)
	assert.Equal(t, 10, opened)
	assert.Len(t, s.Account().OpenPositions(), 10)
}

func TestSimulator_MaxPositionsCountsExistingHoldings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPositions = 2
	s, err := NewSimulator(context.Background(), cfg, nil)
	require.NoError(t, err)

	_, err = s.ProcessOpportunities(context.Background(), []domain.OpportunityAnalysis{
		testOpp("HELD", 0.16, 40),
	}, entryTime)
	require.NoError(t, err)

	opened, err := s.ProcessOpportunities(context.Background(), []domain.OpportunityAnalysis{
		testOpp("MKT-A", 0.16, 40),
		testOpp("MKT-B", 0.16, 40),
		testOpp("MKT-C", 0.16, 40),
	}, entryTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, opened, "one slot left under the cap")
}

func TestSimulator_InsufficientBalanceSkipsNotFails(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialBalance = 30 // one 64-contract entry at 40¢ costs $25.60
	s, err := NewSimulator(context.Background(), cfg, nil)
	require.NoError(t, err)

	opps := []domain.OpportunityAnalysis{
		testOpp("MKT-A", 0.16, 40),
		testOpp("MKT-B", 0.16, 40), // no cash left for this one
	}
	opened, err := s.ProcessOpportunities(context.Background(), opps, entryTime)
	require.NoError(t, err)
	assert.Equal(t, 1, opened)
}

func TestSimulator_MarkPricesClosesAtTarget(t *testing.T) {
	s, err := NewSimulator(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = s.ProcessOpportunities(context.Background(), []domain.OpportunityAnalysis{
		testOpp("MKT-A", 0.16, 40),
	}, entryTime)
	require.NoError(t, err)

	// Below target: marked but stays open.
	closed, err := s.MarkPrices(context.Background(), []domain.Market{
		{Ticker: "MKT-A", YesAsk: 50},
	}, entryTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
	assert.InDelta(t, float64(50-40)/100*64, s.Account().UnrealizedPnL(), 1e-9)

	// At target (60): closed at the quoted price.
	closed, err = s.MarkPrices(context.Background(), []domain.Market{
		{Ticker: "MKT-A", YesAsk: 62},
	}, entryTime.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.False(t, s.Account().HasPosition("MKT-A"))
	assert.InDelta(t, float64(62-40)/100*64, s.Account().Snapshot().TotalPnL, 1e-9)
}

func TestSimulator_SettleResolvedUsesFinalQuote(t *testing.T) {
	s, err := NewSimulator(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = s.ProcessOpportunities(context.Background(), []domain.OpportunityAnalysis{
		testOpp("WIN", 0.16, 40),
		testOpp("LOSE", 0.16, 40),
	}, entryTime)
	require.NoError(t, err)

	resolution := entryTime.Add(24 * time.Hour)
	after := resolution.Add(time.Hour)

	settled, err := s.SettleResolved(context.Background(), []domain.Market{
		{Ticker: "WIN", ResolutionDate: resolution, YesAsk: 99},
		{Ticker: "LOSE", ResolutionDate: resolution, YesAsk: 1},
	}, after)
	require.NoError(t, err)
	assert.Equal(t, 2, settled)

	snap := s.Account().Snapshot()
	assert.Equal(t, 2, snap.TotalTrades)
	assert.Equal(t, 1, snap.WinningTrades)
	// Win: (100−40)/100×64 = +38.40; lose: −25.60.
	assert.InDelta(t, 38.40-25.60, snap.TotalPnL, 1e-9)
}

func TestSimulator_SettleSkipsUnresolvedMarkets(t *testing.T) {
	s, err := NewSimulator(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = s.ProcessOpportunities(context.Background(), []domain.OpportunityAnalysis{
		testOpp("MKT-A", 0.16, 40),
	}, entryTime)
	require.NoError(t, err)

	settled, err := s.SettleResolved(context.Background(), []domain.Market{
		{Ticker: "MKT-A", ResolutionDate: entryTime.Add(24 * time.Hour), YesAsk: 99},
	}, entryTime.Add(time.Hour)) // before resolution
	require.NoError(t, err)
	assert.Equal(t, 0, settled)
	assert.True(t, s.Account().HasPosition("MKT-A"))
}

type memMarkets struct {
	ports.MarketStore
	markets map[string]domain.Market
}

func (m *memMarkets) GetMarket(ctx context.Context, ticker string) (domain.Market, bool, error) {
	mk, ok := m.markets[ticker]
	return mk, ok, nil
}

func (m *memMarkets) GetMarkets(ctx context.Context, filter ports.MarketFilter) ([]domain.Market, error) {
	out := make([]domain.Market, 0, len(m.markets))
	for _, mk := range m.markets {
		out = append(out, mk)
	}
	return out, nil
}

func TestSimulator_StoredMarketsFillsScanGaps(t *testing.T) {
	s, err := NewSimulator(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = s.ProcessOpportunities(context.Background(), []domain.OpportunityAnalysis{
		testOpp("LIVE", 0.16, 40),
		testOpp("GONE", 0.16, 40),
	}, entryTime)
	require.NoError(t, err)

	store := &memMarkets{markets: map[string]domain.Market{
		"GONE": {Ticker: "GONE", YesAsk: 99},
		"LIVE": {Ticker: "LIVE", YesAsk: 45}, // scanned fresh, must not duplicate
	}}

	scanned := []domain.Market{{Ticker: "LIVE", YesAsk: 44}}
	markets := s.StoredMarkets(context.Background(), store, scanned)

	require.Len(t, markets, 2)
	assert.Equal(t, "LIVE", markets[0].Ticker)
	assert.Equal(t, 44, markets[0].YesAsk, "the live quote wins over the stored one")
	assert.Equal(t, "GONE", markets[1].Ticker)
}

func TestSimulator_SettleFromStoreOnStartup(t *testing.T) {
	s, err := NewSimulator(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = s.ProcessOpportunities(context.Background(), []domain.OpportunityAnalysis{
		testOpp("RESOLVED", 0.16, 40),
		testOpp("STILL-ON", 0.16, 40),
	}, entryTime)
	require.NoError(t, err)

	store := &memMarkets{markets: map[string]domain.Market{
		"RESOLVED": {Ticker: "RESOLVED", ResolutionDate: entryTime.Add(time.Hour), YesAsk: 99},
		"STILL-ON": {Ticker: "STILL-ON", ResolutionDate: entryTime.Add(72 * time.Hour), YesAsk: 50},
	}}

	settled, err := s.SettleFromStore(context.Background(), store, entryTime.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, settled)
	assert.False(t, s.Account().HasPosition("RESOLVED"))
	assert.True(t, s.Account().HasPosition("STILL-ON"))
}

func TestSimulator_RestoresLedgerFromStore(t *testing.T) {
	store := &memLedger{}
	ctx := context.Background()

	first, err := NewSimulator(ctx, DefaultConfig(), store)
	require.NoError(t, err)
	_, err = first.ProcessOpportunities(ctx, []domain.OpportunityAnalysis{
		testOpp("MKT-A", 0.16, 40),
	}, entryTime)
	require.NoError(t, err)

	second, err := NewSimulator(ctx, DefaultConfig(), store)
	require.NoError(t, err)
	assert.True(t, second.Account().HasPosition("MKT-A"))
	assert.InDelta(t, first.Account().Balance(), second.Account().Balance(), 1e-9)
}
