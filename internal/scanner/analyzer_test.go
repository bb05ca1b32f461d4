package scanner

import (
	"testing"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rateMarket construye un mercado con base rate absoluta, que no depende
// del tiempo a resolución.
func rateMarket(fairProb float64, yesBid, yesAsk, noBid, noAsk int) domain.Market {
	return domain.Market{
		Ticker:         "RATE-MKT",
		Title:          "Rate market",
		Platform:       domain.PlatformPolymarket,
		ResolutionDate: scanTime.AddDate(0, 0, 30),
		YesBid:         yesBid,
		YesAsk:         yesAsk,
		NoBid:          noBid,
		NoAsk:          noAsk,
		BaseRate: &domain.BaseRate{
			Rate: fairProb,
			Unit: domain.Absolute,
		},
	}
}

func TestAnalyzer_NoBaseRateNoAnalysis(t *testing.T) {
	m := rateMarket(0.5, 30, 32, 68, 70)
	m.BaseRate = nil

	a := NewAnalyzer(0)
	assert.Nil(t, a.AnalyzeMarket(m, scanTime))
}

func TestAnalyzer_YesSideUnderpriced(t *testing.T) {
	// Fair 50% con YES a 40¢: edge 10pp, EV 1.25.
	m := rateMarket(0.5, 38, 40, 58, 60)

	a := NewAnalyzer(0)
	opps := a.AnalyzeMarket(m, scanTime)
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, domain.SideYes, opp.Side)
	assert.InDelta(t, 0.5, opp.FairProbability, 1e-9)
	assert.InDelta(t, 0.40, opp.MarketProbability, 1e-9)
	assert.InDelta(t, 0.10, opp.Edge, 1e-9)
	assert.InDelta(t, 1.25, opp.ExpectedValue, 1e-9)
	assert.InDelta(t, 1.0/6.0, opp.KellyFraction, 1e-9)
	assert.Equal(t, 40, opp.RecommendedPrice)
	assert.Equal(t, 0, opp.AvailableQuantity, "sin book no hay liquidez confirmada")
}

func TestAnalyzer_NoSideOverpricedYes(t *testing.T) {
	// Fair 50% con YES a 60¢: el lado NO lleva el edge.
	m := rateMarket(0.5, 58, 60, 38, 40)

	a := NewAnalyzer(0)
	opps := a.AnalyzeMarket(m, scanTime)
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, domain.SideNo, opp.Side)
	assert.InDelta(t, 0.5, opp.FairProbability, 1e-9)
	assert.InDelta(t, 0.40, opp.MarketProbability, 1e-9)
	// El edge del lado NO se mide contra el precio YES.
	assert.InDelta(t, 0.10, opp.Edge, 1e-9)
	// EV y Kelly sí usan el precio NO.
	assert.InDelta(t, 1.25, opp.ExpectedValue, 1e-9)
	assert.Equal(t, 40, opp.RecommendedPrice)
}

func TestAnalyzer_FairlyPricedNoOpportunity(t *testing.T) {
	// Precio = fair: edge cero en ambos lados.
	m := rateMarket(0.5, 48, 50, 48, 50)
	a := NewAnalyzer(0)
	assert.Empty(t, a.AnalyzeMarket(m, scanTime))
}

func TestAnalyzer_PositiveEdgeButLowEVRejected(t *testing.T) {
	// El edge NO se mide contra el precio YES pero el EV contra el
	// precio NO, así que pueden divergir: YES a 55¢ da edge NO de 5pp,
	// pero con NO a 52¢ el EV es 50/52 < 1 y el lado se rechaza.
	m := rateMarket(0.5, 53, 55, 50, 52)
	a := NewAnalyzer(0)
	assert.Empty(t, a.AnalyzeMarket(m, scanTime))
}

func TestAnalyzer_BookRefinesPriceAndQuantity(t *testing.T) {
	m := rateMarket(0.5, 38, 40, 58, 60)
	m.Book = &domain.OrderBook{
		YesAsks: []domain.Level{
			{Price: 39, Quantity: 200},
			{Price: 41, Quantity: 5000},
		},
	}

	a := NewAnalyzer(1000)
	opps := a.AnalyzeMarket(m, scanTime)
	require.Len(t, opps, 1)
	// El nivel de 39¢ no acumula 1000 contratos; se sube al de 41¢.
	assert.Equal(t, 41, opps[0].RecommendedPrice)
	assert.Equal(t, 5000, opps[0].AvailableQuantity)
}

func TestAnalyzer_UndefinedPriceSkipsSide(t *testing.T) {
	// Sin cotización NO el lado NO no tiene EV definido.
	m := rateMarket(0.9, 38, 40, 0, 0)
	a := NewAnalyzer(0)
	opps := a.AnalyzeMarket(m, scanTime)
	require.Len(t, opps, 1)
	assert.Equal(t, domain.SideYes, opps[0].Side)
}

func TestSummarize(t *testing.T) {
	opps := []domain.OpportunityAnalysis{
		{Platform: domain.PlatformKalshi, Side: domain.SideYes, Edge: 0.10, ExpectedValue: 1.25, KellyFraction: 0.16, AvailableQuantity: 500},
		{Platform: domain.PlatformPolymarket, Side: domain.SideNo, Edge: 0.04, ExpectedValue: 1.05, KellyFraction: 0.02, AvailableQuantity: 1500},
	}

	stats := Summarize(opps)
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 0.07, stats.AvgEdge, 1e-9)
	assert.InDelta(t, 0.10, stats.MaxEdge, 1e-9)
	assert.InDelta(t, 1.15, stats.AvgEV, 1e-9)
	assert.InDelta(t, 1.25, stats.MaxEV, 1e-9)
	assert.Equal(t, 2000, stats.TotalQuantity)
	assert.Equal(t, 1, stats.ByPlatform[domain.PlatformKalshi])
	assert.Equal(t, 1, stats.BySide[domain.SideNo])

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.ByPlatform)
}
