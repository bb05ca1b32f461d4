package scanner

import (
	"testing"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scanTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func arbMarket(yesBid, yesAsk, noBid, noAsk int, daysOut float64) domain.Market {
	return domain.Market{
		Ticker:         "TEST-MKT",
		Title:          "Test market",
		Platform:       domain.PlatformKalshi,
		ResolutionDate: scanTime.Add(time.Duration(daysOut * 24 * float64(time.Hour))),
		YesBid:         yesBid,
		YesAsk:         yesAsk,
		NoBid:          noBid,
		NoAsk:          noAsk,
	}
}

func TestArbitrage_OverpricedSellSide(t *testing.T) {
	// yes_bid=52 + no_bid=50 = 102 → sobrevaloración vendible de 2pp.
	m := arbMarket(52, 54, 50, 52, 10)

	d := NewArbitrageDetector()
	opp, ok := d.AnalyzeMarket(m, scanTime)
	require.True(t, ok)

	assert.InDelta(t, 1.02, opp.TotalProbability, 1e-9)
	assert.InDelta(t, 2.0, opp.Deviation, 1e-9)
	assert.True(t, opp.Executable)

	require.Len(t, opp.Legs, 2)
	for _, leg := range opp.Legs {
		assert.Equal(t, domain.ActionSell, leg.Action)
	}
	// Reparto proporcional truncado: 100×52/102=50.98→50... int trunca.
	assert.Equal(t, domain.SideYes, opp.Legs[0].Side)
	assert.Equal(t, 52, opp.Legs[0].Price)
	yesShare, noShare := 100*0.52/1.02, 100*0.50/1.02
	assert.Equal(t, int(yesShare), opp.Legs[0].Quantity)
	assert.Equal(t, int(noShare), opp.Legs[1].Quantity)

	assert.InDelta(t, 2.0, opp.GrossProfit, 1e-9)
	// Fees maker a 52¢ y 50¢ (tramo 3.5%, maker 1.75%) dejan neto positivo.
	assert.Greater(t, opp.NetProfit, 0.0)
	assert.Less(t, opp.NetProfit, opp.GrossProfit)
	assert.InDelta(t, opp.NetProfit/10.0, opp.ProfitPerDay, 1e-9)
}

func TestArbitrage_UnderpricedBuySide(t *testing.T) {
	// Sin bids y asks 46+46=92 → infravaloración comprable de 8pp.
	m := arbMarket(0, 46, 0, 46, 5)

	d := NewArbitrageDetector()
	opp, ok := d.AnalyzeMarket(m, scanTime)
	require.True(t, ok)

	assert.InDelta(t, 0.92, opp.TotalProbability, 1e-9)
	assert.InDelta(t, 8.0, opp.Deviation, 1e-9)
	assert.True(t, opp.Executable)
	for _, leg := range opp.Legs {
		assert.Equal(t, domain.ActionBuy, leg.Action)
	}
	assert.InDelta(t, 8.0, opp.GrossProfit, 1e-9)
}

func TestArbitrage_PrefersSellOverBuy(t *testing.T) {
	// Bids sobrevalorados Y asks infravalorados (book absurdo): gana la
	// venta por convención.
	m := arbMarket(52, 40, 51, 40, 5)

	d := NewArbitrageDetector()
	opp, ok := d.AnalyzeMarket(m, scanTime)
	require.True(t, ok)
	assert.Equal(t, domain.ActionSell, opp.Legs[0].Action)
}

func TestArbitrage_MidPriceFallbackIsInformational(t *testing.T) {
	// Solo hay un bid por lado y la suma se desvía mucho: no ejecutable,
	// pero se reporta la desviación.
	m := arbMarket(40, 0, 40, 0, 5)

	d := NewArbitrageDetector()
	opp, ok := d.AnalyzeMarket(m, scanTime)
	require.True(t, ok)
	assert.False(t, opp.Executable)
	assert.InDelta(t, 0.80, opp.TotalProbability, 1e-9)
	assert.InDelta(t, 20.0, opp.Deviation, 1e-9)
}

func TestArbitrage_NoQuotesNoOpportunity(t *testing.T) {
	m := arbMarket(0, 0, 0, 0, 5)
	d := NewArbitrageDetector()
	_, ok := d.AnalyzeMarket(m, scanTime)
	assert.False(t, ok)
}

func TestArbitrage_BalancedMarketNoOpportunity(t *testing.T) {
	// Bids 96 y asks 104: ningún lado cruza la paridad, y los mids suman
	// 100 exacto → gross cero, el neto no cubre fees.
	m := arbMarket(48, 52, 48, 52, 5)
	d := NewArbitrageDetector()
	_, ok := d.AnalyzeMarket(m, scanTime)
	assert.False(t, ok)
}

func TestArbitrage_SmallDeviationAdmittedIfNetPositive(t *testing.T) {
	// 51+50=101: gross $1.00, fees maker $0.875. No hay umbral mínimo de
	// desviación: con 1pp y neto positivo también se admite.
	m := arbMarket(51, 53, 50, 52, 5)
	d := NewArbitrageDetector()
	opp, ok := d.AnalyzeMarket(m, scanTime)
	require.True(t, ok)
	assert.InDelta(t, 0.125, opp.NetProfit, 1e-9)
}

func TestArbitrage_RejectsExpiredAndUndated(t *testing.T) {
	d := NewArbitrageDetector()

	expired := arbMarket(52, 54, 50, 52, -1)
	_, ok := d.AnalyzeMarket(expired, scanTime)
	assert.False(t, ok, "mercado expirado")

	undated := arbMarket(52, 54, 50, 52, 5)
	undated.ResolutionDate = time.Time{}
	_, ok = d.AnalyzeMarket(undated, scanTime)
	assert.False(t, ok, "mercado sin fecha de resolución")
}

func TestArbitrage_FindOpportunities_RanksByProfitPerDay(t *testing.T) {
	near := arbMarket(53, 55, 51, 53, 1)
	near.Ticker = "NEAR"
	far := arbMarket(53, 55, 51, 53, 30)
	far.Ticker = "FAR"
	broken := domain.Market{Ticker: "BROKEN"} // sin fecha ni precios

	d := NewArbitrageDetector()
	opps := d.FindOpportunities([]domain.Market{far, broken, near}, scanTime)

	require.Len(t, opps, 2, "el mercado malformado se salta sin abortar el batch")
	assert.Equal(t, "NEAR", opps[0].Ticker, "misma desviación, menos días → más profit/día")
	assert.Equal(t, "FAR", opps[1].Ticker)
}
