package polymarket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

func sampleGammaMarket() gammaMarket {
	return gammaMarket{
		ID:           "501234",
		Slug:         "fed-cuts-rates-september",
		Question:     "Will the Fed cut rates in September?",
		Category:     "Economics",
		Active:       true,
		Closed:       false,
		EndDate:      "2026-09-18T20:00:00Z",
		Volume:       "125000.5",
		Liquidity:    "48000",
		BestBid:      "0.62",
		BestAsk:      "0.64",
		Outcomes:     `["Yes","No"]`,
		ClobTokenIDs: `["111222333","444555666"]`,
	}
}

func TestMapGammaMarket(t *testing.T) {
	m, pair, ok := mapGammaMarket(sampleGammaMarket())
	require.True(t, ok)

	assert.Equal(t, "fed-cuts-rates-september", m.Ticker)
	assert.Equal(t, domain.PlatformPolymarket, m.Platform)
	assert.Equal(t, "Economics", m.Category)
	assert.Equal(t, 62, m.YesBid)
	assert.Equal(t, 64, m.YesAsk)
	// Lado NO por complemento: bid NO = 100−ask YES.
	assert.Equal(t, 36, m.NoBid)
	assert.Equal(t, 38, m.NoAsk)
	assert.InDelta(t, 125000.5, m.Volume, 0.001)
	assert.Equal(t, time.Date(2026, 9, 18, 20, 0, 0, 0, time.UTC), m.ResolutionDate)
	assert.Contains(t, m.URL, "fed-cuts-rates-september")

	assert.Equal(t, "111222333", pair.yes)
	assert.Equal(t, "444555666", pair.no)
}

func TestMapGammaMarket_RejectsNonBinary(t *testing.T) {
	gm := sampleGammaMarket()
	gm.Outcomes = `["Trump","Harris","Other"]`
	_, _, ok := mapGammaMarket(gm)
	assert.False(t, ok)
}

func TestMapGammaMarket_RejectsClosed(t *testing.T) {
	gm := sampleGammaMarket()
	gm.Closed = true
	_, _, ok := mapGammaMarket(gm)
	assert.False(t, ok)
}

func TestMapGammaMarket_RejectsMissingTokens(t *testing.T) {
	gm := sampleGammaMarket()
	gm.ClobTokenIDs = `[]`
	_, _, ok := mapGammaMarket(gm)
	assert.False(t, ok)
}

func TestParseEndDateLayouts(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2026-09-18T20:00:00Z", time.Date(2026, 9, 18, 20, 0, 0, 0, time.UTC)},
		{"2026-09-18T20:00:00.000Z", time.Date(2026, 9, 18, 20, 0, 0, 0, time.UTC)},
		{"2026-09-18", time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"not-a-date", time.Time{}},
	}
	for _, tc := range cases {
		assert.True(t, parseEndDate(tc.raw).Equal(tc.want), "raw=%q", tc.raw)
	}
}

func TestPriceToCents(t *testing.T) {
	assert.Equal(t, 62, priceToCents("0.62"))
	assert.Equal(t, 1, priceToCents("0.005"))
	assert.Equal(t, 0, priceToCents("0"))
	assert.Equal(t, 100, priceToCents("1"))
	assert.Equal(t, 0, priceToCents(""))
}

func TestMapLevels(t *testing.T) {
	levels := mapLevels([]bookLevel{
		{Price: "0.52", Size: "1500.00"},
		{Price: "0.51", Size: "250.7"},
		{Price: "0", Size: "100"},    // sin precio
		{Price: "0.50", Size: "0.4"}, // trunca a 0 contratos
	})
	require.Len(t, levels, 2)
	assert.Equal(t, domain.Level{Price: 52, Quantity: 1500}, levels[0])
	assert.Equal(t, domain.Level{Price: 51, Quantity: 250}, levels[1])
}
