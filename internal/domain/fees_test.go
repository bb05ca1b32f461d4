package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeRate_Schedule(t *testing.T) {
	tests := []struct {
		price int
		want  float64
	}{
		{0, 0.01},
		{4, 0.01},
		{5, 0.015},
		{12, 0.02},
		{25, 0.025},
		{35, 0.03},
		{42, 0.035},
		{50, 0.035},
		{65, 0.03},
		{75, 0.025},
		{85, 0.02},
		{92, 0.015},
		{95, 0.01},
		{100, 0.01},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FeeRate(tt.price, false), "price=%d", tt.price)
	}
}

func TestFeeRate_Symmetric(t *testing.T) {
	// El schedule es simétrico alrededor de 50¢ en los límites de tramo.
	for _, p := range []int{0, 5, 10, 20, 30, 40, 45, 55} {
		assert.Equal(t, FeeRate(p, false), FeeRate(100-p, false), "p=%d vs %d", p, 100-p)
	}
}

func TestFeeRate_MakerIsHalf(t *testing.T) {
	for p := 0; p <= 100; p += 7 {
		assert.InDelta(t, FeeRate(p, false)*0.5, FeeRate(p, true), 1e-12, "p=%d", p)
	}
}

func TestFeeRate_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, FeeRate(0, false), FeeRate(-20, false))
	assert.Equal(t, FeeRate(100, false), FeeRate(250, false))
}

func TestFee_Dollars(t *testing.T) {
	// 50¢ × 100 contratos = $50 de coste, al 3.5% = $1.75
	assert.InDelta(t, 1.75, Fee(50, 100, false), 1e-9)
	// maker paga la mitad
	assert.InDelta(t, 0.875, Fee(50, 100, true), 1e-9)
}

func TestNetProfit_SubtractsAllLegs(t *testing.T) {
	legs := []FeeLeg{
		{Price: 52, Quantity: 51},
		{Price: 50, Quantity: 49},
	}
	// fees maker: 0.52*51*0.0175 + 0.50*49*0.0175
	wantFees := 0.52*51*0.0175 + 0.50*49*0.0175
	got := NetProfit(2.0, legs, true)
	assert.InDelta(t, 2.0-wantFees, got, 1e-9)
	assert.Greater(t, got, 0.0, "la desviación de 2pp debe sobrevivir a los fees maker")
}
