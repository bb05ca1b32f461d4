package domain

// fees.go — modelo de fees por tramos de precio.
//
// El fee sube hacia los 50¢ y baja hacia los extremos, simétrico alrededor
// del centro. Las órdenes maker (limit en reposo) pagan la mitad que las
// taker. Es una aproximación del schedule real del exchange, suficiente
// para decidir si una oportunidad sobrevive a los fees.

// MakerFeeMultiplier es el descuento de las órdenes maker sobre el fee base.
const MakerFeeMultiplier = 0.5

// feeBand es un tramo semiabierto [Lo, Hi) de precios en centavos.
type feeBand struct {
	lo, hi int
	rate   float64
}

// Tramos ordenados; el último cubre [95,100] inclusive.
var feeSchedule = []feeBand{
	{0, 5, 0.01},
	{5, 10, 0.015},
	{10, 20, 0.02},
	{20, 30, 0.025},
	{30, 40, 0.03},
	{40, 50, 0.035},
	{50, 60, 0.035},
	{60, 70, 0.03},
	{70, 80, 0.025},
	{80, 90, 0.02},
	{90, 95, 0.015},
	{95, 101, 0.01},
}

// FeeRate devuelve la tasa de fee para un contrato al precio dado.
// El precio se clampa a [0,100] antes del lookup; si por lo que sea no cae
// en ningún tramo, devuelve la tasa máxima.
func FeeRate(priceCents int, isMaker bool) float64 {
	p := priceCents
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	rate := 0.035
	for _, band := range feeSchedule {
		if p >= band.lo && p < band.hi {
			rate = band.rate
			break
		}
	}

	if isMaker {
		return rate * MakerFeeMultiplier
	}
	return rate
}

// Fee devuelve el fee total en dólares de un trade:
// (precio/100) × cantidad × tasa.
func Fee(priceCents, quantity int, isMaker bool) float64 {
	totalCost := float64(priceCents) / 100 * float64(quantity)
	return totalCost * FeeRate(priceCents, isMaker)
}

// FeeLeg es una pata de un conjunto de trades a efectos de fees.
type FeeLeg struct {
	Price    int
	Quantity int
}

// NetProfit descuenta del gross profit los fees de todas las patas.
// allMaker indica si todas las patas ejecutan como maker.
func NetProfit(grossProfit float64, legs []FeeLeg, allMaker bool) float64 {
	totalFees := 0.0
	for _, leg := range legs {
		totalFees += Fee(leg.Price, leg.Quantity, allMaker)
	}
	return grossProfit - totalFees
}
