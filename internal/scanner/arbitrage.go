package scanner

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// baseQuantity es la cantidad base a repartir entre las patas del arbitraje.
// Fija en 100 contratos pendiente de sizing por liquidez.
const baseQuantity = 100

// ArbitrageDetector busca desviaciones de la paridad YES+NO=100 en un
// mercado binario y sintetiza el conjunto balanceado de trades que las
// captura.
//
// El filtro de admisión es únicamente el profit neto tras fees: no hay
// umbral mínimo de desviación, para no descartar desviaciones pequeñas
// pero rentables.
type ArbitrageDetector struct{}

// NewArbitrageDetector crea un detector.
func NewArbitrageDetector() *ArbitrageDetector {
	return &ArbitrageDetector{}
}

// contractQuote es una cotización elegida para una pata.
type contractQuote struct {
	side  domain.Side
	price int
	prob  float64
}

// AnalyzeMarket analiza un único mercado. ok=false = sin oportunidad
// (datos incompletos, expirado, o el neto no supera los fees).
func (d *ArbitrageDetector) AnalyzeMarket(m domain.Market, now time.Time) (domain.ArbitrageOpportunity, bool) {
	if m.ResolutionDate.IsZero() {
		return domain.ArbitrageOpportunity{}, false
	}
	days := m.DaysToExpiration(now)
	if days <= 0 {
		return domain.ArbitrageOpportunity{}, false
	}

	quotes, totalProb, executable := selectQuotes(m)
	if len(quotes) == 0 {
		return domain.ArbitrageOpportunity{}, false
	}

	deviation := math.Abs(totalProb-1) * 100

	// Si total > 1 los contratos están sobrevalorados: vender ambos lados
	// y cobrar más de $1 por set. Si total < 1, comprar ambos lados por
	// menos de $1 y cobrar $1 al resolver.
	action := domain.ActionBuy
	if totalProb > 1 {
		action = domain.ActionSell
	}

	var legs []domain.ArbitrageLeg
	for _, q := range quotes {
		// Reparto proporcional a la probabilidad normalizada; el
		// truncado a entero descarta patas que redondean a cero.
		quantity := int(baseQuantity * q.prob / totalProb)
		if quantity <= 0 {
			continue
		}
		legs = append(legs, domain.ArbitrageLeg{
			Ticker:   m.Ticker,
			Side:     q.side,
			Action:   action,
			Price:    q.price,
			Quantity: quantity,
		})
	}
	if len(legs) == 0 {
		return domain.ArbitrageOpportunity{}, false
	}

	// Cada set de contratos vale $1 a la resolución, así que la
	// desviación por set × cantidad base es el gross en dólares.
	grossProfit := math.Abs(totalProb-1) * baseQuantity

	feeLegs := make([]domain.FeeLeg, len(legs))
	for i, leg := range legs {
		feeLegs[i] = domain.FeeLeg{Price: leg.Price, Quantity: leg.Quantity}
	}
	// El detector propone limit orders en reposo: fees maker.
	netProfit := domain.NetProfit(grossProfit, feeLegs, true)

	if netProfit <= 0 {
		return domain.ArbitrageOpportunity{}, false
	}

	opp := domain.NewArbitrageOpportunity(
		m.Ticker, m.Title,
		totalProb, deviation,
		m.ResolutionDate,
		legs,
		grossProfit, netProfit, days,
	)
	opp.Executable = executable
	return opp, true
}

// FindOpportunities escanea un batch de mercados. Cada mercado se procesa
// de forma aislada: un mercado malformado se salta y no aborta el batch.
// Devuelve las oportunidades ordenadas por profit por día descendente.
func (d *ArbitrageDetector) FindOpportunities(markets []domain.Market, now time.Time) []domain.ArbitrageOpportunity {
	var opps []domain.ArbitrageOpportunity
	for _, m := range markets {
		opp, ok := d.AnalyzeMarket(m, now)
		if !ok {
			slog.Debug("arbitrage: no opportunity", "ticker", m.Ticker)
			continue
		}
		opps = append(opps, opp)
	}

	sort.Slice(opps, func(i, j int) bool {
		return opps[i].ProfitPerDay > opps[j].ProfitPerDay
	})
	return opps
}

// selectQuotes elige las cotizaciones a usar y devuelve la probabilidad
// total y si la oportunidad es ejecutable.
//
// Preferencia: sobrevaloración vendible (bids, ambos lados vendibles a la
// vez), luego infravaloración comprable (asks). Como último recurso usa el
// precio medio bid/ask de cada lado — solo sirve para reportar la
// desviación, no es ejecutable.
func selectQuotes(m domain.Market) (quotes []contractQuote, totalProb float64, executable bool) {
	if m.YesBid > 0 && m.NoBid > 0 {
		total := float64(m.YesBid+m.NoBid) / 100
		if total > 1 {
			return []contractQuote{
				{side: domain.SideYes, price: m.YesBid, prob: float64(m.YesBid) / 100},
				{side: domain.SideNo, price: m.NoBid, prob: float64(m.NoBid) / 100},
			}, total, true
		}
	}

	if m.YesAsk > 0 && m.NoAsk > 0 {
		total := float64(m.YesAsk+m.NoAsk) / 100
		if total < 1 {
			return []contractQuote{
				{side: domain.SideYes, price: m.YesAsk, prob: float64(m.YesAsk) / 100},
				{side: domain.SideNo, price: m.NoAsk, prob: float64(m.NoAsk) / 100},
			}, total, true
		}
	}

	yesMid, okYes := midPrice(m.YesBid, m.YesAsk)
	noMid, okNo := midPrice(m.NoBid, m.NoAsk)
	if !okYes || !okNo {
		return nil, 0, false
	}
	total := (yesMid + noMid) / 100
	return []contractQuote{
		{side: domain.SideYes, price: int(yesMid), prob: yesMid / 100},
		{side: domain.SideNo, price: int(noMid), prob: noMid / 100},
	}, total, false
}

// midPrice devuelve el precio medio de un lado con las cotizaciones que
// haya: media de bid y ask, o el único presente.
func midPrice(bid, ask int) (float64, bool) {
	switch {
	case bid > 0 && ask > 0:
		return float64(bid+ask) / 2, true
	case bid > 0:
		return float64(bid), true
	case ask > 0:
		return float64(ask), true
	default:
		return 0, false
	}
}
