package domain

import (
	"math"
	"time"
)

// OpportunityAnalysis es el resultado de valorar un lado de un mercado con
// base rate. Se produce nuevo en cada scan y no se muta.
type OpportunityAnalysis struct {
	Ticker         string    `json:"ticker"`
	Platform       Platform  `json:"platform"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	ResolutionDate time.Time `json:"resolution_date"`
	URL            string    `json:"url,omitempty"`

	Side              Side    `json:"side"`
	FairProbability   float64 `json:"fair_probability"`   // prob. de ganar del lado analizado
	MarketProbability float64 `json:"market_probability"` // prob. implícita del precio
	Edge              float64 `json:"edge"`               // fair - market
	ExpectedValue     float64 `json:"expected_value"`     // multiplicador, >1 = EV positivo
	KellyFraction     float64 `json:"kelly_fraction"`
	RecommendedPrice  int     `json:"recommended_price"`  // centavos, precio de la limit order
	AvailableQuantity int     `json:"available_quantity"` // contratos disponibles a ese precio
}

// AnalysisProjection es la proyección plana y serializable de un análisis,
// con porcentajes redondeados a 2 decimales y el EV a 3.
type AnalysisProjection struct {
	Ticker            string  `json:"ticker"`
	Platform          string  `json:"platform"`
	Title             string  `json:"title"`
	ResolutionDate    string  `json:"resolution_date"`
	Side              string  `json:"side"`
	FairProbability   float64 `json:"fair_probability"`   // porcentaje
	MarketProbability float64 `json:"market_probability"` // porcentaje
	Edge              float64 `json:"edge"`               // puntos porcentuales
	ExpectedValue     float64 `json:"expected_value"`
	KellyFraction     float64 `json:"kelly_fraction"` // porcentaje
	RecommendedPrice  int     `json:"recommended_price"`
	AvailableQuantity int     `json:"available_quantity"`
	URL               string  `json:"url,omitempty"`
}

// Projection devuelve la proyección redondeada para export o display.
func (o OpportunityAnalysis) Projection() AnalysisProjection {
	return AnalysisProjection{
		Ticker:            o.Ticker,
		Platform:          string(o.Platform),
		Title:             o.Title,
		ResolutionDate:    o.ResolutionDate.Format(time.RFC3339),
		Side:              string(o.Side),
		FairProbability:   round2(o.FairProbability * 100),
		MarketProbability: round2(o.MarketProbability * 100),
		Edge:              round2(o.Edge * 100),
		ExpectedValue:     round3(o.ExpectedValue),
		KellyFraction:     round2(o.KellyFraction * 100),
		RecommendedPrice:  o.RecommendedPrice,
		AvailableQuantity: o.AvailableQuantity,
		URL:               o.URL,
	}
}

// TradeAction es la dirección de una pata de arbitraje.
type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// ArbitrageLeg es una pata del conjunto balanceado de trades.
type ArbitrageLeg struct {
	Ticker   string      `json:"ticker"`
	Side     Side        `json:"side"`
	Action   TradeAction `json:"action"`
	Price    int         `json:"price"`
	Quantity int         `json:"quantity"`
}

// ArbitrageOpportunity es una desviación de la paridad YES+NO=100 con el
// conjunto de trades que la captura y el profit neto tras fees.
type ArbitrageOpportunity struct {
	Ticker           string         `json:"ticker"`
	Title            string         `json:"title"`
	TotalProbability float64        `json:"total_probability"` // suma de probabilidades, fracción (1.02 = 102¢)
	Deviation        float64        `json:"deviation"`         // |suma - 1| en puntos porcentuales
	ExpirationDate   time.Time      `json:"expiration_date"`
	Legs             []ArbitrageLeg `json:"legs"`
	GrossProfit      float64        `json:"gross_profit"`
	NetProfit        float64        `json:"net_profit"`
	DaysToExpiration float64        `json:"days_to_expiration"`
	ProfitPerDay     float64        `json:"profit_per_day"`

	// Executable distingue oportunidades accionables (bids u asks reales
	// en ambos lados) de las estimadas con precios medios, que solo
	// sirven para reportar la desviación.
	Executable bool `json:"executable"`
}

// NewArbitrageOpportunity construye la oportunidad derivando ProfitPerDay.
// El suelo de 0.01 días evita dividir por cero en mercados a punto de expirar.
func NewArbitrageOpportunity(
	ticker, title string,
	totalProb, deviation float64,
	expiration time.Time,
	legs []ArbitrageLeg,
	grossProfit, netProfit, daysToExpiration float64,
) ArbitrageOpportunity {
	return ArbitrageOpportunity{
		Ticker:           ticker,
		Title:            title,
		TotalProbability: totalProb,
		Deviation:        deviation,
		ExpirationDate:   expiration,
		Legs:             legs,
		GrossProfit:      grossProfit,
		NetProfit:        netProfit,
		DaysToExpiration: daysToExpiration,
		ProfitPerDay:     netProfit / math.Max(daysToExpiration, 0.01),
	}
}

// TradeOpportunity es un crossed book: comprar al ask y vender al bid del
// mismo lado deja profit instantáneo.
type TradeOpportunity struct {
	Ticker      string  `json:"ticker"`
	Title       string  `json:"title"`
	Side        Side    `json:"side"`
	BuyPrice    int     `json:"buy_price"`  // ask, centavos
	SellPrice   int     `json:"sell_price"` // bid, centavos
	Quantity    int     `json:"quantity"`
	Spread      int     `json:"spread"` // sell - buy
	GrossProfit float64 `json:"gross_profit"`
	NetProfit   float64 `json:"net_profit"`
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
