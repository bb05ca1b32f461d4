package scanner

import (
	"github.com/alejandrodnm/edgescan/internal/domain"
)

// PortfolioConfig controla el sizing Kelly a nivel de cartera.
type PortfolioConfig struct {
	// KellyFraction escala la fracción de Kelly de cada oportunidad
	// (0.5 = half Kelly, lo habitual para amortiguar varianza).
	KellyFraction float64
	// MaxPositionPct es el máximo de bankroll por posición.
	MaxPositionPct float64
}

// DefaultPortfolioConfig devuelve half-Kelly con tope del 10% por posición.
func DefaultPortfolioConfig() PortfolioConfig {
	return PortfolioConfig{
		KellyFraction:  0.5,
		MaxPositionPct: 0.10,
	}
}

// PortfolioPosition es el sizing recomendado para una oportunidad.
type PortfolioPosition struct {
	Ticker        string
	Side          domain.Side
	Contracts     int
	Price         int // centavos
	TotalCost     float64
	KellyPct      float64 // fracción efectiva tras escalar y capar, en %
	ExpectedValue float64
	Edge          float64
}

// AllocatePortfolio convierte las oportunidades aceptadas en posiciones:
// escala el Kelly de cada una por la fracción global, lo capa al máximo por
// posición, lo convierte a contratos y lo capa a la cantidad disponible.
// Las posiciones que quedan en 0 contratos se descartan.
func AllocatePortfolio(opps []domain.OpportunityAnalysis, bankroll float64, cfg PortfolioConfig) map[string]PortfolioPosition {
	if cfg.KellyFraction <= 0 {
		cfg.KellyFraction = 0.5
	}
	if cfg.MaxPositionPct <= 0 {
		cfg.MaxPositionPct = 0.10
	}

	positions := make(map[string]PortfolioPosition)
	for _, opp := range opps {
		kelly := opp.KellyFraction * cfg.KellyFraction
		if kelly > cfg.MaxPositionPct {
			kelly = cfg.MaxPositionPct
		}

		if opp.RecommendedPrice <= 0 {
			continue
		}
		// El bankroll va en dólares y el precio en centavos.
		unitCost := float64(opp.RecommendedPrice) / 100
		contracts := int(bankroll * kelly / unitCost)
		if contracts > opp.AvailableQuantity {
			contracts = opp.AvailableQuantity
		}
		if contracts <= 0 {
			continue
		}

		positions[opp.Ticker] = PortfolioPosition{
			Ticker:        opp.Ticker,
			Side:          opp.Side,
			Contracts:     contracts,
			Price:         opp.RecommendedPrice,
			TotalCost:     float64(contracts) * unitCost,
			KellyPct:      kelly * 100,
			ExpectedValue: opp.ExpectedValue,
			Edge:          opp.Edge,
		}
	}
	return positions
}
