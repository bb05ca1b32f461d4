package scanner

import (
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// defaultBookQuantity es la cantidad mínima acumulada al buscar el precio
// de limit order en el book.
const defaultBookQuantity = 1000

// Analyzer valora los dos lados de cada mercado con base rate y produce
// OpportunityAnalysis para los que tienen edge positivo y EV > 1.
type Analyzer struct {
	// bookQuantity es la liquidez acumulada que debe tener el nivel
	// elegido como precio recomendado.
	bookQuantity int
}

// NewAnalyzer crea un Analyzer.
func NewAnalyzer(bookQuantity int) *Analyzer {
	if bookQuantity <= 0 {
		bookQuantity = defaultBookQuantity
	}
	return &Analyzer{bookQuantity: bookQuantity}
}

// AnalyzeMarket valora YES y NO de un mercado. Sin base rate no hay
// análisis posible y devuelve nil.
func (a *Analyzer) AnalyzeMarket(m domain.Market, now time.Time) []domain.OpportunityAnalysis {
	fair, ok := m.FairProbability(now)
	if !ok {
		return nil
	}

	var opps []domain.OpportunityAnalysis
	if opp, ok := a.analyzeSide(m, domain.SideYes, fair); ok {
		opps = append(opps, opp)
	}
	if opp, ok := a.analyzeSide(m, domain.SideNo, fair); ok {
		opps = append(opps, opp)
	}
	return opps
}

// analyzeSide valora un lado. ok=false si el precio no da EV/Kelly
// definidos o si no hay edge positivo con EV > 1.
func (a *Analyzer) analyzeSide(m domain.Market, side domain.Side, fair float64) (domain.OpportunityAnalysis, bool) {
	var (
		marketProb float64
		edge       float64
		price      int
		quantity   int
	)

	if side == domain.SideYes {
		marketProb = m.MarketProbability()
		edge = domain.EdgeYes(fair, m.YesPrice())
		price, quantity = a.limitPrice(m, side)
	} else {
		marketProb = 1 - m.MarketProbability()
		edge = domain.EdgeNo(fair, m.YesPrice())
		price, quantity = a.limitPrice(m, side)
	}

	ev, ok := domain.ExpectedValue(fair, price, side)
	if !ok {
		return domain.OpportunityAnalysis{}, false
	}
	kelly, ok := domain.KellyFraction(fair, price, side)
	if !ok {
		return domain.OpportunityAnalysis{}, false
	}

	// Solo lados con edge positivo y EV > 1 son oportunidad.
	if edge <= 0 || ev <= 1.0 {
		return domain.OpportunityAnalysis{}, false
	}

	fairProb := fair
	if side == domain.SideNo {
		fairProb = 1 - fair
	}

	return domain.OpportunityAnalysis{
		Ticker:            m.Ticker,
		Platform:          m.Platform,
		Title:             m.Title,
		Category:          m.Category,
		ResolutionDate:    m.ResolutionDate,
		URL:               m.URL,
		Side:              side,
		FairProbability:   fairProb,
		MarketProbability: marketProb,
		Edge:              edge,
		ExpectedValue:     ev,
		KellyFraction:     kelly,
		RecommendedPrice:  price,
		AvailableQuantity: quantity,
	}, true
}

// limitPrice elige el precio de la limit order y los contratos disponibles.
// Con book usa el mejor ask con liquidez acumulada suficiente; sin book (o
// sin liquidez) cae al precio del snapshot con cantidad 0, que los filtros
// de cantidad mínima descartarán.
func (a *Analyzer) limitPrice(m domain.Market, side domain.Side) (price, quantity int) {
	if m.Book != nil {
		var lvl domain.Level
		var ok bool
		if side == domain.SideYes {
			lvl, ok = m.Book.YesAskForQuantity(a.bookQuantity)
		} else {
			lvl, ok = m.Book.NoAskForQuantity(a.bookQuantity)
		}
		if ok {
			return lvl.Price, lvl.Quantity
		}
	}
	if side == domain.SideYes {
		return m.YesPrice(), 0
	}
	return m.NoPrice(), 0
}

// SummaryStats agrega las métricas de un conjunto de oportunidades para el
// reporte de consola.
type SummaryStats struct {
	Count         int
	AvgEdge       float64
	MaxEdge       float64
	AvgEV         float64
	MaxEV         float64
	AvgKelly      float64
	MaxKelly      float64
	TotalQuantity int
	ByPlatform    map[domain.Platform]int
	BySide        map[domain.Side]int
}

// Summarize calcula las estadísticas agregadas de un batch.
func Summarize(opps []domain.OpportunityAnalysis) SummaryStats {
	stats := SummaryStats{
		ByPlatform: make(map[domain.Platform]int),
		BySide:     make(map[domain.Side]int),
	}
	if len(opps) == 0 {
		return stats
	}

	stats.Count = len(opps)
	for _, o := range opps {
		stats.AvgEdge += o.Edge
		stats.AvgEV += o.ExpectedValue
		stats.AvgKelly += o.KellyFraction
		stats.MaxEdge = max(stats.MaxEdge, o.Edge)
		stats.MaxEV = max(stats.MaxEV, o.ExpectedValue)
		stats.MaxKelly = max(stats.MaxKelly, o.KellyFraction)
		stats.TotalQuantity += o.AvailableQuantity
		stats.ByPlatform[o.Platform]++
		stats.BySide[o.Side]++
	}
	n := float64(len(opps))
	stats.AvgEdge /= n
	stats.AvgEV /= n
	stats.AvgKelly /= n
	return stats
}
