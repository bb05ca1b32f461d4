package scanner

import (
	"sort"
	"strings"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// FilterCriteria acota qué oportunidades pasan el corte.
type FilterCriteria struct {
	// MinEdge descarta oportunidades con edge menor (fracción, 0.02 = 2pp).
	MinEdge float64
	// MinEV descarta multiplicadores de EV menores.
	MinEV float64
	// MinFairProb / MaxFairProb acotan la probabilidad justa del lado.
	MinFairProb float64
	MaxFairProb float64
	// MinQuantity descarta oportunidades sin contratos suficientes al precio.
	MinQuantity int
	// MinKelly / MaxKelly acotan la fracción de Kelly.
	MinKelly float64
	MaxKelly float64
	// Platforms es la allow-list de plataformas; vacía = todas.
	Platforms []domain.Platform
	// Categories es la allow-list de categorías (match por substring,
	// case-insensitive); vacía = todas.
	Categories []string
}

// DefaultFilterCriteria devuelve los umbrales conservadores por defecto.
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{
		MinEdge:     0.02,
		MinEV:       1.05,
		MinFairProb: 0.0,
		MaxFairProb: 1.0,
		MinQuantity: 100,
		MinKelly:    0.001,
		MaxKelly:    1.0,
	}
}

// Filter aplica los criterios configurados sobre un batch de análisis.
type Filter struct {
	criteria FilterCriteria
}

// NewFilter crea un Filter.
func NewFilter(criteria FilterCriteria) *Filter {
	return &Filter{criteria: criteria}
}

// MatchesMarket aplica los filtros de plataforma y categoría, que acotan
// qué mercados vale la pena analizar.
func (f *Filter) MatchesMarket(m domain.Market) bool {
	if len(f.criteria.Platforms) > 0 {
		found := false
		for _, p := range f.criteria.Platforms {
			if m.Platform == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.criteria.Categories) > 0 {
		found := false
		for _, c := range f.criteria.Categories {
			if strings.Contains(strings.ToLower(m.Category), strings.ToLower(c)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Apply devuelve los análisis que superan todos los umbrales, ordenados por
// EV descendente.
func (f *Filter) Apply(opps []domain.OpportunityAnalysis) []domain.OpportunityAnalysis {
	result := make([]domain.OpportunityAnalysis, 0, len(opps))
	for _, opp := range opps {
		if f.passes(opp) {
			result = append(result, opp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ExpectedValue > result[j].ExpectedValue
	})
	return result
}

func (f *Filter) passes(opp domain.OpportunityAnalysis) bool {
	c := f.criteria
	if opp.Edge < c.MinEdge {
		return false
	}
	if opp.ExpectedValue < c.MinEV {
		return false
	}
	if c.MaxFairProb > 0 && opp.FairProbability > c.MaxFairProb {
		return false
	}
	if opp.FairProbability < c.MinFairProb {
		return false
	}
	if opp.AvailableQuantity < c.MinQuantity {
		return false
	}
	if opp.KellyFraction < c.MinKelly {
		return false
	}
	if c.MaxKelly > 0 && opp.KellyFraction > c.MaxKelly {
		return false
	}
	return true
}
