package domain

import (
	"math"
	"time"
)

// RateUnit es la unidad temporal de un base rate.
type RateUnit string

const (
	PerYear  RateUnit = "per_year"
	PerMonth RateUnit = "per_month"
	PerWeek  RateUnit = "per_week"
	PerDay   RateUnit = "per_day"
	PerEvent RateUnit = "per_event" // p.ej. por rueda de prensa, por partido
	Absolute RateUnit = "absolute"  // probabilidad única, no depende del tiempo
)

// Duración media de cada periodo en días.
const (
	daysPerYear  = 365.25
	daysPerMonth = 30.44
	daysPerWeek  = 7
)

// BaseRate es la frecuencia histórica de un evento, producida por el agente
// de research y persistida tal cual. Inmutable una vez calculada, salvo
// sobrescritura explícita al re-investigar el mercado.
//
// Rate se interpreta como hazard por periodo; Reasoning y Sources son
// procedencia, no entran en ningún cálculo. Confidence es solo orientativo.
type BaseRate struct {
	Rate            float64   `json:"rate"`
	Unit            RateUnit  `json:"unit"`
	EventsPerPeriod int       `json:"events_per_period,omitempty"` // requerido para per_event; 0 = desconocido
	Reasoning       string    `json:"reasoning"`
	Sources         []string  `json:"sources,omitempty"`
	Confidence      float64   `json:"confidence,omitempty"`
	LastUpdated     time.Time `json:"last_updated"`
}

// FairProbability convierte el base rate en la probabilidad justa de que el
// evento ocurra antes de resolution, vista desde now.
//
// Aplica la fórmula compuesta de no-ocurrencia: P = 1 - (1 - rate)^periodos.
// Para Absolute devuelve Rate sin ajuste. Si el mercado ya resolvió
// (resolution <= now) devuelve Rate sin extrapolar.
func (br BaseRate) FairProbability(resolution, now time.Time) float64 {
	if br.Unit == Absolute {
		return br.Rate
	}
	if !resolution.After(now) {
		return br.Rate
	}

	daysRemaining := resolution.Sub(now).Hours() / 24

	var periods float64
	switch br.Unit {
	case PerYear:
		periods = daysRemaining / daysPerYear
	case PerMonth:
		periods = daysRemaining / daysPerMonth
	case PerWeek:
		periods = daysRemaining / daysPerWeek
	case PerDay:
		periods = daysRemaining
	case PerEvent:
		if br.EventsPerPeriod > 0 {
			periods = float64(br.EventsPerPeriod) * (daysRemaining / daysPerYear)
		} else {
			periods = 1 // sin estimación de eventos: asumir un único evento
		}
	default:
		return br.Rate
	}

	if periods <= 0 {
		return 0
	}
	return 1 - math.Pow(1-br.Rate, periods)
}
