package ports

import (
	"context"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// ScanReport agrupa todo lo que produce un ciclo de escaneo. Markets es el
// snapshot escaneado; lo consume el simulador de paper trading para marcar
// precios y liquidar resoluciones sin repetir el fetch.
type ScanReport struct {
	Markets    []domain.Market
	Analyses   []domain.OpportunityAnalysis
	Arbitrages []domain.ArbitrageOpportunity
	Trades     []domain.TradeOpportunity
}

// Notifier presenta los resultados de un scan al usuario.
type Notifier interface {
	// Notify muestra el reporte del ciclo (tablas en la implementación de consola).
	Notify(ctx context.Context, report ScanReport) error
}
