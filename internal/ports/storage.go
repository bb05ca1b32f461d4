package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// MarketFilter acota qué mercados devuelve GetMarkets.
type MarketFilter struct {
	Platform    domain.Platform // "" = todas
	Category    string          // substring, "" = todas
	HasBaseRate *bool           // nil = indiferente
}

// MarketStore persiste mercados, base rates y el histórico de scans.
type MarketStore interface {
	// SaveMarkets hace upsert de los snapshots dados.
	SaveMarkets(ctx context.Context, markets []domain.Market) error

	// GetMarket devuelve un mercado con su base rate adjunto si existe.
	GetMarket(ctx context.Context, ticker string) (domain.Market, bool, error)

	// GetMarkets devuelve los mercados que pasan el filtro, con base rates adjuntos.
	GetMarkets(ctx context.Context, filter MarketFilter) ([]domain.Market, error)

	// SaveBaseRate guarda o sobrescribe el base rate de un mercado.
	// La sobrescritura es el único camino de mutación (re-research explícito).
	SaveBaseRate(ctx context.Context, ticker string, br domain.BaseRate) error

	// GetBaseRate devuelve el base rate almacenado para un mercado.
	GetBaseRate(ctx context.Context, ticker string) (domain.BaseRate, bool, error)

	// SaveScan persiste los resultados de un ciclo de escaneo.
	SaveScan(ctx context.Context, at time.Time, analyses []domain.OpportunityAnalysis, arbs []domain.ArbitrageOpportunity, trades []domain.TradeOpportunity) error

	// Close cierra la conexión limpiamente.
	Close() error
}
