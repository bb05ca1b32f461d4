package domain

import "time"

// Platform identifica el exchange de origen del mercado.
type Platform string

const (
	PlatformKalshi     Platform = "kalshi"
	PlatformPolymarket Platform = "polymarket"
)

// Side es el lado de un mercado binario.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// Opposite devuelve el lado contrario.
func (s Side) Opposite() Side {
	if s == SideYes {
		return SideNo
	}
	return SideYes
}

// Market es el snapshot normalizado de un mercado de predicción binario.
// Los adapters lo construyen una vez en el borde; el resto del motor solo
// consume este tipo, nunca payloads crudos.
//
// Los precios van en centavos enteros [0,100]. Un 0 significa "sin
// cotización" en ese lado del book. Bid > ask no es un error: es la señal
// de crossed book que busca el spread scanner.
type Market struct {
	Ticker         string    `json:"ticker"`
	Platform       Platform  `json:"platform"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	ResolutionDate time.Time `json:"resolution_date"`

	YesBid int `json:"yes_bid"`
	YesAsk int `json:"yes_ask"`
	NoBid  int `json:"no_bid"`
	NoAsk  int `json:"no_ask"`

	Volume    float64 `json:"volume"`
	Liquidity float64 `json:"liquidity"`
	URL       string  `json:"url"`

	Book     *OrderBook `json:"order_book,omitempty"`
	BaseRate *BaseRate  `json:"base_rate,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}

// YesPrice devuelve el precio de referencia del lado YES: el ask si existe,
// si no el bid. 0 = sin precio.
func (m Market) YesPrice() int {
	if m.YesAsk > 0 {
		return m.YesAsk
	}
	return m.YesBid
}

// NoPrice devuelve el precio de referencia del lado NO.
func (m Market) NoPrice() int {
	if m.NoAsk > 0 {
		return m.NoAsk
	}
	return m.NoBid
}

// MarketProbability devuelve la probabilidad implícita del precio YES.
func (m Market) MarketProbability() float64 {
	return float64(m.YesPrice()) / 100
}

// DaysToExpiration devuelve los días hasta la resolución del mercado.
// Negativo si ya expiró, 0 si no hay fecha.
func (m Market) DaysToExpiration(now time.Time) float64 {
	if m.ResolutionDate.IsZero() {
		return 0
	}
	return m.ResolutionDate.Sub(now).Hours() / 24
}

// FairProbability devuelve la probabilidad justa derivada del base rate.
// ok=false si el mercado no tiene base rate.
func (m Market) FairProbability(now time.Time) (float64, bool) {
	if m.BaseRate == nil {
		return 0, false
	}
	return m.BaseRate.FairProbability(m.ResolutionDate, now), true
}

// TruncateTitle devuelve el título truncado a maxLen caracteres.
// Si está vacío usa el ticker como fallback.
func TruncateTitle(title, ticker string, maxLen int) string {
	t := title
	if t == "" {
		t = ticker
	}
	if len(t) > maxLen && maxLen > 3 {
		t = t[:maxLen-3] + "..."
	}
	return t
}
