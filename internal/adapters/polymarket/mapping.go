package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// endDateLayouts son los formatos de fecha que devuelve Gamma según el
// mercado. Se prueban en orden.
var endDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

// mapGammaMarket convierte un gammaMarket en un domain.Market más los
// token IDs del CLOB. ok=false si el mercado no es binario Yes/No o le
// faltan los tokens.
func mapGammaMarket(gm gammaMarket) (domain.Market, tokenPair, bool) {
	if !gm.Active || gm.Closed {
		return domain.Market{}, tokenPair{}, false
	}
	if !isBinaryYesNo(gm.Outcomes) {
		return domain.Market{}, tokenPair{}, false
	}

	pair, ok := parseTokenPair(gm.ClobTokenIDs)
	if !ok {
		return domain.Market{}, tokenPair{}, false
	}

	yesBid := priceToCents(gm.BestBid)
	yesAsk := priceToCents(gm.BestAsk)

	m := domain.Market{
		Ticker:         gm.Slug,
		Platform:       domain.PlatformPolymarket,
		Title:          gm.Question,
		Category:       gm.Category,
		ResolutionDate: parseEndDate(gm.EndDate),
		YesBid:         yesBid,
		YesAsk:         yesAsk,
		// El lado NO es el complemento del YES: el mejor bid NO es quien
		// vende YES, y viceversa.
		NoBid:       complement(yesAsk),
		NoAsk:       complement(yesBid),
		Volume:      numberToFloat(gm.Volume),
		Liquidity:   numberToFloat(gm.Liquidity),
		URL:         "https://polymarket.com/event/" + gm.Slug,
		LastUpdated: time.Now().UTC(),
	}
	return m, pair, true
}

// isBinaryYesNo comprueba que los outcomes sean exactamente Yes/No.
func isBinaryYesNo(raw string) bool {
	var outcomes []string
	if err := json.Unmarshal([]byte(raw), &outcomes); err != nil {
		return false
	}
	if len(outcomes) != 2 {
		return false
	}
	return strings.EqualFold(outcomes[0], "yes") && strings.EqualFold(outcomes[1], "no")
}

// parseTokenPair extrae los dos token IDs del string JSON de Gamma.
// El orden sigue al de outcomes: primero YES, luego NO.
func parseTokenPair(raw string) (tokenPair, bool) {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return tokenPair{}, false
	}
	if len(ids) != 2 || ids[0] == "" || ids[1] == "" {
		return tokenPair{}, false
	}
	return tokenPair{yes: ids[0], no: ids[1]}, true
}

func parseEndDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range endDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// priceToCents convierte un precio Polymarket (fracción 0-1) a centavos
// enteros. 0 significa sin cotización.
func priceToCents(n json.Number) int {
	f, err := n.Float64()
	if err != nil || f <= 0 || f >= 1 {
		// 0 y 1 exactos son libros vacíos o resueltos; no hay quote útil.
		if f == 1 {
			return 100
		}
		return 0
	}
	return int(f*100 + 0.5)
}

// priceStringToCents convierte un precio decimal en string ("0.52") a
// centavos.
func priceStringToCents(s string) int {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f*100 + 0.5)
}

// sizeStringToInt trunca un tamaño decimal ("1500.00") a contratos enteros.
func sizeStringToInt(s string) int {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}

// complement devuelve 100−p, o 0 si no hay precio.
func complement(p int) int {
	if p <= 0 || p >= 100 {
		return 0
	}
	return 100 - p
}

func numberToFloat(n json.Number) float64 {
	f, _ := n.Float64()
	return f
}
