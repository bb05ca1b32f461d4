package scanner

import (
	"github.com/alejandrodnm/edgescan/internal/domain"
)

const (
	// defaultSpreadQuantity es la cantidad conservadora cuando no hay
	// profundidad de book disponible.
	defaultSpreadQuantity = 100

	// defaultMinProfitCents es el spread mínimo para considerar un
	// crossed book.
	defaultMinProfitCents = 2
)

// SpreadConfig controla el spread scanner.
type SpreadConfig struct {
	// MinProfitCents es el spread mínimo (bid - ask) en centavos.
	MinProfitCents int
	// MaxPositionSize limita los contratos por trade.
	MaxPositionSize int
}

// DefaultSpreadConfig devuelve la configuración conservadora por defecto.
func DefaultSpreadConfig() SpreadConfig {
	return SpreadConfig{
		MinProfitCents:  defaultMinProfitCents,
		MaxPositionSize: 1000,
	}
}

// SpreadScanner busca crossed books: un bid por encima del ask del mismo
// lado permite comprar al ask y vender al bid al instante. Ambas patas
// tienen que ejecutar inmediatamente, así que los fees son taker en las dos.
type SpreadScanner struct {
	cfg SpreadConfig
}

// NewSpreadScanner crea un scanner con la configuración dada.
func NewSpreadScanner(cfg SpreadConfig) *SpreadScanner {
	if cfg.MinProfitCents <= 0 {
		cfg.MinProfitCents = defaultMinProfitCents
	}
	if cfg.MaxPositionSize <= 0 {
		cfg.MaxPositionSize = 1000
	}
	return &SpreadScanner{cfg: cfg}
}

// AnalyzeMarket escanea los dos lados de un mercado de forma independiente:
// puede salir candidato en YES, en NO, en ambos o en ninguno. Si book no es
// nil, la cantidad se refina con la profundidad del mejor nivel.
func (s *SpreadScanner) AnalyzeMarket(m domain.Market, book *domain.OrderBook) []domain.TradeOpportunity {
	var opps []domain.TradeOpportunity

	if opp, ok := s.analyzeSide(m, domain.SideYes, m.YesBid, m.YesAsk, book); ok {
		opps = append(opps, opp)
	}
	if opp, ok := s.analyzeSide(m, domain.SideNo, m.NoBid, m.NoAsk, book); ok {
		opps = append(opps, opp)
	}
	return opps
}

func (s *SpreadScanner) analyzeSide(m domain.Market, side domain.Side, bid, ask int, book *domain.OrderBook) (domain.TradeOpportunity, bool) {
	if bid <= 0 || ask <= 0 {
		return domain.TradeOpportunity{}, false
	}

	spread := bid - ask
	if spread < s.cfg.MinProfitCents {
		return domain.TradeOpportunity{}, false
	}

	quantity := min(defaultSpreadQuantity, s.cfg.MaxPositionSize)
	if book != nil {
		if depth, ok := s.bookDepth(book, side); ok {
			quantity = min(depth, s.cfg.MaxPositionSize)
		}
	}
	if quantity <= 0 {
		return domain.TradeOpportunity{}, false
	}

	grossProfit := float64(spread) / 100 * float64(quantity)
	buyFee := domain.Fee(ask, quantity, false)
	sellFee := domain.Fee(bid, quantity, false)
	netProfit := grossProfit - buyFee - sellFee

	if netProfit <= 0 {
		return domain.TradeOpportunity{}, false
	}

	return domain.TradeOpportunity{
		Ticker:      m.Ticker,
		Title:       m.Title,
		Side:        side,
		BuyPrice:    ask,
		SellPrice:   bid,
		Quantity:    quantity,
		Spread:      spread,
		GrossProfit: grossProfit,
		NetProfit:   netProfit,
	}, true
}

// bookDepth devuelve los contratos ejecutables al mejor nivel: el mínimo
// entre la profundidad del best ask y la del best bid.
func (s *SpreadScanner) bookDepth(book *domain.OrderBook, side domain.Side) (int, bool) {
	var askLvl, bidLvl domain.Level
	var okAsk, okBid bool
	if side == domain.SideYes {
		askLvl, okAsk = book.BestYesAsk()
		bidLvl, okBid = book.BestYesBid()
	} else {
		askLvl, okAsk = book.BestNoAsk()
		bidLvl, okBid = book.BestNoBid()
	}
	if !okAsk || !okBid {
		return 0, false
	}
	return min(askLvl.Quantity, bidLvl.Quantity), true
}
