package kalshi

// DTOs raw del API de Kalshi. Solo se usan dentro de este paquete; la
// conversión a domain entities se hace en mapping.go.

// marketsResponse es la respuesta paginada de GET /markets.
type marketsResponse struct {
	Markets []rawMarket `json:"markets"`
	Cursor  string      `json:"cursor"`
}

// rawMarket es un mercado binario tal como lo devuelve el API.
// Kalshi ya cotiza en centavos enteros [1,99].
type rawMarket struct {
	Ticker         string  `json:"ticker"`
	EventTicker    string  `json:"event_ticker"`
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	Status         string  `json:"status"`
	CloseTime      string  `json:"close_time"`
	ExpirationTime string  `json:"expiration_time"`
	YesBid         int     `json:"yes_bid"`
	YesAsk         int     `json:"yes_ask"`
	NoBid          int     `json:"no_bid"`
	NoAsk          int     `json:"no_ask"`
	LastPrice      int     `json:"last_price"`
	Volume         float64 `json:"volume"`
	Liquidity      float64 `json:"liquidity"`
	OpenInterest   float64 `json:"open_interest"`
}

// orderBookResponse es la respuesta de GET /markets/{ticker}/orderbook.
type orderBookResponse struct {
	OrderBook rawOrderBook `json:"orderbook"`
}

// rawOrderBook contiene solo bids por lado: [precio, contratos]. Los asks
// del lado contrario se derivan por complemento.
type rawOrderBook struct {
	Yes [][2]int `json:"yes"`
	No  [][2]int `json:"no"`
}
