package polymarket

import "encoding/json"

// gammaMarket es el DTO de un mercado en la Gamma API. Los campos
// numéricos llegan a veces como string y a veces como número, de ahí
// json.Number.
type gammaMarket struct {
	ID            string      `json:"id"`
	Slug          string      `json:"slug"`
	Question      string      `json:"question"`
	Category      string      `json:"category"`
	Active        bool        `json:"active"`
	Closed        bool        `json:"closed"`
	EndDate       string      `json:"endDate"`
	Volume        json.Number `json:"volumeNum"`
	Liquidity     json.Number `json:"liquidityNum"`
	BestBid       json.Number `json:"bestBid"`
	BestAsk       json.Number `json:"bestAsk"`
	Outcomes      string      `json:"outcomes"`      // JSON string: ["Yes","No"]
	ClobTokenIDs  string      `json:"clobTokenIds"`  // JSON string: ["123...","456..."]
	OutcomePrices string      `json:"outcomePrices"` // JSON string: ["0.52","0.48"]
}

// bookResponse es la respuesta del CLOB GET /book.
type bookResponse struct {
	Market string      `json:"market"`
	Bids   []bookLevel `json:"bids"`
	Asks   []bookLevel `json:"asks"`
}

// bookLevel es un nivel del libro; el CLOB devuelve precio y tamaño
// como strings decimales ("0.52", "1500.00").
type bookLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}
