package domain

import "sort"

// Level es un nivel de precio en el orderbook: precio en centavos y
// contratos disponibles a ese precio.
type Level struct {
	Price    int `json:"price"`
	Quantity int `json:"quantity"`
}

// OrderBook es el libro de órdenes de un mercado binario: cuatro secuencias
// de niveles, una por lado y dirección. Los asks se recorren de menor a
// mayor precio y los bids de mayor a menor; los helpers ordenan una copia
// antes de recorrer, así que el orden de llegada de la API no importa.
type OrderBook struct {
	YesBids []Level `json:"yes_bids"`
	YesAsks []Level `json:"yes_asks"`
	NoBids  []Level `json:"no_bids"`
	NoAsks  []Level `json:"no_asks"`
}

// YesAskForQuantity devuelve el mejor ask YES con al menos minQty contratos
// acumulados hasta ese nivel. ok=false si no hay liquidez suficiente.
func (ob *OrderBook) YesAskForQuantity(minQty int) (Level, bool) {
	return askForQuantity(ob.YesAsks, minQty)
}

// NoAskForQuantity devuelve el mejor ask NO con al menos minQty contratos.
func (ob *OrderBook) NoAskForQuantity(minQty int) (Level, bool) {
	return askForQuantity(ob.NoAsks, minQty)
}

// BestYesAsk devuelve el ask YES de menor precio.
func (ob *OrderBook) BestYesAsk() (Level, bool) { return bestAsk(ob.YesAsks) }

// BestYesBid devuelve el bid YES de mayor precio.
func (ob *OrderBook) BestYesBid() (Level, bool) { return bestBid(ob.YesBids) }

// BestNoAsk devuelve el ask NO de menor precio.
func (ob *OrderBook) BestNoAsk() (Level, bool) { return bestAsk(ob.NoAsks) }

// BestNoBid devuelve el bid NO de mayor precio.
func (ob *OrderBook) BestNoBid() (Level, bool) { return bestBid(ob.NoBids) }

// FillPriceYes devuelve el precio medio (centavos) de comprar qty contratos
// YES recorriendo los asks. ok=false si no hay liquidez suficiente.
func (ob *OrderBook) FillPriceYes(qty int) (float64, bool) {
	return fillPrice(ob.YesAsks, qty)
}

// FillPriceNo devuelve el precio medio de comprar qty contratos NO.
func (ob *OrderBook) FillPriceNo(qty int) (float64, bool) {
	return fillPrice(ob.NoAsks, qty)
}

func askForQuantity(asks []Level, minQty int) (Level, bool) {
	cumulative := 0
	for _, lvl := range sortedAsc(asks) {
		cumulative += lvl.Quantity
		if cumulative >= minQty {
			return lvl, true
		}
	}
	return Level{}, false
}

func bestAsk(asks []Level) (Level, bool) {
	if len(asks) == 0 {
		return Level{}, false
	}
	best := asks[0]
	for _, lvl := range asks[1:] {
		if lvl.Price < best.Price {
			best = lvl
		}
	}
	return best, true
}

func bestBid(bids []Level) (Level, bool) {
	if len(bids) == 0 {
		return Level{}, false
	}
	best := bids[0]
	for _, lvl := range bids[1:] {
		if lvl.Price > best.Price {
			best = lvl
		}
	}
	return best, true
}

func fillPrice(asks []Level, qty int) (float64, bool) {
	if qty <= 0 {
		return 0, false
	}
	remaining := qty
	totalCost := 0
	for _, lvl := range sortedAsc(asks) {
		take := min(remaining, lvl.Quantity)
		totalCost += take * lvl.Price
		remaining -= take
		if remaining <= 0 {
			return float64(totalCost) / float64(qty), true
		}
	}
	return 0, false
}

func sortedAsc(levels []Level) []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}
