package domain

// valuation.go — funciones puras de valoración: edge, EV y Kelly.
//
// Son el sustrato compartido del analyzer y los detectores. Los errores de
// dominio (precio fuera de rango) se devuelven como ok=false, nunca como
// panics: el caller los trata como "no hay oportunidad".

// EdgeYes devuelve fair - prob. implícita del precio: positivo cuando el
// mercado infravalora el YES.
func EdgeYes(fair float64, priceCents int) float64 {
	return fair - float64(priceCents)/100
}

// EdgeNo es el edge del lado NO, con signo invertido por convención.
func EdgeNo(fair float64, priceCents int) float64 {
	return -EdgeYes(fair, priceCents)
}

// ExpectedValue devuelve el multiplicador de valor esperado de entrar al
// precio dado: (prob. de ganar × 100) / precio. >1 = EV positivo.
// ok=false si el precio no es positivo.
func ExpectedValue(fair float64, priceCents int, side Side) (float64, bool) {
	if priceCents <= 0 {
		return 0, false
	}
	winProb := fair
	if side == SideNo {
		winProb = 1 - fair
	}
	return winProb * 100 / float64(priceCents), true
}

// KellyFraction devuelve la fracción de bankroll óptima según Kelly:
// f* = (b·p - q) / b, con b = (100/precio) - 1.
//
// Se clampa a mínimo 0 — esta fórmula nunca recomienda posiciones
// cortas/negativas. ok=false si el precio está fuera de (0,100).
func KellyFraction(fair float64, priceCents int, side Side) (float64, bool) {
	if priceCents <= 0 || priceCents >= 100 {
		return 0, false
	}

	// Pagando `precio` centavos recibimos 100 al ganar: por cada unidad
	// arriesgada el profit es (100/precio - 1).
	b := 100/float64(priceCents) - 1
	p := fair
	if side == SideNo {
		p = 1 - fair
	}
	q := 1 - p

	kelly := (b*p - q) / b
	if kelly < 0 {
		return 0, true
	}
	return kelly, true
}
