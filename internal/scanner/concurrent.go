package scanner

// concurrent.go — worker pool para el análisis paralelo de mercados.
//
// El fetch de books está limitado por el rate limiter y va en secuencia; el
// análisis puro (edge, EV, Kelly, arbitraje, spreads) es CPU y se reparte
// entre workers.

import (
	"runtime"
	"sync"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// marketResult es lo que produce el análisis de un mercado en los tres
// frentes.
type marketResult struct {
	analyses []domain.OpportunityAnalysis
	arb      domain.ArbitrageOpportunity
	hasArb   bool
	trades   []domain.TradeOpportunity
}

// analyzeConcurrent analiza los mercados ya enriquecidos en paralelo.
// Si workers <= 0 usa runtime.NumCPU().
func (s *Scanner) analyzeConcurrent(markets []domain.Market, now time.Time, workers int) []marketResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	workCh := make(chan domain.Market, len(markets))
	resultCh := make(chan marketResult, len(markets))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range workCh {
				var res marketResult
				res.analyses = s.analyzer.AnalyzeMarket(m, now)
				res.arb, res.hasArb = s.arb.AnalyzeMarket(m, now)
				res.trades = s.spreads.AnalyzeMarket(m, m.Book)
				resultCh <- res
			}
		}()
	}

	for _, m := range markets {
		workCh <- m
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]marketResult, 0, len(markets))
	for res := range resultCh {
		results = append(results, res)
	}
	return results
}
