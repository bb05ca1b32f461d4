package paper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

const (
	// minContracts is the floor per simulated entry so tiny Kelly
	// fractions still produce an observable position.
	minContracts = 10
	// kellyCap bounds the fraction used for sizing.
	kellyCap = 0.25
	// sizeMultiplier scales the capped Kelly into contracts.
	sizeMultiplier = 4
	// defaultMaxPositions bounds how many positions stay open at once.
	defaultMaxPositions = 10
	// defaultMinEdge is the entry threshold; opportunities below it are
	// not worth a simulated position.
	defaultMinEdge = 0.05
)

// Config holds the simulator settings.
type Config struct {
	InitialBalance float64
	// PositionSize is the reference dollar size a full-conviction entry
	// scales from.
	PositionSize float64
	// MaxPositions caps concurrent open positions.
	MaxPositions int
	// MinEdge is the minimum edge an opportunity needs to open a position.
	MinEdge float64
}

// DefaultConfig returns the stock simulation parameters.
func DefaultConfig() Config {
	return Config{
		InitialBalance: defaultInitialBalance,
		PositionSize:   100,
		MaxPositions:   defaultMaxPositions,
		MinEdge:        defaultMinEdge,
	}
}

// Simulator turns scored opportunities into paper positions and keeps the
// ledger persisted across runs.
type Simulator struct {
	cfg     Config
	account *Account
	store   ports.LedgerStore // may be nil: in-memory only
}

// NewSimulator creates a simulator, restoring the ledger from the store
// when a snapshot exists.
func NewSimulator(ctx context.Context, cfg Config, store ports.LedgerStore) (*Simulator, error) {
	if cfg.PositionSize <= 0 {
		cfg.PositionSize = 100
	}
	if cfg.MaxPositions <= 0 {
		cfg.MaxPositions = defaultMaxPositions
	}
	if cfg.MinEdge <= 0 {
		cfg.MinEdge = defaultMinEdge
	}

	account := NewAccount(cfg.InitialBalance)
	if store != nil {
		snap, ok, err := store.LoadLedger(ctx)
		if err != nil {
			return nil, fmt.Errorf("paper.NewSimulator: load ledger: %w", err)
		}
		if ok {
			account = FromSnapshot(snap)
			slog.Info("paper ledger restored",
				"balance", snap.Balance,
				"open", len(snap.OpenPositions),
				"settled", snap.TotalTrades,
			)
		}
	}

	return &Simulator{cfg: cfg, account: account, store: store}, nil
}

// Account exposes the underlying ledger for reporting.
func (s *Simulator) Account() *Account { return s.account }

// contractsFor sizes an entry from the opportunity's Kelly fraction.
func (s *Simulator) contractsFor(kelly float64) int {
	contracts := int(s.cfg.PositionSize * min(kelly, kellyCap) * sizeMultiplier)
	return max(minContracts, contracts)
}

// ProcessOpportunities opens a paper position for each accepted analysis
// that clears the edge threshold and that the account does not already
// hold, stopping once MaxPositions are open. Duplicate markets and
// entries the available balance cannot cover are skipped, not errors.
func (s *Simulator) ProcessOpportunities(ctx context.Context, opps []domain.OpportunityAnalysis, now time.Time) (int, error) {
	opened := 0
	held := len(s.account.OpenPositions())
	for _, opp := range opps {
		if held >= s.cfg.MaxPositions {
			break
		}
		if opp.Edge < s.cfg.MinEdge {
			continue
		}
		if opp.RecommendedPrice <= 0 || opp.RecommendedPrice >= 100 {
			continue
		}

		_, err := s.account.Open(OpenRequest{
			MarketID:    opp.Ticker,
			MarketTitle: opp.Title,
			Platform:    opp.Platform,
			Side:        opp.Side,
			Price:       opp.RecommendedPrice,
			Quantity:    s.contractsFor(opp.KellyFraction),
			TargetPrice: opp.FairProbability * 100,
		}, now)
		switch {
		case err == nil:
			opened++
			held++
			slog.Info("paper position opened",
				"ticker", opp.Ticker,
				"side", opp.Side,
				"price", opp.RecommendedPrice,
			)
		case errors.Is(err, ErrDuplicatePosition):
			continue
		case errors.Is(err, ErrInsufficientBalance):
			slog.Debug("paper entry skipped", "ticker", opp.Ticker, "err", err)
		default:
			return opened, fmt.Errorf("paper.ProcessOpportunities: open %s: %w", opp.Ticker, err)
		}
	}

	if opened > 0 {
		if err := s.persist(ctx); err != nil {
			return opened, err
		}
	}
	return opened, nil
}

// MarkPrices refreshes each open position's mark from the latest market
// snapshots and closes the ones that reached their target.
func (s *Simulator) MarkPrices(ctx context.Context, markets []domain.Market, now time.Time) (int, error) {
	byTicker := make(map[string]domain.Market, len(markets))
	for _, m := range markets {
		byTicker[m.Ticker] = m
	}

	closed := 0
	for _, pos := range s.account.OpenPositions() {
		m, ok := byTicker[pos.MarketID]
		if !ok {
			continue
		}

		price := m.YesPrice()
		if pos.Side == domain.SideNo {
			price = m.NoPrice()
		}
		if price <= 0 {
			continue
		}
		s.account.UpdatePrice(pos.MarketID, price)

		if pos.TargetPrice > 0 && float64(price) >= pos.TargetPrice {
			settled, err := s.account.Close(pos.MarketID, price, now)
			if err != nil {
				return closed, fmt.Errorf("paper.MarkPrices: close %s: %w", pos.MarketID, err)
			}
			closed++
			slog.Info("paper position closed at target",
				"ticker", settled.MarketID,
				"exit", settled.ExitPrice,
				"pnl", settled.PnL,
			)
		}
	}

	if closed > 0 {
		if err := s.persist(ctx); err != nil {
			return closed, err
		}
	}
	return closed, nil
}

// SettleResolved resolves open positions whose markets are past their
// resolution date, using the final quote to decide the winning side.
func (s *Simulator) SettleResolved(ctx context.Context, markets []domain.Market, now time.Time) (int, error) {
	byTicker := make(map[string]domain.Market, len(markets))
	for _, m := range markets {
		byTicker[m.Ticker] = m
	}

	settledCount := 0
	for _, pos := range s.account.OpenPositions() {
		m, ok := byTicker[pos.MarketID]
		if !ok || m.ResolutionDate.IsZero() || now.Before(m.ResolutionDate) {
			continue
		}

		// A settled market pins its YES quote to one extreme.
		yesWon := m.YesPrice() >= 50
		won := (pos.Side == domain.SideYes) == yesWon

		settled, err := s.account.Resolve(pos.MarketID, won, now)
		if err != nil {
			return settledCount, fmt.Errorf("paper.SettleResolved: resolve %s: %w", pos.MarketID, err)
		}
		settledCount++
		slog.Info("paper position resolved",
			"ticker", settled.MarketID,
			"resolution", settled.Resolution,
			"pnl", settled.PnL,
		)
	}

	if settledCount > 0 {
		if err := s.persist(ctx); err != nil {
			return settledCount, err
		}
	}
	return settledCount, nil
}

// StoredMarkets completes a scanned snapshot with the markets of open
// positions the scan no longer returns, re-read from the store. A
// resolved market drops out of the exchanges' open listings, so without
// this its position would never settle.
func (s *Simulator) StoredMarkets(ctx context.Context, store ports.MarketStore, scanned []domain.Market) []domain.Market {
	if store == nil {
		return scanned
	}

	seen := make(map[string]struct{}, len(scanned))
	for _, m := range scanned {
		seen[m.Ticker] = struct{}{}
	}

	out := scanned
	for _, pos := range s.account.OpenPositions() {
		if _, ok := seen[pos.MarketID]; ok {
			continue
		}
		m, found, err := store.GetMarket(ctx, pos.MarketID)
		if err != nil {
			slog.Warn("stored market lookup failed", "ticker", pos.MarketID, "err", err)
			continue
		}
		if found {
			out = append(out, m)
		}
	}
	return out
}

// SettleFromStore settles resolved positions against the persisted
// markets. Meant for startup, before the first live snapshot, to catch
// markets that resolved while the scanner was down.
func (s *Simulator) SettleFromStore(ctx context.Context, store ports.MarketStore, now time.Time) (int, error) {
	if store == nil || len(s.account.OpenPositions()) == 0 {
		return 0, nil
	}
	markets, err := store.GetMarkets(ctx, ports.MarketFilter{})
	if err != nil {
		return 0, fmt.Errorf("paper.SettleFromStore: load markets: %w", err)
	}
	return s.SettleResolved(ctx, markets, now)
}

func (s *Simulator) persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveLedger(ctx, s.account.Snapshot()); err != nil {
		return fmt.Errorf("paper: save ledger: %w", err)
	}
	return nil
}
