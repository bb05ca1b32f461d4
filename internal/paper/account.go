package paper

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

const defaultInitialBalance = 10000

var (
	// ErrDuplicatePosition rejects a second open position on the same market.
	ErrDuplicatePosition = errors.New("paper: position already open for market")
	// ErrInsufficientBalance rejects entries the cash balance cannot cover.
	ErrInsufficientBalance = errors.New("paper: insufficient balance")
	// ErrNoPosition is returned when closing or resolving an unknown market.
	ErrNoPosition = errors.New("paper: no open position for market")
)

// Account is an in-memory paper trading ledger. The cash balance only
// moves on settlement (realized PnL); entry costs are reserved against
// the available balance while a position is open. At most one open
// position per market. Safe for concurrent use.
type Account struct {
	mu sync.Mutex

	initialBalance float64
	balance        float64
	open           map[string]*domain.PaperPosition // by market ID
	closed         []domain.PaperPosition

	totalTrades   int
	winningTrades int
	totalPnL      float64
}

// NewAccount creates an account with the given starting cash.
func NewAccount(initialBalance float64) *Account {
	if initialBalance <= 0 {
		initialBalance = defaultInitialBalance
	}
	return &Account{
		initialBalance: initialBalance,
		balance:        initialBalance,
		open:           make(map[string]*domain.PaperPosition),
	}
}

// OpenRequest describes a position to open.
type OpenRequest struct {
	MarketID    string
	MarketTitle string
	Platform    domain.Platform
	Side        domain.Side
	Price       int // cents, the side's own price
	Quantity    int
	TargetPrice float64 // cents, fair value estimate
}

// Open creates an open position, reserving its cost against the
// available balance. The market must not already have one, and the cost
// must fit in what the open positions have not already reserved. The
// cash balance itself is untouched until the position settles.
func (a *Account) Open(req OpenRequest, now time.Time) (domain.PaperPosition, error) {
	if req.Price <= 0 || req.Price >= 100 {
		return domain.PaperPosition{}, fmt.Errorf("paper: invalid entry price %d", req.Price)
	}
	if req.Quantity <= 0 {
		return domain.PaperPosition{}, fmt.Errorf("paper: invalid quantity %d", req.Quantity)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.open[req.MarketID]; exists {
		return domain.PaperPosition{}, fmt.Errorf("%w: %s", ErrDuplicatePosition, req.MarketID)
	}

	cost := float64(req.Price) / 100 * float64(req.Quantity)
	if available := a.availableLocked(); cost > available {
		return domain.PaperPosition{}, fmt.Errorf("%w: need $%.2f, have $%.2f available", ErrInsufficientBalance, cost, available)
	}

	pos := domain.PaperPosition{
		ID:          uuid.NewString(),
		MarketID:    req.MarketID,
		MarketTitle: req.MarketTitle,
		Platform:    req.Platform,
		Side:        req.Side,
		EntryPrice:  req.Price,
		Quantity:    req.Quantity,
		EntryTime:   now,
		TargetPrice: req.TargetPrice,
		Status:      domain.PositionOpen,
	}

	a.open[req.MarketID] = &pos
	return pos, nil
}

// Close exits a position at the given quote, realizing its PnL into the
// balance. exitPrice is in the position side's own terms.
func (a *Account) Close(marketID string, exitPrice int, now time.Time) (domain.PaperPosition, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pos, ok := a.open[marketID]
	if !ok {
		return domain.PaperPosition{}, fmt.Errorf("%w: %s", ErrNoPosition, marketID)
	}

	pnl := float64(exitPrice-pos.EntryPrice) / 100 * float64(pos.Quantity)

	pos.Status = domain.PositionClosed
	pos.ExitPrice = exitPrice
	pos.ExitTime = &now
	pos.PnL = pnl

	a.settle(marketID, pnl)
	return *pos, nil
}

// Resolve settles a position at market resolution: $1 per contract if the
// position's side won, nothing if it lost.
func (a *Account) Resolve(marketID string, won bool, now time.Time) (domain.PaperPosition, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pos, ok := a.open[marketID]
	if !ok {
		return domain.PaperPosition{}, fmt.Errorf("%w: %s", ErrNoPosition, marketID)
	}

	var pnl float64
	if won {
		pnl = float64(100-pos.EntryPrice) / 100 * float64(pos.Quantity)
		pos.ExitPrice = 100
		pos.Resolution = domain.ResolutionWin
	} else {
		pnl = -pos.Cost()
		pos.ExitPrice = 0
		pos.Resolution = domain.ResolutionLose
	}

	pos.Status = domain.PositionResolved
	pos.ExitTime = &now
	pos.PnL = pnl

	a.settle(marketID, pnl)
	return *pos, nil
}

// settle moves an open position into the closed history, realizes its
// PnL into the balance and updates the aggregate stats. Callers hold
// the lock.
func (a *Account) settle(marketID string, pnl float64) {
	pos := a.open[marketID]
	delete(a.open, marketID)
	a.closed = append(a.closed, *pos)

	a.balance += pnl
	a.totalTrades++
	if pnl > 0 {
		a.winningTrades++
	}
	a.totalPnL += pnl
}

// UpdatePrice marks an open position to the latest quote for its side.
// Unknown markets are ignored.
func (a *Account) UpdatePrice(marketID string, price int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if pos, ok := a.open[marketID]; ok && price > 0 {
		pos.CurrentPrice = price
	}
}

// HasPosition reports whether the market has an open position.
func (a *Account) HasPosition(marketID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.open[marketID]
	return ok
}

// Balance returns the cash balance. Entry costs of open positions are
// not debited from it; see AvailableBalance.
func (a *Account) Balance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// AvailableBalance returns the cash not reserved by open positions:
// balance minus the sum of their entry costs.
func (a *Account) AvailableBalance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.availableLocked()
}

func (a *Account) availableLocked() float64 {
	available := a.balance
	for _, pos := range a.open {
		available -= pos.Cost()
	}
	return available
}

// UnrealizedPnL sums the mark-to-market PnL of the open positions.
func (a *Account) UnrealizedPnL() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0.0
	for _, pos := range a.open {
		total += pos.UnrealizedPnL()
	}
	return total
}

// TotalValue returns the available cash plus the marked value of the
// open positions. Equals the balance plus unrealized PnL.
func (a *Account) TotalValue() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := a.availableLocked()
	for _, pos := range a.open {
		total += pos.Value()
	}
	return total
}

// WinRate returns wins over settled trades, 0 with no history.
func (a *Account) WinRate() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.totalTrades == 0 {
		return 0
	}
	return float64(a.winningTrades) / float64(a.totalTrades)
}

// ROI returns realized PnL as a fraction of the initial balance.
func (a *Account) ROI() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalPnL / a.initialBalance
}

// OpenPositions returns the open positions sorted by entry time.
func (a *Account) OpenPositions() []domain.PaperPosition {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.openSlice()
}

func (a *Account) openSlice() []domain.PaperPosition {
	out := make([]domain.PaperPosition, 0, len(a.open))
	for _, pos := range a.open {
		out = append(out, *pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryTime.Before(out[j].EntryTime) })
	return out
}

// Snapshot captures the full account state for persistence and reporting.
func (a *Account) Snapshot() domain.LedgerSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	closed := make([]domain.PaperPosition, len(a.closed))
	copy(closed, a.closed)

	return domain.LedgerSnapshot{
		InitialBalance:  a.initialBalance,
		Balance:         a.balance,
		TotalTrades:     a.totalTrades,
		WinningTrades:   a.winningTrades,
		TotalPnL:        a.totalPnL,
		OpenPositions:   a.openSlice(),
		ClosedPositions: closed,
	}
}

// FromSnapshot rebuilds an account from a persisted snapshot.
func FromSnapshot(snap domain.LedgerSnapshot) *Account {
	a := NewAccount(snap.InitialBalance)
	a.balance = snap.Balance
	a.totalTrades = snap.TotalTrades
	a.winningTrades = snap.WinningTrades
	a.totalPnL = snap.TotalPnL
	for i := range snap.OpenPositions {
		pos := snap.OpenPositions[i]
		a.open[pos.MarketID] = &pos
	}
	a.closed = append(a.closed, snap.ClosedPositions...)
	return a
}
