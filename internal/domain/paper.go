package domain

import "time"

// PositionStatus represents the lifecycle of a simulated position.
type PositionStatus string

const (
	PositionOpen     PositionStatus = "open"
	PositionClosed   PositionStatus = "closed"   // manual exit at a quoted price
	PositionResolved PositionStatus = "resolved" // market settled YES or NO
)

// Resolution records how a resolved position ended.
type Resolution string

const (
	ResolutionWin  Resolution = "win"
	ResolutionLose Resolution = "lose"
	ResolutionNone Resolution = ""
)

// PaperPosition is a simulated position owned by exactly one paper account.
// It moves from the account's open set to its closed history exactly once,
// on close or resolve.
type PaperPosition struct {
	ID          string    `json:"id"`
	MarketID    string    `json:"market_id"`
	MarketTitle string    `json:"market_title"`
	Platform    Platform  `json:"platform"`
	Side        Side      `json:"side"`
	EntryPrice  int       `json:"entry_price"` // cents
	Quantity    int       `json:"quantity"`
	EntryTime   time.Time `json:"entry_time"`
	TargetPrice float64   `json:"target_price"` // fair value estimate, cents

	// CurrentPrice is the latest quote for the position's own side, like
	// EntryPrice. Zero until the first mark arrives.
	CurrentPrice int            `json:"current_price"`
	Status       PositionStatus `json:"status"`
	ExitPrice    int            `json:"exit_price,omitempty"`
	ExitTime     *time.Time     `json:"exit_time,omitempty"`
	PnL          float64        `json:"pnl"`
	Resolution   Resolution     `json:"resolution,omitempty"`
}

// LedgerSnapshot is the serializable state of a paper account, used by the
// ledger store and for reporting.
type LedgerSnapshot struct {
	InitialBalance  float64         `json:"initial_balance"`
	Balance         float64         `json:"balance"`
	TotalTrades     int             `json:"total_trades"`
	WinningTrades   int             `json:"winning_trades"`
	TotalPnL        float64         `json:"total_pnl"`
	OpenPositions   []PaperPosition `json:"open_positions"`
	ClosedPositions []PaperPosition `json:"closed_positions"`
}

// Cost returns the dollars locked by the position at entry.
func (p PaperPosition) Cost() float64 {
	return float64(p.EntryPrice) / 100 * float64(p.Quantity)
}

// UnrealizedPnL returns the mark-to-market PnL of an open position.
// Zero until the first price update arrives.
func (p PaperPosition) UnrealizedPnL() float64 {
	if p.Status != PositionOpen || p.CurrentPrice <= 0 {
		return 0
	}
	return float64(p.CurrentPrice-p.EntryPrice) / 100 * float64(p.Quantity)
}

// Value returns the dollars the position would fetch at the current mark,
// falling back to entry cost before the first mark.
func (p PaperPosition) Value() float64 {
	if p.CurrentPrice <= 0 {
		return p.Cost()
	}
	return float64(p.CurrentPrice) / 100 * float64(p.Quantity)
}
