package ports

import (
	"context"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// LedgerStore persists paper account state between runs. Writes happen
// inside a transaction so a crash never leaves half a snapshot behind.
type LedgerStore interface {
	SaveLedger(ctx context.Context, snap domain.LedgerSnapshot) error

	// LoadLedger returns the last saved snapshot, ok=false if none exists.
	LoadLedger(ctx context.Context) (domain.LedgerSnapshot, bool, error)
}
