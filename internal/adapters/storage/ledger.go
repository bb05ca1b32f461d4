package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

const ledgerSchema = `
-- Paper account state. One row per account field set plus one row per
-- position; the whole snapshot is replaced transactionally on save.
CREATE TABLE IF NOT EXISTS paper_ledger (
    id              INTEGER PRIMARY KEY CHECK (id = 1),
    initial_balance REAL NOT NULL,
    balance         REAL NOT NULL,
    total_trades    INTEGER NOT NULL DEFAULT 0,
    winning_trades  INTEGER NOT NULL DEFAULT 0,
    total_pnl       REAL NOT NULL DEFAULT 0,
    saved_at        DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS paper_positions (
    id            TEXT PRIMARY KEY,
    market_id     TEXT NOT NULL,
    status        TEXT NOT NULL,
    payload       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_paper_pos_status ON paper_positions(status);
CREATE INDEX IF NOT EXISTS idx_paper_pos_market ON paper_positions(market_id);
`

// SaveLedger replaces the stored snapshot in a single transaction, so a
// crash mid-save never leaves a torn ledger behind.
func (s *SQLiteStore) SaveLedger(ctx context.Context, snap domain.LedgerSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveLedger: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO paper_ledger (id, initial_balance, balance, total_trades, winning_trades, total_pnl, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			initial_balance = excluded.initial_balance,
			balance         = excluded.balance,
			total_trades    = excluded.total_trades,
			winning_trades  = excluded.winning_trades,
			total_pnl       = excluded.total_pnl,
			saved_at        = excluded.saved_at
	`, snap.InitialBalance, snap.Balance, snap.TotalTrades, snap.WinningTrades,
		snap.TotalPnL, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("storage.SaveLedger: upsert account: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM paper_positions`); err != nil {
		return fmt.Errorf("storage.SaveLedger: clear positions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO paper_positions (id, market_id, status, payload) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveLedger: prepare: %w", err)
	}
	defer stmt.Close()

	insert := func(pos domain.PaperPosition) error {
		payload, err := json.Marshal(pos)
		if err != nil {
			return fmt.Errorf("storage.SaveLedger: marshal %s: %w", pos.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, pos.ID, pos.MarketID, string(pos.Status), string(payload)); err != nil {
			return fmt.Errorf("storage.SaveLedger: insert %s: %w", pos.ID, err)
		}
		return nil
	}
	for _, pos := range snap.OpenPositions {
		if err := insert(pos); err != nil {
			return err
		}
	}
	for _, pos := range snap.ClosedPositions {
		if err := insert(pos); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveLedger: commit: %w", err)
	}
	return nil
}

// LoadLedger returns the last snapshot, ok=false when none was ever saved.
func (s *SQLiteStore) LoadLedger(ctx context.Context) (domain.LedgerSnapshot, bool, error) {
	var snap domain.LedgerSnapshot
	err := s.db.QueryRowContext(ctx, `
		SELECT initial_balance, balance, total_trades, winning_trades, total_pnl
		FROM paper_ledger WHERE id = 1
	`).Scan(&snap.InitialBalance, &snap.Balance, &snap.TotalTrades, &snap.WinningTrades, &snap.TotalPnL)
	if err == sql.ErrNoRows {
		return domain.LedgerSnapshot{}, false, nil
	}
	if err != nil {
		return domain.LedgerSnapshot{}, false, fmt.Errorf("storage.LoadLedger: account: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, payload FROM paper_positions`)
	if err != nil {
		return domain.LedgerSnapshot{}, false, fmt.Errorf("storage.LoadLedger: positions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, payload string
		if err := rows.Scan(&status, &payload); err != nil {
			return domain.LedgerSnapshot{}, false, fmt.Errorf("storage.LoadLedger: scan row: %w", err)
		}
		var pos domain.PaperPosition
		if err := json.Unmarshal([]byte(payload), &pos); err != nil {
			return domain.LedgerSnapshot{}, false, fmt.Errorf("storage.LoadLedger: unmarshal: %w", err)
		}
		if pos.Status == domain.PositionOpen {
			snap.OpenPositions = append(snap.OpenPositions, pos)
		} else {
			snap.ClosedPositions = append(snap.ClosedPositions, pos)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.LedgerSnapshot{}, false, fmt.Errorf("storage.LoadLedger: %w", err)
	}
	return snap, true, nil
}
