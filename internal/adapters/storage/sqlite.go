package storage

// sqlite.go — persistencia de mercados, base rates e histórico de scans.
//
// Estrategia:
//   - `markets`: UNA fila por ticker (UPSERT con cada snapshot).
//   - `base_rates`: una fila por ticker; la sobrescritura es la única
//     mutación (re-research explícito).
//   - `scans` + `scan_results`: resumen ligero por ciclo más los
//     resultados serializados en JSON. El detalle por ciclo no se
//     consulta por columnas, así que no merece tablas anchas.
//   - Prune automático al arrancar: scans > 30d, mercados no vistos en 14d.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
-- Snapshot por mercado, una fila por ticker
CREATE TABLE IF NOT EXISTS markets (
    ticker          TEXT PRIMARY KEY,
    platform        TEXT NOT NULL,
    title           TEXT NOT NULL,
    category        TEXT NOT NULL DEFAULT '',
    resolution_date DATETIME,
    yes_bid         INTEGER NOT NULL DEFAULT 0,
    yes_ask         INTEGER NOT NULL DEFAULT 0,
    no_bid          INTEGER NOT NULL DEFAULT 0,
    no_ask          INTEGER NOT NULL DEFAULT 0,
    volume          REAL    NOT NULL DEFAULT 0,
    liquidity       REAL    NOT NULL DEFAULT 0,
    url             TEXT    NOT NULL DEFAULT '',
    last_seen       DATETIME NOT NULL
);

-- Base rate investigado por ticker
CREATE TABLE IF NOT EXISTS base_rates (
    ticker            TEXT PRIMARY KEY,
    rate              REAL NOT NULL,
    unit              TEXT NOT NULL,
    events_per_period INTEGER NOT NULL DEFAULT 0,
    reasoning         TEXT NOT NULL DEFAULT '',
    sources           TEXT NOT NULL DEFAULT '[]',
    confidence        REAL NOT NULL DEFAULT 0,
    updated_at        DATETIME NOT NULL
);

-- Resumen por ciclo de scan
CREATE TABLE IF NOT EXISTS scans (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    scanned_at DATETIME NOT NULL,
    analyses   INTEGER  NOT NULL DEFAULT 0,
    arbitrages INTEGER  NOT NULL DEFAULT 0,
    trades     INTEGER  NOT NULL DEFAULT 0
);

-- Resultados del ciclo, serializados
CREATE TABLE IF NOT EXISTS scan_results (
    scan_id INTEGER NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
    kind    TEXT    NOT NULL, -- 'analysis' | 'arbitrage' | 'trade'
    ticker  TEXT    NOT NULL,
    payload TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_markets_platform ON markets(platform);
CREATE INDEX IF NOT EXISTS idx_markets_seen     ON markets(last_seen DESC);
CREATE INDEX IF NOT EXISTS idx_scans_at         ON scans(scanned_at DESC);
CREATE INDEX IF NOT EXISTS idx_results_scan     ON scan_results(scan_id);
CREATE INDEX IF NOT EXISTS idx_results_ticker   ON scan_results(ticker);
`

const (
	retentionScans   = 30 * 24 * time.Hour // ciclos: 30 días
	retentionMarkets = 14 * 24 * time.Hour // mercados no vistos: 14 días
)

// SQLiteStore implementa ports.MarketStore y ports.LedgerStore sobre
// SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada, aplica el
// schema y limpia datos antiguos.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema + ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveMarkets hace upsert de los snapshots de mercado.
func (s *SQLiteStore) SaveMarkets(ctx context.Context, markets []domain.Market) error {
	if len(markets) == 0 {
		return nil
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveMarkets: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO markets
			(ticker, platform, title, category, resolution_date,
			 yes_bid, yes_ask, no_bid, no_ask, volume, liquidity, url, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			platform        = excluded.platform,
			title           = excluded.title,
			category        = excluded.category,
			resolution_date = excluded.resolution_date,
			yes_bid         = excluded.yes_bid,
			yes_ask         = excluded.yes_ask,
			no_bid          = excluded.no_bid,
			no_ask          = excluded.no_ask,
			volume          = excluded.volume,
			liquidity       = excluded.liquidity,
			url             = excluded.url,
			last_seen       = excluded.last_seen
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveMarkets: prepare: %w", err)
	}
	defer stmt.Close()

	for _, m := range markets {
		var resolution *string
		if !m.ResolutionDate.IsZero() {
			t := m.ResolutionDate.UTC().Format(time.RFC3339)
			resolution = &t
		}
		if _, err := stmt.ExecContext(ctx,
			m.Ticker, string(m.Platform), m.Title, m.Category, resolution,
			m.YesBid, m.YesAsk, m.NoBid, m.NoAsk,
			m.Volume, m.Liquidity, m.URL, now.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("storage.SaveMarkets: upsert %s: %w", m.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveMarkets: commit: %w", err)
	}
	return nil
}

const marketColumns = `m.ticker, m.platform, m.title, m.category, m.resolution_date,
       m.yes_bid, m.yes_ask, m.no_bid, m.no_ask, m.volume, m.liquidity, m.url, m.last_seen`

// GetMarket devuelve un mercado con su base rate adjunto si existe.
func (s *SQLiteStore) GetMarket(ctx context.Context, ticker string) (domain.Market, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+marketColumns+` FROM markets m WHERE m.ticker = ?`, ticker)

	m, err := scanMarket(row)
	if err == sql.ErrNoRows {
		return domain.Market{}, false, nil
	}
	if err != nil {
		return domain.Market{}, false, fmt.Errorf("storage.GetMarket: %s: %w", ticker, err)
	}

	if br, ok, err := s.GetBaseRate(ctx, ticker); err != nil {
		return domain.Market{}, false, err
	} else if ok {
		m.BaseRate = &br
	}
	return m, true, nil
}

// GetMarkets devuelve los mercados que pasan el filtro, base rates incluidos.
func (s *SQLiteStore) GetMarkets(ctx context.Context, filter ports.MarketFilter) ([]domain.Market, error) {
	query := `SELECT ` + marketColumns + ` FROM markets m`
	var conds []string
	var args []any

	if filter.Platform != "" {
		conds = append(conds, `m.platform = ?`)
		args = append(args, string(filter.Platform))
	}
	if filter.Category != "" {
		conds = append(conds, `m.category LIKE ?`)
		args = append(args, "%"+filter.Category+"%")
	}
	if filter.HasBaseRate != nil {
		if *filter.HasBaseRate {
			conds = append(conds, `m.ticker IN (SELECT ticker FROM base_rates)`)
		} else {
			conds = append(conds, `m.ticker NOT IN (SELECT ticker FROM base_rates)`)
		}
	}
	for i, c := range conds {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY m.ticker`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage.GetMarkets: query: %w", err)
	}
	defer rows.Close()

	var markets []domain.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("storage.GetMarkets: scan row: %w", err)
		}
		markets = append(markets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.GetMarkets: %w", err)
	}

	for i := range markets {
		br, ok, err := s.GetBaseRate(ctx, markets[i].Ticker)
		if err != nil {
			return nil, err
		}
		if ok {
			markets[i].BaseRate = &br
		}
	}
	return markets, nil
}

// SaveBaseRate guarda o sobrescribe el base rate de un mercado.
func (s *SQLiteStore) SaveBaseRate(ctx context.Context, ticker string, br domain.BaseRate) error {
	sources, err := json.Marshal(br.Sources)
	if err != nil {
		return fmt.Errorf("storage.SaveBaseRate: marshal sources: %w", err)
	}

	updated := br.LastUpdated
	if updated.IsZero() {
		updated = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO base_rates
			(ticker, rate, unit, events_per_period, reasoning, sources, confidence, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			rate              = excluded.rate,
			unit              = excluded.unit,
			events_per_period = excluded.events_per_period,
			reasoning         = excluded.reasoning,
			sources           = excluded.sources,
			confidence        = excluded.confidence,
			updated_at        = excluded.updated_at
	`, ticker, br.Rate, string(br.Unit), br.EventsPerPeriod,
		br.Reasoning, string(sources), br.Confidence, updated.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("storage.SaveBaseRate: upsert %s: %w", ticker, err)
	}
	return nil
}

// GetBaseRate devuelve el base rate almacenado para un mercado.
func (s *SQLiteStore) GetBaseRate(ctx context.Context, ticker string) (domain.BaseRate, bool, error) {
	var br domain.BaseRate
	var unit, sources, updated string

	err := s.db.QueryRowContext(ctx, `
		SELECT rate, unit, events_per_period, reasoning, sources, confidence, updated_at
		FROM base_rates WHERE ticker = ?
	`, ticker).Scan(&br.Rate, &unit, &br.EventsPerPeriod, &br.Reasoning, &sources, &br.Confidence, &updated)
	if err == sql.ErrNoRows {
		return domain.BaseRate{}, false, nil
	}
	if err != nil {
		return domain.BaseRate{}, false, fmt.Errorf("storage.GetBaseRate: %s: %w", ticker, err)
	}

	br.Unit = domain.RateUnit(unit)
	br.LastUpdated, _ = time.Parse(time.RFC3339, updated)
	if err := json.Unmarshal([]byte(sources), &br.Sources); err != nil {
		return domain.BaseRate{}, false, fmt.Errorf("storage.GetBaseRate: unmarshal sources: %w", err)
	}
	return br, true, nil
}

// SaveScan persiste el resumen del ciclo y los resultados serializados,
// todo dentro de una transacción.
func (s *SQLiteStore) SaveScan(ctx context.Context, at time.Time, analyses []domain.OpportunityAnalysis, arbs []domain.ArbitrageOpportunity, trades []domain.TradeOpportunity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO scans (scanned_at, analyses, arbitrages, trades) VALUES (?, ?, ?, ?)`,
		at.UTC().Format(time.RFC3339), len(analyses), len(arbs), len(trades),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: insert scan: %w", err)
	}
	scanID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("storage.SaveScan: scan id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scan_results (scan_id, kind, ticker, payload) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: prepare: %w", err)
	}
	defer stmt.Close()

	insert := func(kind, ticker string, v any) error {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("storage.SaveScan: marshal %s %s: %w", kind, ticker, err)
		}
		if _, err := stmt.ExecContext(ctx, scanID, kind, ticker, string(payload)); err != nil {
			return fmt.Errorf("storage.SaveScan: insert %s %s: %w", kind, ticker, err)
		}
		return nil
	}

	for _, a := range analyses {
		if err := insert("analysis", a.Ticker, a); err != nil {
			return err
		}
	}
	for _, a := range arbs {
		if err := insert("arbitrage", a.Ticker, a); err != nil {
			return err
		}
	}
	for _, tr := range trades {
		if err := insert("trade", tr.Ticker, tr); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveScan: commit: %w", err)
	}
	return nil
}

// ScanSummary es el resumen persistido de un ciclo.
type ScanSummary struct {
	ID         int64
	ScannedAt  time.Time
	Analyses   int
	Arbitrages int
	Trades     int
}

// GetScanHistory devuelve los resúmenes de ciclo en el rango dado, el más
// reciente primero.
func (s *SQLiteStore) GetScanHistory(ctx context.Context, from, to time.Time) ([]ScanSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scanned_at, analyses, arbitrages, trades
		FROM scans
		WHERE scanned_at BETWEEN ? AND ?
		ORDER BY scanned_at DESC
	`, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("storage.GetScanHistory: query: %w", err)
	}
	defer rows.Close()

	var out []ScanSummary
	for rows.Next() {
		var sum ScanSummary
		var at string
		if err := rows.Scan(&sum.ID, &at, &sum.Analyses, &sum.Arbitrages, &sum.Trades); err != nil {
			return nil, fmt.Errorf("storage.GetScanHistory: scan row: %w", err)
		}
		sum.ScannedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMarket(row rowScanner) (domain.Market, error) {
	var m domain.Market
	var platform, lastSeen string
	var resolution *string

	if err := row.Scan(
		&m.Ticker, &platform, &m.Title, &m.Category, &resolution,
		&m.YesBid, &m.YesAsk, &m.NoBid, &m.NoAsk,
		&m.Volume, &m.Liquidity, &m.URL, &lastSeen,
	); err != nil {
		return domain.Market{}, err
	}

	m.Platform = domain.Platform(platform)
	if resolution != nil {
		m.ResolutionDate, _ = time.Parse(time.RFC3339, *resolution)
	}
	m.LastUpdated, _ = time.Parse(time.RFC3339, lastSeen)
	return m, nil
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (s *SQLiteStore) pruneOld(ctx context.Context) {
	cutoffScans := time.Now().UTC().Add(-retentionScans).Format(time.RFC3339)
	cutoffMarkets := time.Now().UTC().Add(-retentionMarkets).Format(time.RFC3339)
	s.db.ExecContext(ctx, `DELETE FROM scans WHERE scanned_at < ?`, cutoffScans)
	s.db.ExecContext(ctx, `DELETE FROM markets WHERE last_seen < ?`, cutoffMarkets)
}
