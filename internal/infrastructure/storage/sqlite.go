package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/crypto_hedge_calc/internal/domain"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			long_quantity REAL NOT NULL,
			long_entry_price REAL NOT NULL,
			long_value REAL NOT NULL,
			hedge_kind TEXT NOT NULL,
			hedge_quantity REAL NOT NULL,
			hedge_entry_price REAL NOT NULL,
			hedge_leverage REAL NOT NULL,
			hedge_margin REAL NOT NULL,
			hedging_ratio REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			long_close_price REAL,
			hedge_close_price REAL,
			pnl REAL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_positions_user ON positions(user_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}
	return nil
}

const positionColumns = `id, user_id, symbol, long_quantity, long_entry_price, long_value,
	hedge_kind, hedge_quantity, hedge_entry_price, hedge_leverage, hedge_margin,
	hedging_ratio, status, long_close_price, hedge_close_price, pnl, created_at`

// SavePosition stores a position and returns its id, generating one when the
// caller did not set it.
func (s *SQLiteStore) SavePosition(ctx context.Context, position *domain.Position) (string, error) {
	if position.ID == "" {
		position.ID = uuid.NewString()
	}
	if position.CreatedAt.IsZero() {
		position.CreatedAt = time.Now()
	}
	if position.Status == "" {
		position.Status = "active"
	}

	query := `INSERT INTO positions (` + positionColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		position.ID, position.UserID, position.Symbol,
		position.Long.Quantity, position.Long.EntryPrice, position.Long.Value,
		string(position.Hedge.Kind), position.Hedge.Quantity, position.Hedge.EntryPrice,
		position.Hedge.Leverage, position.Hedge.Margin,
		position.HedgingRatio, position.Status,
		position.LongClosePrice, position.HedgeClosePrice, position.PnL,
		position.CreatedAt)
	if err != nil {
		return "", err
	}
	return position.ID, nil
}

func (s *SQLiteStore) GetPosition(ctx context.Context, id string) (*domain.Position, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+positionColumns+` FROM positions WHERE id = ?`, id)
	return scanPosition(row)
}

func (s *SQLiteStore) ListPositions(ctx context.Context, userID string) ([]*domain.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// UpdatePositionClose records chosen close prices and the realized payout,
// and flips the status to closed.
func (s *SQLiteStore) UpdatePositionClose(ctx context.Context, id string, longClose, hedgeClose, pnl float64) error {
	query := `UPDATE positions SET long_close_price = ?, hedge_close_price = ?, pnl = ?, status = 'closed' WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, longClose, hedgeClose, pnl, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *SQLiteStore) DeletePosition(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM positions WHERE id = ?", id)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosition(row rowScanner) (*domain.Position, error) {
	var (
		p          domain.Position
		kind       string
		longClose  sql.NullFloat64
		hedgeClose sql.NullFloat64
		pnl        sql.NullFloat64
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Symbol,
		&p.Long.Quantity, &p.Long.EntryPrice, &p.Long.Value,
		&kind, &p.Hedge.Quantity, &p.Hedge.EntryPrice,
		&p.Hedge.Leverage, &p.Hedge.Margin,
		&p.HedgingRatio, &p.Status,
		&longClose, &hedgeClose, &pnl,
		&p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.Hedge.Kind = domain.HedgeKind(kind)
	if longClose.Valid {
		p.LongClosePrice = &longClose.Float64
	}
	if hedgeClose.Valid {
		p.HedgeClosePrice = &hedgeClose.Float64
	}
	if pnl.Valid {
		p.PnL = &pnl.Float64
	}
	return &p, nil
}
