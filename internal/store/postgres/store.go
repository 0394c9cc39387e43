// Package postgres implements core.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"salon-billing/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repos struct {
	q querier
}

func (r repos) Catalog() core.CatalogRepository     { return catalogRepo{r.q} }
func (r repos) Bills() core.BillRepository          { return billRepo{r.q} }
func (r repos) Inventory() core.InventoryRepository { return inventoryRepo{r.q} }
func (r repos) Transfers() core.TransferRepository  { return transferRepo{r.q} }
func (r repos) Cash() core.CashRepository           { return cashRepo{r.q} }
func (r repos) Sequences() core.SequenceRepository  { return sequenceRepo{r.q} }
func (r repos) Reports() core.ReportRepository      { return reportRepo{r.q} }
func (r repos) Settings() core.SettingsRepository   { return settingsRepo{r.q} }

// Store implements core.Store on a connection pool.
type Store struct {
	repos
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{repos: repos{q: pool}, pool: pool}
}

// WithinTx runs fn in one database transaction, committing when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(core.Repositories) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(repos{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// notFound maps pgx.ErrNoRows onto core.ErrNotFound and wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	return fmt.Errorf("failed to read %s: %w", what, err)
}

// uniqueViolation is the SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// conflict maps a unique violation onto core.Conflict and wraps anything else.
func conflict(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return core.Conflict("%s was created concurrently, retry the request", what)
	}
	return fmt.Errorf("failed to create %s: %w", what, err)
}

// mustAffect turns a zero-row UPDATE into core.ErrNotFound.
func mustAffect(tag pgconn.CommandTag, err error, what string) error {
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ── Settings ──────────────────────────────────────────────────────────────────

type settingsRepo struct{ q querier }

func (r settingsRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.q.QueryRow(ctx, "SELECT value FROM system_settings WHERE key = $1", key).Scan(&value)
	if err != nil {
		return "", notFound(err, "setting")
	}
	return value, nil
}

// ── Sequences ─────────────────────────────────────────────────────────────────

type sequenceRepo struct{ q querier }

// Next increments the counter for (kind, prefix) under the row lock taken by
// the upsert. A counter created for the first time starts after the highest
// number already issued under the prefix.
func (r sequenceRepo) Next(ctx context.Context, kind core.SequenceKind, prefix string) (int64, error) {
	var seed int64
	var seedQuery string
	switch kind {
	case core.SequenceBill:
		seedQuery = "SELECT bill_number FROM bills WHERE bill_number LIKE $1 || '-%'"
	case core.SequenceTransfer:
		seedQuery = "SELECT transfer_number FROM stock_transfers WHERE transfer_number LIKE $1 || '-%'"
	default:
		return 0, fmt.Errorf("unknown sequence kind %q", kind)
	}

	scope := string(kind) + ":" + prefix
	var exists bool
	if err := r.q.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM document_sequences WHERE scope = $1)", scope).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check sequence: %w", err)
	}
	if !exists {
		rows, err := r.q.Query(ctx, seedQuery, prefix)
		if err != nil {
			return 0, fmt.Errorf("failed to seed sequence: %w", err)
		}
		issued, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return 0, fmt.Errorf("failed to seed sequence: %w", err)
		}
		seed = core.MaxSequenceSuffix(issued, prefix)
	}

	var next int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_sequences (scope, last_number)
		VALUES ($1, $2 + 1)
		ON CONFLICT (scope)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number
	`, scope, seed).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to generate sequence number: %w", err)
	}
	return next, nil
}
