package postgres

import (
	"context"
	"fmt"
	"math/big"

	"payments-worker/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Append inserts one immutable entry within the caller's transaction.
func (r *LedgerRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (user_id, kind, amount, metadata)
		VALUES ($1, $2, $3::numeric, $4)
		RETURNING id, created_at`

	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	err := tx.QueryRow(ctx, query,
		e.UserID, string(e.Kind), e.Amount.String(), metadata,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// BalanceOf sums all committed entries of the user.
func (r *LedgerRepo) BalanceOf(ctx context.Context, userID int64) (*big.Int, error) {
	var raw string
	err := r.pool.QueryRow(ctx, balanceQuery, userID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("sum ledger entries: %w", err)
	}
	return parseNumeric(raw)
}

// BalanceOfForUpdate takes a transaction-scoped advisory lock on the user
// before summing, so concurrent debits for one user are serialised.
// This MUST be called within a transaction.
func (r *LedgerRepo) BalanceOfForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*big.Int, error) {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return nil, fmt.Errorf("lock user balance: %w", err)
	}

	var raw string
	if err := tx.QueryRow(ctx, balanceQuery, userID).Scan(&raw); err != nil {
		return nil, fmt.Errorf("sum ledger entries for update: %w", err)
	}
	return parseNumeric(raw)
}

// ListByUser returns the newest entries first.
func (r *LedgerRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.LedgerEntry, error) {
	query := `SELECT id, user_id, kind, amount::text, metadata, created_at
		FROM ledger_entries WHERE user_id = $1
		ORDER BY id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			e      domain.LedgerEntry
			kind   string
			amount string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &kind, &amount, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Kind = domain.EntryKind(kind)
		if e.Amount, err = parseNumeric(amount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}

const balanceQuery = `SELECT COALESCE(SUM(amount), 0)::text FROM ledger_entries WHERE user_id = $1`

// parseNumeric converts a NUMERIC rendered as text into an integer amount.
func parseNumeric(raw string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("parse numeric %q: not an integer", raw)
	}
	return n, nil
}
