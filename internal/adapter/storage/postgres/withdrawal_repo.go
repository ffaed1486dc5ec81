package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payments-worker/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WithdrawalRepo implements ports.WithdrawalRepository.
type WithdrawalRepo struct {
	pool Pool
}

// NewWithdrawalRepo creates a new WithdrawalRepo.
func NewWithdrawalRepo(pool Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool}
}

const withdrawalColumns = `id, user_id, amount::text, to_address, status, error, tx_hash, created_at, paid_at`

// Create inserts a queued withdrawal within a transaction.
func (r *WithdrawalRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	query := `INSERT INTO withdrawals (user_id, amount, to_address, status)
		VALUES ($1, $2::numeric, $3, $4)
		RETURNING id, created_at`

	err := tx.QueryRow(ctx, query,
		w.UserID, w.Amount.String(), w.ToAddress, string(w.Status),
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

// GetByID fetches a withdrawal by its ID.
func (r *WithdrawalRepo) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1`

	w, err := scanWithdrawal(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get withdrawal by id: %w", err)
	}
	return w, nil
}

// OldestQueued returns the queued withdrawal with the lowest id, or nil.
func (r *WithdrawalRepo) OldestQueued(ctx context.Context) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals
		WHERE status = 'queued' ORDER BY id ASC LIMIT 1`

	w, err := scanWithdrawal(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get oldest queued withdrawal: %w", err)
	}
	return w, nil
}

// Claim moves a queued withdrawal to processing. Exactly one concurrent
// caller observes true.
func (r *WithdrawalRepo) Claim(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE withdrawals SET status = 'processing' WHERE id = $1 AND status = 'queued'`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("claim withdrawal: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkPaid resolves a queued or processing withdrawal as paid.
func (r *WithdrawalRepo) MarkPaid(ctx context.Context, tx pgx.Tx, id int64, txHash *string, at time.Time) (bool, error) {
	query := `UPDATE withdrawals SET status = 'paid', paid_at = $1, tx_hash = COALESCE($2, tx_hash)
		WHERE id = $3 AND status IN ('queued', 'processing')`

	tag, err := tx.Exec(ctx, query, at, txHash, id)
	if err != nil {
		return false, fmt.Errorf("mark withdrawal paid: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFailed resolves a processing withdrawal as failed with a reason.
func (r *WithdrawalRepo) MarkFailed(ctx context.Context, tx pgx.Tx, id int64, reason string) (bool, error) {
	query := `UPDATE withdrawals SET status = 'failed', error = $1
		WHERE id = $2 AND status = 'processing'`

	tag, err := tx.Exec(ctx, query, reason, id)
	if err != nil {
		return false, fmt.Errorf("mark withdrawal failed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var (
		w      domain.Withdrawal
		amount string
		status string
	)
	err := row.Scan(
		&w.ID, &w.UserID, &amount, &w.ToAddress, &status,
		&w.Error, &w.TxHash, &w.CreatedAt, &w.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	w.Status = domain.WithdrawalStatus(status)
	if w.Amount, err = parseNumeric(amount); err != nil {
		return nil, err
	}
	return &w, nil
}
