package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payments-worker/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// DepositRepo implements ports.DepositRepository.
type DepositRepo struct {
	pool Pool
}

// NewDepositRepo creates a new DepositRepo.
func NewDepositRepo(pool Pool) *DepositRepo {
	return &DepositRepo{pool: pool}
}

const depositColumns = `id, user_id, amount::text, status, method, comment, source_address,
	invoice_id, tx_hash, created_at, confirmed_at`

// Create inserts a new deposit within a transaction and fills ID and CreatedAt.
func (r *DepositRepo) Create(ctx context.Context, tx pgx.Tx, d *domain.Deposit) error {
	query := `INSERT INTO deposits (user_id, amount, status, method, comment, source_address, invoice_id)
		VALUES ($1, $2::numeric, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := tx.QueryRow(ctx, query,
		d.UserID, d.Amount.String(), string(d.Status), string(d.Method),
		d.Comment, d.SourceAddress, d.InvoiceID,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert deposit: %w", err)
	}
	return nil
}

// GetByID fetches a deposit by its ID.
func (r *DepositRepo) GetByID(ctx context.Context, id int64) (*domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE id = $1`

	d, err := scanDeposit(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deposit by id: %w", err)
	}
	return d, nil
}

// ListPending lists the oldest deposits of one method in the given statuses.
func (r *DepositRepo) ListPending(ctx context.Context, method domain.DepositMethod, statuses []domain.DepositStatus, limit int) ([]domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits
		WHERE method = $1 AND status = ANY($2)
		ORDER BY id ASC LIMIT $3`

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	rows, err := r.pool.Query(ctx, query, string(method), names, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending deposits: %w", err)
	}
	defer rows.Close()

	var deposits []domain.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deposit: %w", err)
		}
		deposits = append(deposits, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deposits: %w", err)
	}
	return deposits, nil
}

// SetSourceAddress records the sender a tonconnect deposit is expected from.
// Only the owner may set it and only before the deposit is resolved.
func (r *DepositRepo) SetSourceAddress(ctx context.Context, id, userID int64, source string) (bool, error) {
	query := `UPDATE deposits SET source_address = $1, status = 'sent'
		WHERE id = $2 AND user_id = $3 AND method = 'tonconnect' AND status IN ('created', 'sent')`

	tag, err := r.pool.Exec(ctx, query, source, id, userID)
	if err != nil {
		return false, fmt.Errorf("set deposit source: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AttachInvoice stores the provider invoice id and moves the deposit to active.
func (r *DepositRepo) AttachInvoice(ctx context.Context, id, invoiceID int64) (bool, error) {
	query := `UPDATE deposits SET invoice_id = $1, status = 'active'
		WHERE id = $2 AND status = 'invoice'`

	tag, err := r.pool.Exec(ctx, query, invoiceID, id)
	if err != nil {
		return false, fmt.Errorf("attach deposit invoice: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkConfirmed resolves a non-terminal deposit. It reports false when the
// deposit was already terminal, in which case nothing must be credited.
// A tx hash already stored on another deposit yields ErrTransferAlreadyCredited.
func (r *DepositRepo) MarkConfirmed(ctx context.Context, tx pgx.Tx, id int64, txHash *string, at time.Time) (bool, error) {
	query := `UPDATE deposits SET status = 'confirmed', confirmed_at = $1, tx_hash = COALESCE($2, tx_hash)
		WHERE id = $3 AND status NOT IN ('confirmed', 'failed')`

	tag, err := tx.Exec(ctx, query, at, txHash, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, domain.ErrTransferAlreadyCredited
		}
		return false, fmt.Errorf("confirm deposit: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFailed moves a non-terminal deposit to failed.
func (r *DepositRepo) MarkFailed(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE deposits SET status = 'failed'
		WHERE id = $1 AND status NOT IN ('confirmed', 'failed')`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("fail deposit: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var (
		d              domain.Deposit
		amount         string
		status, method string
	)
	err := row.Scan(
		&d.ID, &d.UserID, &amount, &status, &method, &d.Comment, &d.SourceAddress,
		&d.InvoiceID, &d.TxHash, &d.CreatedAt, &d.ConfirmedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Status = domain.DepositStatus(status)
	d.Method = domain.DepositMethod(method)
	if d.Amount, err = parseNumeric(amount); err != nil {
		return nil, err
	}
	return &d, nil
}
