package ports

import (
	"context"
	"math/big"
	"time"

	"payments-worker/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// LedgerRepository persists the append-only balance ledger.
// Append only ever runs inside the caller's transaction.
type LedgerRepository interface {
	Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	BalanceOf(ctx context.Context, userID int64) (*big.Int, error)
	// BalanceOfForUpdate serialises balance-dependent writes for one user
	// for the rest of tx.
	BalanceOfForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*big.Int, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.LedgerEntry, error)
}

// DepositRepository defines persistence operations for deposits.
// Methods returning (bool, error) are conditional updates: false means the
// row was not in a state that allowed the transition.
type DepositRepository interface {
	Create(ctx context.Context, tx pgx.Tx, deposit *domain.Deposit) error
	GetByID(ctx context.Context, id int64) (*domain.Deposit, error)
	ListPending(ctx context.Context, method domain.DepositMethod, statuses []domain.DepositStatus, limit int) ([]domain.Deposit, error)
	SetSourceAddress(ctx context.Context, id, userID int64, source string) (bool, error)
	AttachInvoice(ctx context.Context, id, invoiceID int64) (bool, error)
	MarkConfirmed(ctx context.Context, tx pgx.Tx, id int64, txHash *string, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, id int64) (bool, error)
}

// WithdrawalRepository defines persistence operations for withdrawals.
type WithdrawalRepository interface {
	Create(ctx context.Context, tx pgx.Tx, withdrawal *domain.Withdrawal) error
	GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error)
	OldestQueued(ctx context.Context) (*domain.Withdrawal, error)
	// Claim moves a queued withdrawal to processing. At most one caller wins.
	Claim(ctx context.Context, id int64) (bool, error)
	MarkPaid(ctx context.Context, tx pgx.Tx, id int64, txHash *string, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, tx pgx.Tx, id int64, reason string) (bool, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
