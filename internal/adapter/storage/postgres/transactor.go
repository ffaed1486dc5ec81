package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.DBTransactor. Every transaction it opens gets
// a local lock_timeout so a conditional update blocked by another replica
// fails instead of stalling the tick that issued it.
type Transactor struct {
	pool        Pool
	lockTimeout time.Duration
}

// NewTransactor wraps the pool. A zero lockTimeout keeps the server default.
func NewTransactor(pool Pool, lockTimeout time.Duration) *Transactor {
	return &Transactor{pool: pool, lockTimeout: lockTimeout}
}

// Begin starts a transaction on the ledger database.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	if t.lockTimeout <= 0 {
		return tx, nil
	}

	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.lockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, stmt); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("set lock_timeout: %w", err)
	}
	return tx, nil
}
