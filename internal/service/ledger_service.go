package service

import (
	"context"
	"fmt"
	"math/big"

	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
	"payments-worker/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// paymentKinds are written only by the payment state machines.
var paymentKinds = map[domain.EntryKind]bool{
	domain.EntryDepositPending:       true,
	domain.EntryDepositConfirmed:     true,
	domain.EntryWithdrawRequested:    true,
	domain.EntryWithdrawPaid:         true,
	domain.EntryWithdrawFailedRefund: true,
}

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	ledgerRepo ports.LedgerRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(ledgerRepo ports.LedgerRepository, transactor ports.DBTransactor, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		ledgerRepo: ledgerRepo,
		transactor: transactor,
		log:        log,
	}
}

// Add appends a standalone entry for balance changes owned by other
// subsystems (game results, bonuses). Payment kinds are rejected.
func (s *LedgerServiceImpl) Add(ctx context.Context, userID int64, kind domain.EntryKind, amount *big.Int, metadata map[string]any) (*domain.LedgerEntry, error) {
	if userID <= 0 {
		return nil, apperror.Validation("user id must be positive")
	}
	if kind == "" {
		return nil, apperror.Validation("kind is required")
	}
	if paymentKinds[kind] {
		return nil, apperror.Validation(fmt.Sprintf("kind %q is reserved for payments", kind))
	}
	if amount == nil {
		return nil, apperror.ErrInvalidAmount()
	}

	entry := domain.NewLedgerEntry(userID, kind, amount, metadata)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.ledgerRepo.Append(ctx, dbTx, entry); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("user_id", userID).
		Str("kind", string(kind)).
		Str("amount", entry.Amount.String()).
		Msg("ledger entry added")

	return entry, nil
}

// BalanceOf returns the user's balance in nanoton.
func (s *LedgerServiceImpl) BalanceOf(ctx context.Context, userID int64) (*big.Int, error) {
	balance, err := s.ledgerRepo.BalanceOf(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return balance, nil
}

// History returns the user's newest entries first.
func (s *LedgerServiceImpl) History(ctx context.Context, userID int64, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	entries, err := s.ledgerRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return entries, nil
}
