package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
	"payments-worker/pkg/apperror"

	"github.com/rs/zerolog"
)

// WithdrawalServiceImpl implements ports.WithdrawalService.
type WithdrawalServiceImpl struct {
	withdrawalRepo ports.WithdrawalRepository
	ledgerRepo     ports.LedgerRepository
	transactor     ports.DBTransactor
	minWithdraw    *big.Int
	log            zerolog.Logger
}

// NewWithdrawalService creates a new WithdrawalServiceImpl. minWithdraw is in nanoton.
func NewWithdrawalService(
	withdrawalRepo ports.WithdrawalRepository,
	ledgerRepo ports.LedgerRepository,
	transactor ports.DBTransactor,
	minWithdraw *big.Int,
	log zerolog.Logger,
) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		withdrawalRepo: withdrawalRepo,
		ledgerRepo:     ledgerRepo,
		transactor:     transactor,
		minWithdraw:    new(big.Int).Set(minWithdraw),
		log:            log,
	}
}

// Request queues a payout and debits the balance in the same transaction.
// Concurrent requests of one user are serialised by the balance lock, so the
// balance can never be overdrawn.
func (s *WithdrawalServiceImpl) Request(ctx context.Context, req ports.WithdrawalRequest) (*domain.Withdrawal, error) {
	if req.UserID <= 0 {
		return nil, apperror.Validation("user id must be positive")
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Amount.Cmp(s.minWithdraw) < 0 {
		return nil, apperror.ErrBelowMinimum(domain.FormatTON(s.minWithdraw))
	}
	to := strings.TrimSpace(req.ToAddress)
	if to == "" {
		return nil, apperror.ErrWalletRequired()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	balance, err := s.ledgerRepo.BalanceOfForUpdate(ctx, dbTx, req.UserID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if balance.Cmp(req.Amount) < 0 {
		return nil, apperror.ErrInsufficientBalance()
	}

	w := &domain.Withdrawal{
		UserID:    req.UserID,
		Amount:    new(big.Int).Set(req.Amount),
		ToAddress: to,
		Status:    domain.WithdrawalStatusQueued,
	}
	if err := s.withdrawalRepo.Create(ctx, dbTx, w); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	debit := domain.NewLedgerEntry(req.UserID, domain.EntryWithdrawRequested, new(big.Int).Neg(req.Amount), map[string]any{
		"withdrawal_id": w.ID,
		"to_address":    to,
	})
	if err := s.ledgerRepo.Append(ctx, dbTx, debit); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("withdrawal_id", w.ID).
		Int64("user_id", w.UserID).
		Str("amount", w.Amount.String()).
		Msg("withdrawal queued")

	return w, nil
}

// Get returns a withdrawal by id.
func (s *WithdrawalServiceImpl) Get(ctx context.Context, withdrawalID int64) (*domain.Withdrawal, error) {
	w, err := s.withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if w == nil {
		return nil, apperror.ErrWithdrawalNotFound()
	}
	return w, nil
}
