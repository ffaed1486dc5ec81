package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"

	"github.com/rs/zerolog"
)

// DisbursementEngine pays out queued withdrawals one at a time from the
// treasury wallet. Only one engine may run against a treasury key.
type DisbursementEngine struct {
	withdrawalRepo ports.WithdrawalRepository
	treasury       *TreasuryContext
	settler        *settler
	minWithdraw    *big.Int
	log            zerolog.Logger
}

// NewDisbursementEngine creates a new DisbursementEngine.
func NewDisbursementEngine(
	withdrawalRepo ports.WithdrawalRepository,
	ledgerRepo ports.LedgerRepository,
	transactor ports.DBTransactor,
	treasury *TreasuryContext,
	minWithdraw *big.Int,
	log zerolog.Logger,
) *DisbursementEngine {
	return &DisbursementEngine{
		withdrawalRepo: withdrawalRepo,
		treasury:       treasury,
		settler: &settler{
			withdrawalRepo: withdrawalRepo,
			ledgerRepo:     ledgerRepo,
			transactor:     transactor,
		},
		minWithdraw: new(big.Int).Set(minWithdraw),
		log:         log,
	}
}

// Tick pays at most one withdrawal, the oldest queued one.
func (e *DisbursementEngine) Tick(ctx context.Context) error {
	if e.treasury.Disabled() {
		return nil
	}

	w, err := e.withdrawalRepo.OldestQueued(ctx)
	if err != nil {
		return fmt.Errorf("find queued withdrawal: %w", err)
	}
	if w == nil {
		return nil
	}

	// The wallet is opened before claiming so a misconfigured treasury
	// never consumes queued withdrawals.
	wallet, err := e.treasury.Wallet(ctx)
	if err != nil {
		return nil
	}

	claimed, err := e.withdrawalRepo.Claim(ctx, w.ID)
	if err != nil {
		return fmt.Errorf("claim withdrawal %d: %w", w.ID, err)
	}
	if !claimed {
		e.log.Debug().Int64("withdrawal_id", w.ID).Msg("withdrawal claimed elsewhere")
		return nil
	}

	if reason := e.validate(w); reason != "" {
		return e.fail(ctx, w, reason, nil)
	}

	seqno, err := wallet.Seqno(ctx)
	if err != nil {
		return e.fail(ctx, w, domain.ReasonSendFailed, err)
	}

	ref, err := wallet.Transfer(ctx, seqno, w.ToAddress, w.Amount)
	if err != nil {
		return e.fail(ctx, w, domain.FailureReason(err), err)
	}

	var txHash *string
	if ref != "" {
		txHash = &ref
	}
	changed, err := e.settler.payWithdrawal(ctx, w, txHash)
	if err != nil {
		// The transfer is out; leave the row processing for an operator.
		e.log.Error().Err(err).
			Int64("withdrawal_id", w.ID).
			Uint32("seqno", seqno).
			Msg("transfer sent but withdrawal not marked paid")
		return fmt.Errorf("mark withdrawal %d paid: %w", w.ID, err)
	}
	if !changed {
		e.log.Warn().Int64("withdrawal_id", w.ID).Msg("withdrawal left processing during payout")
		return nil
	}

	e.log.Info().
		Int64("withdrawal_id", w.ID).
		Int64("user_id", w.UserID).
		Str("amount", w.Amount.String()).
		Uint32("seqno", seqno).
		Msg("withdrawal paid")
	return nil
}

func (e *DisbursementEngine) validate(w *domain.Withdrawal) string {
	if w.Amount == nil || w.Amount.Cmp(e.minWithdraw) < 0 {
		return domain.ReasonMinWithdraw
	}
	if strings.TrimSpace(w.ToAddress) == "" {
		return domain.ReasonWalletRequired
	}
	return ""
}

func (e *DisbursementEngine) fail(ctx context.Context, w *domain.Withdrawal, reason string, cause error) error {
	changed, err := e.settler.failWithdrawal(ctx, w, reason)
	if err != nil {
		return fmt.Errorf("fail withdrawal %d: %w", w.ID, err)
	}
	if !changed {
		return nil
	}
	e.log.Warn().Err(cause).
		Int64("withdrawal_id", w.ID).
		Int64("user_id", w.UserID).
		Str("reason", reason).
		Msg("withdrawal failed and refunded")
	return nil
}
