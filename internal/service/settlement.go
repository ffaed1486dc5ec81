package service

import (
	"context"
	"fmt"
	"time"

	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
)

// settler performs the terminal transitions of deposits and withdrawals.
// Each transition and its ledger entry commit in one transaction, and the
// entry is written only when the conditional update changed exactly one row.
type settler struct {
	depositRepo    ports.DepositRepository
	withdrawalRepo ports.WithdrawalRepository
	ledgerRepo     ports.LedgerRepository
	transactor     ports.DBTransactor
}

// confirmDeposit credits d.Amount to the owner. It reports false when the
// deposit was already terminal.
func (s *settler) confirmDeposit(ctx context.Context, d *domain.Deposit, txHash *string, via string) (bool, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	changed, err := s.depositRepo.MarkConfirmed(ctx, dbTx, d.ID, txHash, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	metadata := map[string]any{
		"deposit_id": d.ID,
		"method":     string(d.Method),
		"via":        via,
	}
	if txHash != nil {
		metadata["tx_hash"] = *txHash
	}
	if d.InvoiceID != nil {
		metadata["invoice_id"] = *d.InvoiceID
	}

	entry := domain.NewLedgerEntry(d.UserID, domain.EntryDepositConfirmed, d.Amount, metadata)
	if err := s.ledgerRepo.Append(ctx, dbTx, entry); err != nil {
		return false, err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return true, nil
}

// payWithdrawal records a successful payout with a zero-amount marker; the
// debit was written when the withdrawal was requested.
func (s *settler) payWithdrawal(ctx context.Context, w *domain.Withdrawal, txHash *string) (bool, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	changed, err := s.withdrawalRepo.MarkPaid(ctx, dbTx, w.ID, txHash, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	metadata := map[string]any{"withdrawal_id": w.ID, "to_address": w.ToAddress}
	if txHash != nil {
		metadata["tx_hash"] = *txHash
	}

	entry := domain.NewLedgerEntry(w.UserID, domain.EntryWithdrawPaid, nil, metadata)
	if err := s.ledgerRepo.Append(ctx, dbTx, entry); err != nil {
		return false, err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return true, nil
}

// failWithdrawal resolves a processing withdrawal as failed and refunds the
// full amount.
func (s *settler) failWithdrawal(ctx context.Context, w *domain.Withdrawal, reason string) (bool, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	changed, err := s.withdrawalRepo.MarkFailed(ctx, dbTx, w.ID, reason)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	entry := domain.NewLedgerEntry(w.UserID, domain.EntryWithdrawFailedRefund, w.Amount, map[string]any{
		"withdrawal_id": w.ID,
		"reason":        reason,
	})
	if err := s.ledgerRepo.Append(ctx, dbTx, entry); err != nil {
		return false, err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return true, nil
}
