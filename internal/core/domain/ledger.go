package domain

import (
	"math/big"
	"time"
)

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	EntryDepositPending       EntryKind = "deposit_pending"
	EntryDepositConfirmed     EntryKind = "deposit_confirmed"
	EntryWithdrawRequested    EntryKind = "withdraw_requested"
	EntryWithdrawPaid         EntryKind = "withdraw_paid"
	EntryWithdrawFailedRefund EntryKind = "withdraw_failed_refund"
)

// LedgerEntry is an immutable signed balance delta. A user's balance is the
// sum of all their entries; entries are never updated or deleted.
type LedgerEntry struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Kind      EntryKind      `json:"kind"`
	Amount    *big.Int       `json:"amount"` // nanoton, signed
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewLedgerEntry builds an entry with a defensive copy of amount.
func NewLedgerEntry(userID int64, kind EntryKind, amount *big.Int, metadata map[string]any) *LedgerEntry {
	a := new(big.Int)
	if amount != nil {
		a.Set(amount)
	}
	return &LedgerEntry{
		UserID:   userID,
		Kind:     kind,
		Amount:   a,
		Metadata: metadata,
	}
}
