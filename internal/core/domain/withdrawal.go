package domain

import (
	"errors"
	"math/big"
	"time"
)

// WithdrawalStatus represents the lifecycle state of a withdrawal.
type WithdrawalStatus string

const (
	WithdrawalStatusQueued     WithdrawalStatus = "queued"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusPaid       WithdrawalStatus = "paid"
	WithdrawalStatusFailed     WithdrawalStatus = "failed"
)

// Failure reasons recorded on withdrawals. Users only ever see these codes.
const (
	ReasonMinWithdraw    = "min_withdraw"
	ReasonWalletRequired = "wallet_required"
	ReasonBadAddress     = "bad_address"
	ReasonAmountTooLarge = "amount_too_large"
	ReasonSeqnoChanged   = "seqno_changed"
	ReasonSendFailed     = "send_failed"
	ReasonWithdrawFailed = "withdraw_failed"
)

// Treasury errors. FailureReason maps them onto stored reason codes.
var (
	ErrBadTreasuryMnemonic = errors.New("bad_treasury_mnemonic")
	ErrBadDestination      = errors.New("bad destination address")
	ErrAmountTooLarge      = errors.New("amount does not fit a single transfer")
	ErrSeqnoChanged        = errors.New("treasury seqno changed before submission")
)

// FailureReason returns the reason code recorded for a failed payout.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrBadDestination):
		return ReasonBadAddress
	case errors.Is(err, ErrAmountTooLarge):
		return ReasonAmountTooLarge
	case errors.Is(err, ErrSeqnoChanged):
		return ReasonSeqnoChanged
	default:
		return ReasonSendFailed
	}
}

// Withdrawal is the per-payout state machine record.
type Withdrawal struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Amount    *big.Int         `json:"amount"` // nanoton, positive
	ToAddress string           `json:"to_address"`
	Status    WithdrawalStatus `json:"status"`
	Error     *string          `json:"error,omitempty"`
	TxHash    *string          `json:"tx_hash,omitempty"` // best effort
	CreatedAt time.Time        `json:"created_at"`
	PaidAt    *time.Time       `json:"paid_at,omitempty"`
}

// IsTerminal returns true if the withdrawal is paid or failed.
func (w *Withdrawal) IsTerminal() bool {
	return w.Status == WithdrawalStatusPaid || w.Status == WithdrawalStatusFailed
}
