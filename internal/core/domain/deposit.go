package domain

import (
	"errors"
	"fmt"
	"math/big"
	"time"
)

// DepositStatus represents the lifecycle state of a deposit.
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "pending" // manual path, no provider correlation
	DepositStatusCreated   DepositStatus = "created" // tonconnect, awaiting source address
	DepositStatusSent      DepositStatus = "sent"    // tonconnect, source address known
	DepositStatusInvoice   DepositStatus = "invoice" // cryptobot, invoice being created
	DepositStatusActive    DepositStatus = "active"  // cryptobot, invoice open at provider
	DepositStatusConfirmed DepositStatus = "confirmed"
	DepositStatusFailed    DepositStatus = "failed"
)

// DepositMethod is the payment rail a deposit arrives through.
type DepositMethod string

const (
	DepositMethodManual     DepositMethod = "manual"
	DepositMethodTonConnect DepositMethod = "tonconnect"
	DepositMethodCryptoBot  DepositMethod = "cryptobot"
)

// ErrTransferAlreadyCredited means the chain transfer already confirmed another deposit.
var ErrTransferAlreadyCredited = errors.New("transfer already credited to another deposit")

// Deposit is the per-payment state machine record for an inbound payment.
type Deposit struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	Amount        *big.Int      `json:"amount"` // nanoton
	Status        DepositStatus `json:"status"`
	Method        DepositMethod `json:"method"`
	Comment       *string       `json:"comment,omitempty"`
	SourceAddress *string       `json:"source_address,omitempty"`
	InvoiceID     *int64        `json:"invoice_id,omitempty"`
	TxHash        *string       `json:"tx_hash,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	ConfirmedAt   *time.Time    `json:"confirmed_at,omitempty"`
}

// IsTerminal returns true if the deposit is confirmed or failed.
func (d *Deposit) IsTerminal() bool {
	return d.Status == DepositStatusConfirmed || d.Status == DepositStatusFailed
}

// IsAwaitingChain reports whether the on-chain reconciler should look at it.
func (d *Deposit) IsAwaitingChain() bool {
	return d.Method == DepositMethodTonConnect &&
		(d.Status == DepositStatusCreated || d.Status == DepositStatusSent)
}

// IsAwaitingInvoice reports whether the invoice reconciler should look at it.
func (d *Deposit) IsAwaitingInvoice() bool {
	return d.Method == DepositMethodCryptoBot && d.InvoiceID != nil &&
		(d.Status == DepositStatusInvoice || d.Status == DepositStatusActive)
}

// Source returns the submitted source address or "".
func (d *Deposit) Source() string {
	if d.SourceAddress == nil {
		return ""
	}
	return *d.SourceAddress
}

// DepositComment builds the transfer comment shown to the user, e.g. TC-42-1700000000000.
func DepositComment(prefix string, userID int64, at time.Time) string {
	return fmt.Sprintf("%s-%d-%d", prefix, userID, at.UnixMilli())
}

// InvoicePayload is the correlation payload sent to the invoice provider.
func InvoicePayload(depositID int64) string {
	return fmt.Sprintf("dep:%d", depositID)
}
