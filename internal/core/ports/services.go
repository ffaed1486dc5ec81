package ports

import (
	"context"
	"math/big"

	"payments-worker/internal/core/domain"
)

// LedgerService exposes ledger writes and balance reads.
type LedgerService interface {
	Add(ctx context.Context, userID int64, kind domain.EntryKind, amount *big.Int, metadata map[string]any) (*domain.LedgerEntry, error)
	BalanceOf(ctx context.Context, userID int64) (*big.Int, error)
	History(ctx context.Context, userID int64, limit int) ([]domain.LedgerEntry, error)
}

// TonConnectDeposit is the result of creating a wallet-transfer deposit.
type TonConnectDeposit struct {
	Deposit         *domain.Deposit
	TreasuryAddress string
}

// CryptoBotDeposit is the result of creating an invoice deposit.
type CryptoBotDeposit struct {
	Deposit *domain.Deposit
	PayURL  string
}

// DepositService creates and reads deposit records.
type DepositService interface {
	CreateManual(ctx context.Context, userID int64, amount *big.Int) (*domain.Deposit, error)
	CreateTonConnect(ctx context.Context, userID int64, amount *big.Int) (*TonConnectDeposit, error)
	SubmitSource(ctx context.Context, userID, depositID int64, source string) error
	CreateCryptoBot(ctx context.Context, userID int64, amount *big.Int) (*CryptoBotDeposit, error)
	Get(ctx context.Context, depositID int64) (*domain.Deposit, error)
}

// WithdrawalRequest holds validated input for a payout request.
type WithdrawalRequest struct {
	UserID    int64
	Amount    *big.Int
	ToAddress string
}

// WithdrawalService creates and reads withdrawal records.
type WithdrawalService interface {
	Request(ctx context.Context, req WithdrawalRequest) (*domain.Withdrawal, error)
	Get(ctx context.Context, withdrawalID int64) (*domain.Withdrawal, error)
}

// AdminService holds operator overrides. The bool result reports that the
// record was already in the requested state and nothing changed.
type AdminService interface {
	ConfirmDeposit(ctx context.Context, depositID int64) (bool, error)
	MarkWithdrawalPaid(ctx context.Context, withdrawalID int64, txHash string) (bool, error)
	FailWithdrawal(ctx context.Context, withdrawalID int64, reason string) (bool, error)
}
