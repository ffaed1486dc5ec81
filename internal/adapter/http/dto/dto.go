package dto

// LedgerAddRequest is the body of POST /users/:id/ledger. Amount is a signed
// nanoton integer.
type LedgerAddRequest struct {
	Kind     string         `json:"kind" binding:"required,max=64,safe_id"`
	Amount   string         `json:"amount" binding:"required,nano_amount"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// CreateDepositRequest is the body of POST /users/:id/deposits. Amount is in TON.
type CreateDepositRequest struct {
	Method string `json:"method" binding:"required,oneof=manual tonconnect cryptobot"`
	Amount string `json:"amount" binding:"required,ton_amount"`
}

// SubmitSourceRequest carries the sender address reported by the user's wallet.
type SubmitSourceRequest struct {
	SourceAddress string `json:"source_address" binding:"required,max=128,ton_address"`
}

// CreateWithdrawalRequest is the body of POST /users/:id/withdrawals. Amount is in TON.
type CreateWithdrawalRequest struct {
	Amount    string `json:"amount" binding:"required,ton_amount"`
	ToAddress string `json:"to_address" binding:"max=128,ton_address"`
}

// PayWithdrawalRequest is the body of the admin pay override.
type PayWithdrawalRequest struct {
	TxHash string `json:"tx_hash" binding:"max=128"`
}

// FailWithdrawalRequest is the body of the admin fail override.
type FailWithdrawalRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=64,safe_id"`
}

// BalanceResponse reports a user's balance in nanoton and TON.
type BalanceResponse struct {
	UserID     int64  `json:"user_id"`
	Balance    string `json:"balance"`
	BalanceTON string `json:"balance_ton"`
}

// LedgerEntryResponse is one ledger entry.
type LedgerEntryResponse struct {
	ID        int64          `json:"id"`
	Kind      string         `json:"kind"`
	Amount    string         `json:"amount"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at"`
}

// DepositResponse is the public view of a deposit.
type DepositResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"user_id"`
	Amount          string  `json:"amount"`
	AmountTON       string  `json:"amount_ton"`
	Method          string  `json:"method"`
	Status          string  `json:"status"`
	Comment         *string `json:"comment,omitempty"`
	SourceAddress   *string `json:"source_address,omitempty"`
	InvoiceID       *int64  `json:"invoice_id,omitempty"`
	TxHash          *string `json:"tx_hash,omitempty"`
	CreatedAt       string  `json:"created_at"`
	ConfirmedAt     *string `json:"confirmed_at,omitempty"`
	TreasuryAddress string  `json:"treasury_address,omitempty"`
	PayURL          string  `json:"pay_url,omitempty"`
}

// WithdrawalResponse is the public view of a withdrawal.
type WithdrawalResponse struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"user_id"`
	Amount    string  `json:"amount"`
	AmountTON string  `json:"amount_ton"`
	ToAddress string  `json:"to_address"`
	Status    string  `json:"status"`
	Error     *string `json:"error,omitempty"`
	TxHash    *string `json:"tx_hash,omitempty"`
	CreatedAt string  `json:"created_at"`
	PaidAt    *string `json:"paid_at,omitempty"`
}

// AdminActionResponse reports the outcome of an override. Already is true
// when the record was in the requested state before the call.
type AdminActionResponse struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Already bool   `json:"already"`
}
