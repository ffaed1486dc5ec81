package ports

import (
	"context"
	"math/big"
	"time"
)

// InboundTransfer is one incoming message seen on the treasury account.
type InboundTransfer struct {
	Hash   string
	Source string // as returned by the indexer, not canonical
	Value  string // nanoton integer string, compared opaquely
	Utime  int64
}

// ChainIndexer lists recent transactions of an account.
type ChainIndexer interface {
	InboundTransfers(ctx context.Context, address string, limit int) ([]InboundTransfer, error)
}

// Invoice is the reconciliation-relevant view of a provider invoice.
type Invoice struct {
	InvoiceID int64
	Status    string // active, paid, expired
	PayURL    string
}

// CreateInvoiceRequest is the input for InvoiceProvider.CreateInvoice.
type CreateInvoiceRequest struct {
	Asset       string
	Amount      string // decimal asset units
	Description string
	Payload     string
}

// InvoiceProvider is the custodial invoice processor.
type InvoiceProvider interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error)
	GetInvoices(ctx context.Context, invoiceIDs []int64) ([]Invoice, error)
}

// TreasuryWallet signs and submits transfers from the treasury account.
// Implementations are not safe to share between processes holding the same key.
type TreasuryWallet interface {
	Address() string
	Seqno(ctx context.Context) (uint32, error)
	// Transfer submits one non-bounceable transfer authorised by seqno.
	// The returned reference may be empty.
	Transfer(ctx context.Context, seqno uint32, to string, amount *big.Int) (string, error)
}

// TreasuryOpener derives the treasury wallet from configured key material.
type TreasuryOpener interface {
	Open(ctx context.Context) (TreasuryWallet, error)
}

// AddressCanonicalizer maps any accepted address form to one comparable string.
type AddressCanonicalizer interface {
	Canonical(address string) string
}

// TickLease keeps one scheduler tick per job active across replicas.
type TickLease interface {
	Acquire(ctx context.Context, job string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, job string) error
}
