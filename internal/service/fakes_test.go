package service

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"payments-worker/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// mockTx implements pgx.Tx for gomock-based tests.
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

type sentTransfer struct {
	seqno  uint32
	to     string
	amount *big.Int
}

type fakeWallet struct {
	mu      sync.Mutex
	seqno   uint32
	sent    []sentTransfer
	sendErr error
}

func (w *fakeWallet) Address() string { return "EQtreasury" }

func (w *fakeWallet) Seqno(_ context.Context) (uint32, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seqno, nil
}

func (w *fakeWallet) Transfer(_ context.Context, seqno uint32, to string, amount *big.Int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sendErr != nil {
		return "", w.sendErr
	}
	w.sent = append(w.sent, sentTransfer{seqno: seqno, to: to, amount: new(big.Int).Set(amount)})
	w.seqno++
	return "", nil
}

func (w *fakeWallet) transfers() []sentTransfer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]sentTransfer(nil), w.sent...)
}

type fakeOpener struct {
	wallet ports.TreasuryWallet
	err    error
	calls  int
}

func (o *fakeOpener) Open(_ context.Context) (ports.TreasuryWallet, error) {
	o.calls++
	if o.err != nil {
		return nil, o.err
	}
	return o.wallet, nil
}

type fakeIndexer struct {
	transfers []ports.InboundTransfer
	err       error
}

func (f *fakeIndexer) InboundTransfers(_ context.Context, _ string, limit int) ([]ports.InboundTransfer, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.transfers) > limit {
		return f.transfers[:limit], nil
	}
	return f.transfers, nil
}

// lowerCanon treats addresses that differ only in case as the same account.
type lowerCanon struct{}

func (lowerCanon) Canonical(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
