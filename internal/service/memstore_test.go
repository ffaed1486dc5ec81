package service

import (
	"context"
	"encoding/json"
	"math/big"
	"slices"
	"sort"
	"sync"
	"time"

	"payments-worker/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// memStore is an in-memory stand-in for the postgres repositories. Each
// conditional update is atomic, and transactions are serialised and undone
// on rollback, which is what the services rely on from the database.
type memStore struct {
	txMu sync.Mutex

	mu          sync.Mutex
	nextID      int64
	entries     []domain.LedgerEntry
	deposits    map[int64]*domain.Deposit
	withdrawals map[int64]*domain.Withdrawal
	hashes      map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		deposits:    make(map[int64]*domain.Deposit),
		withdrawals: make(map[int64]*domain.Withdrawal),
		hashes:      make(map[string]int64),
	}
}

type memTx struct {
	pgx.Tx
	s    *memStore
	undo []func()
	done bool
}

func (s *memStore) Begin(_ context.Context) (pgx.Tx, error) {
	s.txMu.Lock()
	return &memTx{s: s}, nil
}

func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.s.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.s.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.s.mu.Unlock()
	t.done = true
	t.s.txMu.Unlock()
	return nil
}

func (t *memTx) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

func asMemTx(tx pgx.Tx) *memTx {
	return tx.(*memTx)
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func cloneDeposit(d *domain.Deposit) *domain.Deposit {
	c := *d
	c.Amount = new(big.Int).Set(d.Amount)
	return &c
}

func cloneWithdrawal(w *domain.Withdrawal) *domain.Withdrawal {
	c := *w
	c.Amount = new(big.Int).Set(w.Amount)
	return &c
}

// seedDeposit stores d as given, keeping its CreatedAt.
func (s *memStore) seedDeposit(d domain.Deposit) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.id()
	s.deposits[d.ID] = cloneDeposit(&d)
	return d.ID
}

// credit appends a committed balance entry outside any service.
func (s *memStore) credit(userID int64, amount *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := domain.NewLedgerEntry(userID, domain.EntryKind("bonus"), amount, nil)
	e.ID = s.id()
	e.CreatedAt = time.Now()
	s.entries = append(s.entries, *e)
}

func (s *memStore) entriesOf(userID int64, kind domain.EntryKind) []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if e.UserID == userID && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (s *memStore) deposit(id int64) domain.Deposit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *cloneDeposit(s.deposits[id])
}

func (s *memStore) withdrawal(id int64) domain.Withdrawal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *cloneWithdrawal(s.withdrawals[id])
}

// ---------- ledger ----------

type memLedgerRepo struct{ s *memStore }

func (r memLedgerRepo) Append(_ context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	// Metadata goes through JSON like it does in the jsonb column.
	if _, err := json.Marshal(entry.Metadata); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = r.s.id()
	entry.CreatedAt = time.Now()
	e := *entry
	e.Amount = new(big.Int).Set(entry.Amount)
	r.s.entries = append(r.s.entries, e)
	n := len(r.s.entries)
	asMemTx(tx).onRollback(func() { r.s.entries = r.s.entries[:n-1] })
	return nil
}

func (r memLedgerRepo) BalanceOf(_ context.Context, userID int64) (*big.Int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := new(big.Int)
	for _, e := range r.s.entries {
		if e.UserID == userID {
			sum.Add(sum, e.Amount)
		}
	}
	return sum, nil
}

func (r memLedgerRepo) BalanceOfForUpdate(ctx context.Context, _ pgx.Tx, userID int64) (*big.Int, error) {
	return r.BalanceOf(ctx, userID)
}

func (r memLedgerRepo) ListByUser(_ context.Context, userID int64, limit int) ([]domain.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.LedgerEntry
	for i := len(r.s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.entries[i].UserID == userID {
			out = append(out, r.s.entries[i])
		}
	}
	return out, nil
}

// ---------- deposits ----------

type memDepositRepo struct{ s *memStore }

func (r memDepositRepo) Create(_ context.Context, tx pgx.Tx, d *domain.Deposit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = r.s.id()
	d.CreatedAt = time.Now()
	r.s.deposits[d.ID] = cloneDeposit(d)
	id := d.ID
	asMemTx(tx).onRollback(func() { delete(r.s.deposits, id) })
	return nil
}

func (r memDepositRepo) GetByID(_ context.Context, id int64) (*domain.Deposit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deposits[id]
	if !ok {
		return nil, nil
	}
	return cloneDeposit(d), nil
}

func (r memDepositRepo) ListPending(_ context.Context, method domain.DepositMethod, statuses []domain.DepositStatus, limit int) ([]domain.Deposit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Deposit
	for _, d := range r.s.deposits {
		if d.Method == method && slices.Contains(statuses, d.Status) {
			out = append(out, *cloneDeposit(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memDepositRepo) SetSourceAddress(_ context.Context, id, userID int64, source string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deposits[id]
	if !ok || d.UserID != userID || !d.IsAwaitingChain() {
		return false, nil
	}
	d.SourceAddress = &source
	d.Status = domain.DepositStatusSent
	return true, nil
}

func (r memDepositRepo) AttachInvoice(_ context.Context, id, invoiceID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deposits[id]
	if !ok || d.Status != domain.DepositStatusInvoice {
		return false, nil
	}
	d.InvoiceID = &invoiceID
	d.Status = domain.DepositStatusActive
	return true, nil
}

func (r memDepositRepo) MarkConfirmed(_ context.Context, tx pgx.Tx, id int64, txHash *string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deposits[id]
	if !ok || d.IsTerminal() {
		return false, nil
	}
	if txHash != nil {
		if other, taken := r.s.hashes[*txHash]; taken && other != id {
			return false, domain.ErrTransferAlreadyCredited
		}
	}

	prev := cloneDeposit(d)
	d.Status = domain.DepositStatusConfirmed
	d.ConfirmedAt = &at
	if txHash != nil {
		d.TxHash = txHash
		r.s.hashes[*txHash] = id
	}
	asMemTx(tx).onRollback(func() {
		r.s.deposits[id] = prev
		if txHash != nil {
			delete(r.s.hashes, *txHash)
		}
	})
	return true, nil
}

func (r memDepositRepo) MarkFailed(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deposits[id]
	if !ok || d.IsTerminal() {
		return false, nil
	}
	d.Status = domain.DepositStatusFailed
	return true, nil
}

// ---------- withdrawals ----------

type memWithdrawalRepo struct{ s *memStore }

func (r memWithdrawalRepo) Create(_ context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w.ID = r.s.id()
	w.CreatedAt = time.Now()
	r.s.withdrawals[w.ID] = cloneWithdrawal(w)
	id := w.ID
	asMemTx(tx).onRollback(func() { delete(r.s.withdrawals, id) })
	return nil
}

func (r memWithdrawalRepo) GetByID(_ context.Context, id int64) (*domain.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.withdrawals[id]
	if !ok {
		return nil, nil
	}
	return cloneWithdrawal(w), nil
}

func (r memWithdrawalRepo) OldestQueued(_ context.Context) (*domain.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var oldest *domain.Withdrawal
	for _, w := range r.s.withdrawals {
		if w.Status == domain.WithdrawalStatusQueued && (oldest == nil || w.ID < oldest.ID) {
			oldest = w
		}
	}
	if oldest == nil {
		return nil, nil
	}
	return cloneWithdrawal(oldest), nil
}

func (r memWithdrawalRepo) Claim(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.withdrawals[id]
	if !ok || w.Status != domain.WithdrawalStatusQueued {
		return false, nil
	}
	w.Status = domain.WithdrawalStatusProcessing
	return true, nil
}

func (r memWithdrawalRepo) MarkPaid(_ context.Context, tx pgx.Tx, id int64, txHash *string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.withdrawals[id]
	if !ok || w.IsTerminal() {
		return false, nil
	}
	prev := cloneWithdrawal(w)
	w.Status = domain.WithdrawalStatusPaid
	w.PaidAt = &at
	if txHash != nil {
		w.TxHash = txHash
	}
	asMemTx(tx).onRollback(func() { r.s.withdrawals[id] = prev })
	return true, nil
}

func (r memWithdrawalRepo) MarkFailed(_ context.Context, tx pgx.Tx, id int64, reason string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.withdrawals[id]
	if !ok || w.Status != domain.WithdrawalStatusProcessing {
		return false, nil
	}
	prev := cloneWithdrawal(w)
	w.Status = domain.WithdrawalStatusFailed
	w.Error = &reason
	asMemTx(tx).onRollback(func() { r.s.withdrawals[id] = prev })
	return true, nil
}
