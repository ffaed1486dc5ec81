package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
	"payments-worker/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func int64Ptr(v int64) *int64 { return &v }

type invoiceTestDeps struct {
	r           *InvoiceReconciler
	depositRepo *mocks.MockDepositRepository
	ledgerRepo  *mocks.MockLedgerRepository
	transactor  *mocks.MockDBTransactor
	invoices    *mocks.MockInvoiceProvider
}

func setupInvoiceReconciler(t *testing.T) *invoiceTestDeps {
	ctrl := gomock.NewController(t)
	d := &invoiceTestDeps{
		depositRepo: mocks.NewMockDepositRepository(ctrl),
		ledgerRepo:  mocks.NewMockLedgerRepository(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		invoices:    mocks.NewMockInvoiceProvider(ctrl),
	}
	d.r = NewInvoiceReconciler(d.depositRepo, d.ledgerRepo, d.transactor, d.invoices, 50, zerolog.Nop())
	return d
}

var invoiceStatuses = []domain.DepositStatus{domain.DepositStatusInvoice, domain.DepositStatusActive}

func TestInvoiceReconciler_ConfirmsPaidInvoices(t *testing.T) {
	d := setupInvoiceReconciler(t)
	ctx := context.Background()
	tx := &mockTx{}

	d.depositRepo.EXPECT().ListPending(ctx, domain.DepositMethodCryptoBot, invoiceStatuses, 50).Return([]domain.Deposit{
		{ID: 1, UserID: 10, Amount: big.NewInt(oneTON), Method: domain.DepositMethodCryptoBot, Status: domain.DepositStatusActive, InvoiceID: int64Ptr(100)},
		{ID: 2, UserID: 11, Amount: big.NewInt(oneTON), Method: domain.DepositMethodCryptoBot, Status: domain.DepositStatusActive, InvoiceID: int64Ptr(200)},
		{ID: 3, UserID: 12, Amount: big.NewInt(oneTON), Method: domain.DepositMethodCryptoBot, Status: domain.DepositStatusInvoice},
	}, nil)
	d.invoices.EXPECT().GetInvoices(ctx, []int64{100, 200}).Return([]ports.Invoice{
		{InvoiceID: 100, Status: "paid"},
		{InvoiceID: 200, Status: "active"},
		{InvoiceID: 300, Status: "paid"},
	}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.depositRepo.EXPECT().MarkConfirmed(ctx, tx, int64(1), (*string)(nil), gomock.Any()).Return(true, nil)
	d.ledgerRepo.EXPECT().Append(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ any, e *domain.LedgerEntry) error {
			assert.Equal(t, int64(10), e.UserID)
			assert.Equal(t, domain.EntryDepositConfirmed, e.Kind)
			assert.Equal(t, int64(100), e.Metadata["invoice_id"])
			return nil
		})

	require.NoError(t, d.r.Tick(ctx))
}

func TestInvoiceReconciler_AlreadyConfirmedIsNoop(t *testing.T) {
	d := setupInvoiceReconciler(t)
	ctx := context.Background()
	tx := &mockTx{}

	d.depositRepo.EXPECT().ListPending(ctx, domain.DepositMethodCryptoBot, invoiceStatuses, 50).Return([]domain.Deposit{
		{ID: 1, UserID: 10, Amount: big.NewInt(oneTON), Method: domain.DepositMethodCryptoBot, Status: domain.DepositStatusActive, InvoiceID: int64Ptr(100)},
	}, nil)
	d.invoices.EXPECT().GetInvoices(ctx, []int64{100}).Return([]ports.Invoice{{InvoiceID: 100, Status: "paid"}}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.depositRepo.EXPECT().MarkConfirmed(ctx, tx, int64(1), gomock.Any(), gomock.Any()).Return(false, nil)

	require.NoError(t, d.r.Tick(ctx))
}

func TestInvoiceReconciler_ExpiredInvoiceFailsDeposit(t *testing.T) {
	d := setupInvoiceReconciler(t)
	ctx := context.Background()

	d.depositRepo.EXPECT().ListPending(ctx, domain.DepositMethodCryptoBot, invoiceStatuses, 50).Return([]domain.Deposit{
		{ID: 1, UserID: 10, Amount: big.NewInt(oneTON), Method: domain.DepositMethodCryptoBot, Status: domain.DepositStatusActive, InvoiceID: int64Ptr(100)},
	}, nil)
	d.invoices.EXPECT().GetInvoices(ctx, []int64{100}).Return([]ports.Invoice{{InvoiceID: 100, Status: "expired"}}, nil)
	d.depositRepo.EXPECT().MarkFailed(ctx, int64(1)).Return(true, nil)

	require.NoError(t, d.r.Tick(ctx))
}

func TestInvoiceReconciler_ProviderDownSkipsTick(t *testing.T) {
	d := setupInvoiceReconciler(t)
	ctx := context.Background()

	d.depositRepo.EXPECT().ListPending(ctx, domain.DepositMethodCryptoBot, invoiceStatuses, 50).Return([]domain.Deposit{
		{ID: 1, UserID: 10, Amount: big.NewInt(oneTON), Method: domain.DepositMethodCryptoBot, Status: domain.DepositStatusActive, InvoiceID: int64Ptr(100)},
	}, nil)
	d.invoices.EXPECT().GetInvoices(ctx, []int64{100}).Return(nil, errors.New("503"))

	assert.NoError(t, d.r.Tick(ctx))
}

func TestInvoiceReconciler_NothingPending(t *testing.T) {
	d := setupInvoiceReconciler(t)
	ctx := context.Background()

	d.depositRepo.EXPECT().ListPending(ctx, domain.DepositMethodCryptoBot, invoiceStatuses, 50).Return(nil, nil)

	assert.NoError(t, d.r.Tick(ctx))
}

func TestInvoiceReconciler_StoreError(t *testing.T) {
	d := setupInvoiceReconciler(t)

	d.depositRepo.EXPECT().ListPending(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("conn refused"))

	assert.Error(t, d.r.Tick(context.Background()))
}
