package service

import (
	"context"
	"fmt"

	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"

	"github.com/rs/zerolog"
)

// Invoice statuses reported by the provider.
const (
	invoiceStatusPaid    = "paid"
	invoiceStatusExpired = "expired"
)

// InvoiceReconciler confirms invoice deposits the provider reports as paid.
type InvoiceReconciler struct {
	depositRepo ports.DepositRepository
	invoices    ports.InvoiceProvider
	settler     *settler
	batchSize   int
	log         zerolog.Logger
}

// NewInvoiceReconciler creates a new InvoiceReconciler.
func NewInvoiceReconciler(
	depositRepo ports.DepositRepository,
	ledgerRepo ports.LedgerRepository,
	transactor ports.DBTransactor,
	invoices ports.InvoiceProvider,
	batchSize int,
	log zerolog.Logger,
) *InvoiceReconciler {
	return &InvoiceReconciler{
		depositRepo: depositRepo,
		invoices:    invoices,
		settler: &settler{
			depositRepo: depositRepo,
			ledgerRepo:  ledgerRepo,
			transactor:  transactor,
		},
		batchSize: batchSize,
		log:       log,
	}
}

// Tick runs one reconciliation pass over open invoices.
func (r *InvoiceReconciler) Tick(ctx context.Context) error {
	pending, err := r.depositRepo.ListPending(ctx, domain.DepositMethodCryptoBot,
		[]domain.DepositStatus{domain.DepositStatusInvoice, domain.DepositStatusActive}, r.batchSize)
	if err != nil {
		return fmt.Errorf("list pending invoice deposits: %w", err)
	}

	byInvoice := make(map[int64]*domain.Deposit, len(pending))
	ids := make([]int64, 0, len(pending))
	for i := range pending {
		d := &pending[i]
		if !d.IsAwaitingInvoice() {
			continue
		}
		byInvoice[*d.InvoiceID] = d
		ids = append(ids, *d.InvoiceID)
	}
	if len(ids) == 0 {
		return nil
	}

	invoices, err := r.invoices.GetInvoices(ctx, ids)
	if err != nil {
		r.log.Warn().Err(err).Msg("invoice provider unavailable, skipping tick")
		return nil
	}

	for _, inv := range invoices {
		d, ok := byInvoice[inv.InvoiceID]
		if !ok {
			continue
		}

		switch inv.Status {
		case invoiceStatusPaid:
			changed, err := r.settler.confirmDeposit(ctx, d, nil, "invoice")
			if err != nil {
				return fmt.Errorf("confirm deposit %d: %w", d.ID, err)
			}
			if !changed {
				r.log.Debug().Int64("deposit_id", d.ID).Msg("deposit already resolved")
				continue
			}
			r.log.Info().
				Int64("deposit_id", d.ID).
				Int64("user_id", d.UserID).
				Int64("invoice_id", inv.InvoiceID).
				Str("amount", d.Amount.String()).
				Msg("invoice deposit confirmed")

		case invoiceStatusExpired:
			changed, err := r.depositRepo.MarkFailed(ctx, d.ID)
			if err != nil {
				return fmt.Errorf("fail expired deposit %d: %w", d.ID, err)
			}
			if changed {
				r.log.Info().Int64("deposit_id", d.ID).Int64("invoice_id", inv.InvoiceID).Msg("invoice expired")
			}
		}
	}
	return nil
}
