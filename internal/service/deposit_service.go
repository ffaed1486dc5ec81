package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
	"payments-worker/pkg/apperror"

	"github.com/rs/zerolog"
)

// InvoiceSettings holds what the invoice provider needs besides the amount.
type InvoiceSettings struct {
	Asset       string
	Description string
}

// DepositServiceImpl implements ports.DepositService.
type DepositServiceImpl struct {
	depositRepo     ports.DepositRepository
	ledgerRepo      ports.LedgerRepository
	transactor      ports.DBTransactor
	invoices        ports.InvoiceProvider // nil when invoice deposits are disabled
	invoiceSettings InvoiceSettings
	treasuryAddress string // empty when on-chain deposits are disabled
	log             zerolog.Logger
}

// NewDepositService creates a new DepositServiceImpl.
func NewDepositService(
	depositRepo ports.DepositRepository,
	ledgerRepo ports.LedgerRepository,
	transactor ports.DBTransactor,
	invoices ports.InvoiceProvider,
	invoiceSettings InvoiceSettings,
	treasuryAddress string,
	log zerolog.Logger,
) *DepositServiceImpl {
	return &DepositServiceImpl{
		depositRepo:     depositRepo,
		ledgerRepo:      ledgerRepo,
		transactor:      transactor,
		invoices:        invoices,
		invoiceSettings: invoiceSettings,
		treasuryAddress: strings.TrimSpace(treasuryAddress),
		log:             log,
	}
}

// CreateManual records a deposit resolved only by an operator.
func (s *DepositServiceImpl) CreateManual(ctx context.Context, userID int64, amount *big.Int) (*domain.Deposit, error) {
	if err := validateDepositInput(userID, amount); err != nil {
		return nil, err
	}
	d := newDeposit(userID, amount, domain.DepositMethodManual, domain.DepositStatusPending, "DEP")
	if err := s.createWithMarker(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// CreateTonConnect records a wallet-transfer deposit and returns the
// treasury address the user has to pay to.
func (s *DepositServiceImpl) CreateTonConnect(ctx context.Context, userID int64, amount *big.Int) (*ports.TonConnectDeposit, error) {
	if s.treasuryAddress == "" {
		return nil, apperror.ErrRailDisabled("tonconnect")
	}
	if err := validateDepositInput(userID, amount); err != nil {
		return nil, err
	}
	d := newDeposit(userID, amount, domain.DepositMethodTonConnect, domain.DepositStatusCreated, "TC")
	if err := s.createWithMarker(ctx, d); err != nil {
		return nil, err
	}
	return &ports.TonConnectDeposit{Deposit: d, TreasuryAddress: s.treasuryAddress}, nil
}

// SubmitSource records the address the user's wallet reported as sender.
func (s *DepositServiceImpl) SubmitSource(ctx context.Context, userID, depositID int64, source string) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return apperror.Validation("source_address is required")
	}

	ok, err := s.depositRepo.SetSourceAddress(ctx, depositID, userID, source)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if ok {
		s.log.Info().Int64("deposit_id", depositID).Int64("user_id", userID).Msg("deposit source submitted")
		return nil
	}

	d, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if d == nil || d.UserID != userID {
		return apperror.ErrDepositNotFound()
	}
	return apperror.ErrDepositNotOpen()
}

// CreateCryptoBot records an invoice deposit, then opens the invoice at the
// provider. A provider failure leaves the deposit failed.
func (s *DepositServiceImpl) CreateCryptoBot(ctx context.Context, userID int64, amount *big.Int) (*ports.CryptoBotDeposit, error) {
	if s.invoices == nil {
		return nil, apperror.ErrRailDisabled("cryptobot")
	}
	if err := validateDepositInput(userID, amount); err != nil {
		return nil, err
	}

	d := newDeposit(userID, amount, domain.DepositMethodCryptoBot, domain.DepositStatusInvoice, "")
	if err := s.createWithMarker(ctx, d); err != nil {
		return nil, err
	}

	inv, err := s.invoices.CreateInvoice(ctx, ports.CreateInvoiceRequest{
		Asset:       s.invoiceSettings.Asset,
		Amount:      domain.FormatTON(amount),
		Description: s.invoiceSettings.Description,
		Payload:     domain.InvoicePayload(d.ID),
	})
	if err != nil {
		s.log.Warn().Err(err).Int64("deposit_id", d.ID).Msg("invoice creation failed")
		if _, failErr := s.depositRepo.MarkFailed(ctx, d.ID); failErr != nil {
			s.log.Error().Err(failErr).Int64("deposit_id", d.ID).Msg("failed to mark deposit failed")
		}
		return nil, apperror.ErrInvoiceFailed(err)
	}

	attached, err := s.depositRepo.AttachInvoice(ctx, d.ID, inv.InvoiceID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !attached {
		s.log.Warn().Int64("deposit_id", d.ID).Int64("invoice_id", inv.InvoiceID).Msg("deposit left invoice state before the invoice was attached")
	}

	d.InvoiceID = &inv.InvoiceID
	d.Status = domain.DepositStatusActive

	s.log.Info().
		Int64("deposit_id", d.ID).
		Int64("invoice_id", inv.InvoiceID).
		Str("amount", amount.String()).
		Msg("invoice created")

	return &ports.CryptoBotDeposit{Deposit: d, PayURL: inv.PayURL}, nil
}

// Get returns a deposit by id.
func (s *DepositServiceImpl) Get(ctx context.Context, depositID int64) (*domain.Deposit, error) {
	d, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if d == nil {
		return nil, apperror.ErrDepositNotFound()
	}
	return d, nil
}

// createWithMarker inserts the deposit together with a zero-amount
// deposit_pending entry so the user's history shows the attempt.
func (s *DepositServiceImpl) createWithMarker(ctx context.Context, d *domain.Deposit) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.depositRepo.Create(ctx, dbTx, d); err != nil {
		return apperror.ErrDatabaseError(err)
	}

	marker := domain.NewLedgerEntry(d.UserID, domain.EntryDepositPending, nil, map[string]any{
		"deposit_id": d.ID,
		"method":     string(d.Method),
		"amount":     d.Amount.String(),
	})
	if err := s.ledgerRepo.Append(ctx, dbTx, marker); err != nil {
		return apperror.ErrDatabaseError(err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("deposit_id", d.ID).
		Int64("user_id", d.UserID).
		Str("method", string(d.Method)).
		Str("amount", d.Amount.String()).
		Msg("deposit created")
	return nil
}

func validateDepositInput(userID int64, amount *big.Int) error {
	if userID <= 0 {
		return apperror.Validation("user id must be positive")
	}
	if amount == nil || amount.Sign() <= 0 {
		return apperror.ErrInvalidAmount()
	}
	return nil
}

func newDeposit(userID int64, amount *big.Int, method domain.DepositMethod, status domain.DepositStatus, commentPrefix string) *domain.Deposit {
	d := &domain.Deposit{
		UserID: userID,
		Amount: new(big.Int).Set(amount),
		Status: status,
		Method: method,
	}
	if commentPrefix != "" {
		comment := domain.DepositComment(commentPrefix, userID, time.Now())
		d.Comment = &comment
	}
	return d
}
