package service

import (
	"context"
	"strings"

	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
	"payments-worker/pkg/apperror"

	"github.com/rs/zerolog"
)

// AdminServiceImpl implements ports.AdminService. Overrides go through the
// same conditional updates as the reconcilers and the disbursement engine.
type AdminServiceImpl struct {
	depositRepo    ports.DepositRepository
	withdrawalRepo ports.WithdrawalRepository
	settler        *settler
	log            zerolog.Logger
}

// NewAdminService creates a new AdminServiceImpl.
func NewAdminService(
	depositRepo ports.DepositRepository,
	withdrawalRepo ports.WithdrawalRepository,
	ledgerRepo ports.LedgerRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		depositRepo:    depositRepo,
		withdrawalRepo: withdrawalRepo,
		settler: &settler{
			depositRepo:    depositRepo,
			withdrawalRepo: withdrawalRepo,
			ledgerRepo:     ledgerRepo,
			transactor:     transactor,
		},
		log: log,
	}
}

// ConfirmDeposit force-confirms a deposit and credits its amount.
func (s *AdminServiceImpl) ConfirmDeposit(ctx context.Context, depositID int64) (bool, error) {
	d, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return false, apperror.ErrDatabaseError(err)
	}
	if d == nil {
		return false, apperror.ErrDepositNotFound()
	}

	changed, err := s.settler.confirmDeposit(ctx, d, nil, "admin")
	if err != nil {
		return false, apperror.ErrDatabaseError(err)
	}
	if changed {
		s.log.Info().
			Int64("deposit_id", d.ID).
			Int64("user_id", d.UserID).
			Str("amount", d.Amount.String()).
			Msg("deposit confirmed by operator")
		return false, nil
	}
	return s.depositOutcome(ctx, depositID)
}

func (s *AdminServiceImpl) depositOutcome(ctx context.Context, depositID int64) (bool, error) {
	d, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return false, apperror.ErrDatabaseError(err)
	}
	if d == nil {
		return false, apperror.ErrDepositNotFound()
	}
	if d.Status == domain.DepositStatusFailed {
		return false, apperror.ErrDepositFailed()
	}
	return true, nil
}

// MarkWithdrawalPaid records a payout sent outside the engine, or resolves a
// withdrawal stuck in processing after a successful send.
func (s *AdminServiceImpl) MarkWithdrawalPaid(ctx context.Context, withdrawalID int64, txHash string) (bool, error) {
	w, err := s.getWithdrawal(ctx, withdrawalID)
	if err != nil {
		return false, err
	}

	var ref *string
	if h := strings.TrimSpace(txHash); h != "" {
		ref = &h
	}

	changed, err := s.settler.payWithdrawal(ctx, w, ref)
	if err != nil {
		return false, apperror.ErrDatabaseError(err)
	}
	if changed {
		s.log.Info().
			Int64("withdrawal_id", w.ID).
			Int64("user_id", w.UserID).
			Str("amount", w.Amount.String()).
			Msg("withdrawal marked paid by operator")
		return false, nil
	}

	w, err = s.getWithdrawal(ctx, withdrawalID)
	if err != nil {
		return false, err
	}
	if w.Status == domain.WithdrawalStatusFailed {
		return false, apperror.ErrWithdrawalFailed()
	}
	return true, nil
}

// FailWithdrawal fails a processing withdrawal and refunds it.
func (s *AdminServiceImpl) FailWithdrawal(ctx context.Context, withdrawalID int64, reason string) (bool, error) {
	w, err := s.getWithdrawal(ctx, withdrawalID)
	if err != nil {
		return false, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = domain.ReasonWithdrawFailed
	}

	changed, err := s.settler.failWithdrawal(ctx, w, reason)
	if err != nil {
		return false, apperror.ErrDatabaseError(err)
	}
	if changed {
		s.log.Info().
			Int64("withdrawal_id", w.ID).
			Int64("user_id", w.UserID).
			Str("reason", reason).
			Msg("withdrawal failed by operator")
		return false, nil
	}

	w, err = s.getWithdrawal(ctx, withdrawalID)
	if err != nil {
		return false, err
	}
	if w.Status == domain.WithdrawalStatusFailed {
		return true, nil
	}
	return false, apperror.ErrWithdrawalNotProcessing()
}

func (s *AdminServiceImpl) getWithdrawal(ctx context.Context, withdrawalID int64) (*domain.Withdrawal, error) {
	w, err := s.withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if w == nil {
		return nil, apperror.ErrWithdrawalNotFound()
	}
	return w, nil
}

