package handler

import (
	"errors"
	"io"

	"payments-worker/internal/adapter/http/dto"
	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
	"payments-worker/pkg/apperror"
	"payments-worker/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves operator overrides.
type AdminHandler struct {
	adminSvc ports.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// ConfirmDeposit handles POST /api/v1/admin/deposits/:id/confirm.
func (h *AdminHandler) ConfirmDeposit(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	already, err := h.adminSvc.ConfirmDeposit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AdminActionResponse{ID: id, Status: string(domain.DepositStatusConfirmed), Already: already})
}

// PayWithdrawal handles POST /api/v1/admin/withdrawals/:id/pay.
func (h *AdminHandler) PayWithdrawal(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.PayWithdrawalRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	already, err := h.adminSvc.MarkWithdrawalPaid(c.Request.Context(), id, req.TxHash)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AdminActionResponse{ID: id, Status: string(domain.WithdrawalStatusPaid), Already: already})
}

// FailWithdrawal handles POST /api/v1/admin/withdrawals/:id/fail.
func (h *AdminHandler) FailWithdrawal(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.FailWithdrawalRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	already, err := h.adminSvc.FailWithdrawal(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AdminActionResponse{ID: id, Status: string(domain.WithdrawalStatusFailed), Already: already})
}

// bindOptionalJSON binds a body that may be absent entirely.
func bindOptionalJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.Validation(err.Error()))
		return false
	}
	dto.SanitizeStruct(out)
	return true
}
