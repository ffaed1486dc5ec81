package handler

import (
	"payments-worker/internal/adapter/http/dto"
	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
	"payments-worker/pkg/apperror"
	"payments-worker/pkg/response"

	"github.com/gin-gonic/gin"
)

// WithdrawalHandler serves withdrawal endpoints.
type WithdrawalHandler struct {
	withdrawalSvc ports.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalSvc ports.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc}
}

// Get handles GET /api/v1/withdrawals/:id.
func (h *WithdrawalHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	w, err := h.withdrawalSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWithdrawalResponse(w))
}

// Create handles POST /api/v1/users/:id/withdrawals.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := domain.ParseTON(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	w, err := h.withdrawalSvc.Request(c.Request.Context(), ports.WithdrawalRequest{
		UserID:    userID,
		Amount:    amount,
		ToAddress: req.ToAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toWithdrawalResponse(w))
}
