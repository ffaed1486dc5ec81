package handler

import (
	"payments-worker/internal/adapter/http/dto"
	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
	"payments-worker/pkg/apperror"
	"payments-worker/pkg/response"

	"github.com/gin-gonic/gin"
)

// DepositHandler serves deposit endpoints.
type DepositHandler struct {
	depositSvc ports.DepositService
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(depositSvc ports.DepositService) *DepositHandler {
	return &DepositHandler{depositSvc: depositSvc}
}

// Get handles GET /api/v1/deposits/:id.
func (h *DepositHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	d, err := h.depositSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toDepositResponse(d))
}

// Create handles POST /api/v1/users/:id/deposits.
func (h *DepositHandler) Create(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateDepositRequest
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

	ctx := c.Request.Context()
	switch domain.DepositMethod(req.Method) {
	case domain.DepositMethodTonConnect:
		res, err := h.depositSvc.CreateTonConnect(ctx, userID, amount)
		if err != nil {
			response.Error(c, err)
			return
		}
		out := toDepositResponse(res.Deposit)
		out.TreasuryAddress = res.TreasuryAddress
		response.Created(c, out)

	case domain.DepositMethodCryptoBot:
		res, err := h.depositSvc.CreateCryptoBot(ctx, userID, amount)
		if err != nil {
			response.Error(c, err)
			return
		}
		out := toDepositResponse(res.Deposit)
		out.PayURL = res.PayURL
		response.Created(c, out)

	default:
		d, err := h.depositSvc.CreateManual(ctx, userID, amount)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, toDepositResponse(d))
	}
}

// SubmitSource handles POST /api/v1/users/:id/deposits/:deposit_id/source.
func (h *DepositHandler) SubmitSource(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	depositID, err := pathID(c, "deposit_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.SubmitSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.depositSvc.SubmitSource(c.Request.Context(), userID, depositID, req.SourceAddress); err != nil {
		response.Error(c, err)
		return
	}

	d, err := h.depositSvc.Get(c.Request.Context(), depositID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toDepositResponse(d))
}
