package handler

import (
	"strconv"

	"payments-worker/internal/adapter/http/dto"
	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
	"payments-worker/pkg/apperror"
	"payments-worker/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves balance and ledger endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// GetBalance handles GET /api/v1/users/:id/balance.
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	balance, err := h.ledgerSvc.BalanceOf(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		UserID:     userID,
		Balance:    balance.String(),
		BalanceTON: domain.FormatTON(balance),
	})
}

// ListEntries handles GET /api/v1/users/:id/ledger.
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.ledgerSvc.History(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.LedgerEntryResponse{
			ID:        e.ID,
			Kind:      string(e.Kind),
			Amount:    e.Amount.String(),
			Metadata:  e.Metadata,
			CreatedAt: formatTime(e.CreatedAt),
		})
	}
	response.OK(c, items)
}

// AddEntry handles POST /api/v1/users/:id/ledger.
func (h *LedgerHandler) AddEntry(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.LedgerAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	amount, err := domain.ParseNano(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	entry, err := h.ledgerSvc.Add(c.Request.Context(), userID, domain.EntryKind(req.Kind), amount, req.Metadata)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.LedgerEntryResponse{
		ID:        entry.ID,
		Kind:      string(entry.Kind),
		Amount:    entry.Amount.String(),
		Metadata:  entry.Metadata,
		CreatedAt: formatTime(entry.CreatedAt),
	})
}
