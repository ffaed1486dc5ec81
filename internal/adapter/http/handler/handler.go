package handler

import (
	"net/http"
	"strconv"
	"time"

	"payments-worker/internal/adapter/http/dto"
	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
	"payments-worker/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// HealthCheck pings every dependency and reports 503 when any is down.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation(name + " must be a positive integer")
	}
	return id, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toDepositResponse(d *domain.Deposit) dto.DepositResponse {
	return dto.DepositResponse{
		ID:            d.ID,
		UserID:        d.UserID,
		Amount:        d.Amount.String(),
		AmountTON:     domain.FormatTON(d.Amount),
		Method:        string(d.Method),
		Status:        string(d.Status),
		Comment:       d.Comment,
		SourceAddress: d.SourceAddress,
		InvoiceID:     d.InvoiceID,
		TxHash:        d.TxHash,
		CreatedAt:     formatTime(d.CreatedAt),
		ConfirmedAt:   formatTimePtr(d.ConfirmedAt),
	}
}

func toWithdrawalResponse(w *domain.Withdrawal) dto.WithdrawalResponse {
	return dto.WithdrawalResponse{
		ID:        w.ID,
		UserID:    w.UserID,
		Amount:    w.Amount.String(),
		AmountTON: domain.FormatTON(w.Amount),
		ToAddress: w.ToAddress,
		Status:    string(w.Status),
		Error:     w.Error,
		TxHash:    w.TxHash,
		CreatedAt: formatTime(w.CreatedAt),
		PaidAt:    formatTimePtr(w.PaidAt),
	}
}
