package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("WDR_003", "Insufficient balance", http.StatusPaymentRequired),
			expected: "[WDR_003] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("DEP_001", "test", http.StatusBadRequest).Unwrap())
}

func TestErrorCatalogue(t *testing.T) {
	inner := errors.New("boom")
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidAmount", ErrInvalidAmount(), "DEP_001", 400},
		{"DepositNotFound", ErrDepositNotFound(), "DEP_002", 404},
		{"RailDisabled", ErrRailDisabled("tonconnect"), "DEP_003", 503},
		{"InvoiceFailed", ErrInvoiceFailed(inner), "DEP_004", 502},
		{"DepositFailed", ErrDepositFailed(), "DEP_005", 409},
		{"DepositNotOpen", ErrDepositNotOpen(), "DEP_006", 409},
		{"BelowMinimum", ErrBelowMinimum("1"), "WDR_001", 400},
		{"WalletRequired", ErrWalletRequired(), "WDR_002", 400},
		{"InsufficientBalance", ErrInsufficientBalance(), "WDR_003", 402},
		{"WithdrawalNotFound", ErrWithdrawalNotFound(), "WDR_004", 404},
		{"WithdrawalFailed", ErrWithdrawalFailed(), "WDR_005", 409},
		{"WithdrawalNotProcessing", ErrWithdrawalNotProcessing(), "WDR_006", 409},
		{"Unauthorized", ErrUnauthorized(), "ADM_001", 401},
		{"AdminDisabled", ErrAdminDisabled(), "ADM_002", 503},
		{"Database", ErrDatabaseError(inner), "SYS_001", 500},
		{"Internal", InternalError(inner), "SYS_002", 500},
		{"Validation", Validation("bad id"), "REQ_001", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestMessagesNeverLeakCause(t *testing.T) {
	err := ErrInvoiceFailed(errors.New("token 1234:AAA rejected"))
	assert.NotContains(t, err.Message, "1234:AAA")
	assert.Contains(t, ErrBelowMinimum("0.5").Message, "0.5 TON")
}
