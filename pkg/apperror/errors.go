package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Deposits (DEP) ----

func ErrInvalidAmount() *AppError {
	return New("DEP_001", "Invalid amount", http.StatusBadRequest)
}

func ErrDepositNotFound() *AppError {
	return New("DEP_002", "Deposit not found", http.StatusNotFound)
}

func ErrRailDisabled(rail string) *AppError {
	return New("DEP_003", fmt.Sprintf("%s deposits are not configured", rail), http.StatusServiceUnavailable)
}

func ErrInvoiceFailed(err error) *AppError {
	return Wrap("DEP_004", "Invoice could not be created", http.StatusBadGateway, err)
}

func ErrDepositFailed() *AppError {
	return New("DEP_005", "Deposit has already failed", http.StatusConflict)
}

func ErrDepositNotOpen() *AppError {
	return New("DEP_006", "Deposit does not accept a source address", http.StatusConflict)
}

// ---- Withdrawals (WDR) ----

func ErrBelowMinimum(minimum string) *AppError {
	return New("WDR_001", fmt.Sprintf("Minimum withdrawal is %s TON", minimum), http.StatusBadRequest)
}

func ErrWalletRequired() *AppError {
	return New("WDR_002", "Destination wallet address is required", http.StatusBadRequest)
}

func ErrInsufficientBalance() *AppError {
	return New("WDR_003", "Insufficient balance", http.StatusPaymentRequired)
}

func ErrWithdrawalNotFound() *AppError {
	return New("WDR_004", "Withdrawal not found", http.StatusNotFound)
}

func ErrWithdrawalFailed() *AppError {
	return New("WDR_005", "Withdrawal has already failed", http.StatusConflict)
}

func ErrWithdrawalNotProcessing() *AppError {
	return New("WDR_006", "Withdrawal is not processing", http.StatusConflict)
}

// ---- Admin (ADM) ----

func ErrUnauthorized() *AppError {
	return New("ADM_001", "Invalid or missing admin token", http.StatusUnauthorized)
}

func ErrAdminDisabled() *AppError {
	return New("ADM_002", "Admin API is disabled", http.StatusServiceUnavailable)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_002 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_002", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}
