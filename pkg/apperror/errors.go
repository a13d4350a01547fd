package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
	Details    any    `json:"details,omitempty"`
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

// Error codes.
const (
	CodeInsufficientFunds = "WAL_001"
	CodeInvalidAmount     = "WAL_002"
	CodeDuplicateResource = "WAL_003"
	CodeNotFound          = "WAL_004"
	CodeInvalidRange      = "RATE_001"
	CodeUpstreamFailure   = "RATE_002"
	CodePartialSplit      = "ORD_001"
	CodeInvalidSignature  = "SEC_001"
	CodeRateLimited       = "SEC_002"
	CodeInternal          = "SYS_001"
	CodeValidation        = "VAL_001"
)

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

// WithDetails attaches client-visible context, such as the vendor groups a
// failed split already settled.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}

// ---- Wallet Ledger (WAL) ----

func ErrInsufficientFunds() *AppError {
	return New(CodeInsufficientFunds, "Insufficient balance in wallet account", http.StatusPaymentRequired)
}

func ErrInvalidAmount(reason string) *AppError {
	return New(CodeInvalidAmount, "Invalid amount: "+reason, http.StatusBadRequest)
}

func ErrDuplicateResource(resource string) *AppError {
	return New(CodeDuplicateResource, fmt.Sprintf("Duplicate %s", resource), http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Exchange rates & upstream calls (RATE) ----

func ErrInvalidRange() *AppError {
	return New(CodeInvalidRange, "Start date must not be after end date", http.StatusBadRequest)
}

func ErrUpstreamFailure(service string, err error) *AppError {
	return Wrap(CodeUpstreamFailure, fmt.Sprintf("%s unavailable", service), http.StatusBadGateway, err)
}

// ---- Order splitting (ORD) ----

func ErrPartialSplitFailure(err error) *AppError {
	return Wrap(CodePartialSplit, "Order split stopped after completing some vendor groups", http.StatusInternalServerError, err)
}

// ---- Security (SEC) ----

func ErrInvalidSignature() *AppError {
	return New(CodeInvalidSignature, "Invalid signature", http.StatusUnauthorized)
}

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}
