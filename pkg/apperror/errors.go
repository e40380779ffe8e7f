package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers deciding whether to retry.
type Kind string

const (
	KindCaller    Kind = "caller"    // malformed input, not retriable
	KindTransient Kind = "transient" // store or ledger unreachable, retriable
	KindPending   Kind = "pending"   // nothing on the ledger yet, retriable
	KindMismatch  Kind = "mismatch"  // ledger data contradicts the intent
	KindFatal     Kind = "fatal"     // the process cannot safely continue
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Kind       Kind   `json:"-"`
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

// Retriable reports whether the same call may succeed later.
func (e *AppError) Retriable() bool {
	return e.Kind == KindTransient || e.Kind == KindPending
}

// New creates a new AppError.
func New(code string, message string, httpStatus int, kind Kind) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Kind:       kind,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, kind Kind, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Kind:       kind,
		Err:        err,
	}
}

// KindOf returns the Kind of the first AppError in err's chain, or KindFatal
// for unclassified errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindFatal
}

// ---- Payment intents (PAY) ----

func ErrInvalidAmount() *AppError {
	return New("PAY_001", "Invalid amount", http.StatusBadRequest, KindCaller)
}

func ErrInvalidReference() *AppError {
	return New("PAY_002", "Invalid reference", http.StatusBadRequest, KindCaller)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_003", fmt.Sprintf("%s not found", entity), http.StatusNotFound, KindCaller)
}

func ErrNoReceivingWallet() *AppError {
	return New("PAY_004", "Agent has no receiving wallet", http.StatusUnprocessableEntity, KindCaller)
}

// ---- Settlement (SET) ----

func ErrNotYetSettled() *AppError {
	return New("SET_001", "Payment not found on ledger yet", http.StatusAccepted, KindPending)
}

func ErrSettlementMismatch(detail string) *AppError {
	return New("SET_002", "Ledger transaction does not match payment intent: "+detail, http.StatusConflict, KindMismatch)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized, KindCaller)
}

func ErrSessionExpired() *AppError {
	return New("AUTH_002", "Recent sign in required", http.StatusUnauthorized, KindCaller)
}

func ErrAgentNotFound() *AppError {
	return New("AUTH_003", "No agent registered for this user", http.StatusForbidden, KindCaller)
}

func ErrIdentityUnavailable(err error) *AppError {
	return Wrap("AUTH_004", "Identity provider keys unavailable", http.StatusServiceUnavailable, KindTransient, err)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests, KindTransient)
}

// ---- System & Infrastructure (SYS) ----

func ErrStoreUnavailable(err error) *AppError {
	return Wrap("SYS_001", "Intent store unavailable", http.StatusServiceUnavailable, KindTransient, err)
}

func ErrLedgerUnavailable(err error) *AppError {
	return Wrap("SYS_002", "Ledger unavailable", http.StatusServiceUnavailable, KindTransient, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, KindFatal, err)
}

func ErrEntropy(err error) *AppError {
	return Wrap("SYS_004", "Secure random source unavailable", http.StatusInternalServerError, KindFatal, err)
}

// InternalError wraps an internal error as a SYS_000 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_000", "Internal server error", http.StatusInternalServerError, KindFatal, err)
}

// Validation returns a caller error with a custom message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest, KindCaller)
}
