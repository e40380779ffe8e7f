// Package response writes the gateway's JSON envelopes.
package response

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pago-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key the request id middleware sets.
const RequestIDKey = "request_id"

// Seconds a client should wait before retrying, by error kind. A payment
// confirms within a few slots, while an unreachable store or ledger needs
// longer.
const (
	pendingRetryAfter   = 2
	transientRetryAfter = 5
)

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Retriable bool   `json:"retriable"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, data)
}

// Accepted reports work that is still in progress.
func Accepted(c *gin.Context, data interface{}) {
	write(c, http.StatusAccepted, data)
}

// Error maps err onto the error envelope. Errors outside the apperror
// taxonomy become an opaque SYS_000; retriable kinds carry Retry-After.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.New("SYS_000", "Internal server error", http.StatusInternalServerError, apperror.KindFatal)
	}

	switch appErr.Kind {
	case apperror.KindPending:
		c.Header("Retry-After", strconv.Itoa(pendingRetryAfter))
	case apperror.KindTransient:
		c.Header("Retry-After", strconv.Itoa(transientRetryAfter))
	}

	c.JSON(appErr.HTTPStatus, ErrorResponse{
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
		Retriable: appErr.Retriable(),
		RequestID: requestID(c),
		Timestamp: now(),
	})
}

func write(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: requestID(c),
		Timestamp: now(),
	})
}

func requestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return uuid.New().String()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
