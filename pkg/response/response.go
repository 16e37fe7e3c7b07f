package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// APIResponse is the envelope every endpoint returns. Failed responses also
// carry the message as detail, the field older clients of this API read.
type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Detail    string    `json:"detail,omitempty"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

func envelope[T any](ctx *gin.Context, status int, message string) APIResponse[T] {
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString(RequestIDKey),
		Message:   message,
	}
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	r := envelope[T](ctx, status, message)
	r.Success = true
	r.Data = data
	r.Meta = meta
	return r
}

func Error[T any](ctx *gin.Context, status int, message string, err any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	r := envelope[T](ctx, status, message)
	r.Detail = message
	r.Error = err
	return r
}

// Send writes r as JSON with its own status code.
func Send[T any](ctx *gin.Context, r APIResponse[T]) {
	ctx.JSON(r.Status, r)
}

// Abort writes r as JSON and stops the handler chain.
func Abort[T any](ctx *gin.Context, r APIResponse[T]) {
	ctx.AbortWithStatusJSON(r.Status, r)
}
