package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

// Success writes a success envelope around data.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

func errorBody(ctx *gin.Context, status int, message string, err any) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[any]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
}

// Error writes a failure envelope. err carries optional details.
func Error(ctx *gin.Context, status int, message string, err any) {
	body := errorBody(ctx, status, message, err)
	ctx.JSON(body.Status, body)
}

// Abort writes a failure envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string, err any) {
	body := errorBody(ctx, status, message, err)
	ctx.AbortWithStatusJSON(body.Status, body)
}
