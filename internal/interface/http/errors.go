package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
)

const genericFailure = "something went wrong"

func statusOf(code shared.ErrorCode) int {
	switch code {
	case shared.CodeValidation:
		return http.StatusBadRequest
	case shared.CodeNotFound:
		return http.StatusNotFound
	case shared.CodeConflict, shared.CodeInvariantViolation:
		return http.StatusConflict
	case shared.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case shared.CodeAccountNotActive:
		return http.StatusForbidden
	case shared.CodeRetryable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError maps err onto a status and envelope. Messages of server-side
// failures are not exposed; the cause goes to the request log instead.
func writeError(c *gin.Context, err error) {
	code := shared.CodeOf(err)
	status := statusOf(code)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		msg := genericFailure
		if code == shared.CodeRetryable {
			msg = "temporarily unavailable, please retry"
		}
		response.Error(c, status, msg, nil)
		return
	}
	response.Error(c, status, shared.MessageOf(err), gin.H{"code": code})
}
