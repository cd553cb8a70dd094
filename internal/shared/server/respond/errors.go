package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grant-backend/internal/shared/faults"
	"grant-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if email := c.GetString("adminEmail"); email != "" {
		fields["admin_email"] = email
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Failure maps a service error onto the shared taxonomy and responds with
// the matching status and stable machine-readable code. Messages stay
// generic; internal detail never leaves the process.
func Failure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, faults.ErrInvalidInput):
		Error(c, http.StatusBadRequest, "invalid_input", err.Error(), nil)
	case errors.Is(err, faults.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid credential", nil)
	case errors.Is(err, faults.ErrForbidden):
		Error(c, http.StatusForbidden, "forbidden", "not permitted", nil)
	case errors.Is(err, faults.ErrNotFound):
		Error(c, http.StatusNotFound, "not_found", "no such record", nil)
	case errors.Is(err, faults.ErrGone):
		Error(c, http.StatusGone, "gone", "token already used or expired", nil)
	case errors.Is(err, faults.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, "rate_limited", "too many requests", nil)
	case errors.Is(err, faults.ErrUpstream):
		Error(c, http.StatusInternalServerError, "upstream_error", "backend unavailable", nil)
	default:
		Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
	}
}
