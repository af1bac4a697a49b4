package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "coursehub/backend/pkg/errors"
)

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsStoreUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Only server-side failures
// are logged; their detail is not sent to the client.
func respondError(c *gin.Context, log *zap.Logger, operation string, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var verr *apperrors.ErrValidation
	if errors.As(err, &verr) {
		body = gin.H{"error": verr.Reason, "field": verr.Field}
	}

	switch status {
	case http.StatusInternalServerError:
		log.Error("Request failed", zap.String("operation", operation), zap.Error(err))
		body = gin.H{"error": "internal error"}
	case http.StatusServiceUnavailable:
		log.Warn("Backing store unavailable", zap.String("operation", operation), zap.Error(err))
		body = gin.H{"error": "store unavailable", "retryable": apperrors.IsRetryable(err)}
	}
	c.JSON(status, body)
}

// badRequest reports a body or query string that could not be decoded
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
