package handlers

import (
	"errors"
	"net/http"

	"autotrust/internal/domain"
	"autotrust/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads on the public API.
type ErrorResponse struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{Message: message, Code: code, RequestID: middleware.GetRequestID(c)})
}

// errorMessage is the user-facing text of a domain error.
func errorMessage(err error) string {
	var ve domain.ValidationError
	if errors.As(err, &ve) && ve.Msg != "" {
		return ve.Msg
	}
	return err.Error()
}

// RespondDomainError maps domain errors to HTTP responses. Upstream and
// unknown failures get a fixed message; the detail is only logged.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", errorMessage(err))
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", "Booking not found")
	default:
		logFailure(c, err)
		respondError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// Admin routes answer with {success:false, error}.
func adminError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		adminFail(c, http.StatusBadRequest, errorMessage(err))
	case domain.IsNotFound(err):
		adminFail(c, http.StatusNotFound, "Booking not found")
	default:
		logFailure(c, err)
		adminFail(c, http.StatusInternalServerError, "Internal server error")
	}
}
