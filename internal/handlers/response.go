package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gymbridge-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the association error taxonomy onto statuses.
// Force conflicts get 409 so clients can re-prompt and retry with force.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		RespondError(c, http.StatusNotFound, "client_not_found", err)
	case errors.Is(err, services.ErrPlanNotFound):
		RespondError(c, http.StatusNotFound, "plan_not_found", err)
	case errors.Is(err, services.ErrContractNotFound):
		RespondError(c, http.StatusNotFound, "contract_not_found", err)
	case errors.Is(err, services.ErrTrackingNotFound):
		RespondError(c, http.StatusNotFound, "tracking_not_found", err)
	case errors.Is(err, services.ErrForceRequired):
		RespondError(c, http.StatusConflict, "force_required", err)
	case errors.Is(err, services.ErrIllegalTransition):
		RespondError(c, http.StatusConflict, "illegal_transition", err)
	case errors.Is(err, services.ErrPlanNotActive),
		errors.Is(err, services.ErrLevelMismatch),
		errors.Is(err, services.ErrAlreadyAssociated),
		errors.Is(err, services.ErrNotAssociated):
		RespondError(c, http.StatusUnprocessableEntity, "precondition_failed", err)
	case errors.Is(err, services.ErrTransactionAborted):
		RespondError(c, http.StatusServiceUnavailable, "transaction_aborted", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
