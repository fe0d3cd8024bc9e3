package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldbooking/internal/domain"
)

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	case domain.IsInvalidState(err):
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	case domain.IsAuth(err):
		RespondError(c, http.StatusUnauthorized, err.Error(), nil)
	case domain.IsForbidden(err):
		RespondError(c, http.StatusForbidden, err.Error(), nil)
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error(), nil)
	case domain.IsConflict(err):
		RespondError(c, http.StatusConflict, err.Error(), nil)
	default:
		RespondError(c, http.StatusInternalServerError, "unexpected error", nil)
	}
}
