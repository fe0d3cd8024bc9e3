package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	intconfig "fieldbooking/internal/config"
)

// GET /api/health
func Health(c *gin.Context) {
	Respond(c, http.StatusOK, "Backend running", nil)
}

// GET /api/db-check
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		RespondError(c, http.StatusInternalServerError, "database unreachable", err)
		return
	}
	Respond(c, http.StatusOK, "database ok", nil)
}
