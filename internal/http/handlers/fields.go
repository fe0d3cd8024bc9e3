package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldbooking/internal/http/middleware"
	"fieldbooking/internal/services"
)

// GET /api/fields
func GetFields(c *gin.Context) {
	svc := services.FieldService{
		Cache:     fieldCache,
		RequestID: middleware.GetRequestID(c),
	}
	fields, err := svc.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	Respond(c, http.StatusOK, "OK", fields)
}
