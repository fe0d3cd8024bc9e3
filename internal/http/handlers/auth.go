package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldbooking/internal/http/middleware"
	"fieldbooking/internal/services"
)

func authService() services.AuthService {
	return services.AuthService{
		Secret: []byte(env.JWTSecret),
		Expiry: env.JWTExpiry,
	}
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req services.RegisterInput
	if !BindJSONOrError(c, &req) {
		return
	}

	user, token, err := authService().Register(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	Respond(c, http.StatusCreated, "Registered", gin.H{
		"user":  user,
		"token": token,
	})
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req services.LoginInput
	if !BindJSONOrError(c, &req) {
		return
	}

	user, token, err := authService().Login(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	Respond(c, http.StatusOK, "OK", gin.H{
		"user":  user,
		"token": token,
	})
}

// GET /api/auth/me
func Me(c *gin.Context) {
	user, err := authService().Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	Respond(c, http.StatusOK, "OK", user)
}
