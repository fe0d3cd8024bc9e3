package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "fieldbooking/internal/config"
	h "fieldbooking/internal/http/handlers"
	"fieldbooking/internal/http/middleware"
	"fieldbooking/internal/services"
)

// NewRouter builds the Gin engine. Cache, notifier, and events may be nil;
// the handlers treat missing collaborators as disabled.
func NewRouter(env intconfig.Env, cache services.FieldCache, notifier services.Notifier, events services.EventPublisher) *gin.Engine {
	h.Configure(env, cache, notifier, events)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"message": "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	auth := middleware.Auth([]byte(env.JWTSecret))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", auth, h.Me)

		api.GET("/fields", h.GetFields)

		bookings := api.Group("/bookings")
		bookings.POST("", auth, h.CreateBooking)
		bookings.GET("/mine", auth, h.GetMyBookings)
		bookings.GET("/availability", auth, h.GetAvailability)
		bookings.PATCH("/cancel/:id", auth, h.CancelMyBooking)
		bookings.PATCH("/:id/status", auth, middleware.RequireAdmin(), h.AdminUpdateStatus)
		bookings.GET("/:id/receipt", auth, h.GetBookingReceipt)
	}

	return r
}
