package routes

import (
	"studybuddy/handlers"
	"studybuddy/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	booking := r.Group("/api/bookings")
	booking.Use(middleware.JWTAuthMiddleware(hb.RequireAuth))
	{
		booking.POST("", hb.CreateBookingHandler)
		booking.GET("/:userId", hb.GetBookingsHandler)
		booking.DELETE("/:id", hb.CancelBookingHandler)
		booking.PUT("/:id", hb.RescheduleBookingHandler)
	}
}
