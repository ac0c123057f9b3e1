package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// RequireAuth makes a valid token mandatory on mutating routes.
	RequireAuth bool

	// Auth endpoints
	RegisterUserHandler gin.HandlerFunc
	LoginHandler        gin.HandlerFunc

	// Tutor endpoints
	GetTutorsHandler    gin.HandlerFunc
	GetTutorByIDHandler gin.HandlerFunc
	UpdateTutorHandler  gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler     gin.HandlerFunc
	GetBookingsHandler       gin.HandlerFunc
	CancelBookingHandler     gin.HandlerFunc
	RescheduleBookingHandler gin.HandlerFunc
}

// NewHandlerBundle wires the three handler groups into a bundle.
func NewHandlerBundle(users *UserHandler, tutors *TutorHandler, bookings *BookingHandler, requireAuth bool) *HandlerBundle {
	return &HandlerBundle{
		RequireAuth: requireAuth,

		RegisterUserHandler: users.RegisterUserHandler,
		LoginHandler:        users.LoginHandler,

		GetTutorsHandler:    tutors.GetTutorsHandler,
		GetTutorByIDHandler: tutors.GetTutorByIDHandler,
		UpdateTutorHandler:  tutors.UpdateTutorHandler,

		CreateBookingHandler:     bookings.CreateBookingHandler,
		GetBookingsHandler:       bookings.GetBookingsHandler,
		CancelBookingHandler:     bookings.CancelBookingHandler,
		RescheduleBookingHandler: bookings.RescheduleBookingHandler,
	}
}
