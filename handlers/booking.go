package handlers

import (
	"errors"
	"net/http"

	"studybuddy/middleware"
	"studybuddy/models"
	"studybuddy/services/booking"
	"studybuddy/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	BookingService booking.BookingService
	RequireAuth    bool
}

func NewBookingHandler(bookingService booking.BookingService, requireAuth bool) *BookingHandler {
	return &BookingHandler{BookingService: bookingService, RequireAuth: requireAuth}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", err.Error())
		return
	}
	if !middleware.Authorize(c, h.RequireAuth, req.StudentID) {
		return
	}

	created, err := h.BookingService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, utils.ErrConflict) {
			utils.JSONError(c, http.StatusConflict, "Slot is no longer available", err.Error())
			return
		}
		utils.RespondError(c, "Failed to create booking", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetBookingsHandler handles GET /api/bookings/:userId. With ?group=true the
// bookings come back split into upcoming and past.
func (h *BookingHandler) GetBookingsHandler(c *gin.Context) {
	userID := c.Param("userId")
	if !middleware.Authorize(c, h.RequireAuth, userID) {
		return
	}

	ctx := c.Request.Context()
	if c.Query("group") == "true" {
		grouped, err := h.BookingService.ListGrouped(ctx, userID)
		if err != nil {
			utils.RespondError(c, "Error fetching bookings", err)
			return
		}
		c.JSON(http.StatusOK, grouped)
		return
	}

	bookings, err := h.BookingService.ListForStudent(ctx, userID)
	if err != nil {
		utils.RespondError(c, "Error fetching bookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CancelBookingHandler handles DELETE /api/bookings/:id.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	id := c.Param("id")
	if !h.authorizeBooking(c, id) {
		return
	}

	cancelled, err := h.BookingService.Cancel(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
			return
		}
		utils.RespondError(c, "Could not cancel booking", err)
		return
	}

	getLogger(c).Info("Cancel handled", zap.String("bookingID", cancelled.ID))
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled, slot restored and sorted!"})
}

// RescheduleBookingHandler handles PUT /api/bookings/:id.
func (h *BookingHandler) RescheduleBookingHandler(c *gin.Context) {
	id := c.Param("id")
	var req models.RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid reschedule request", err.Error())
		return
	}
	if !h.authorizeBooking(c, id) {
		return
	}

	updated, err := h.BookingService.Reschedule(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
			return
		}
		utils.RespondError(c, "Could not reschedule booking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking rescheduled", "updatedBooking": updated})
}

// authorizeBooking checks ownership of an existing booking. Anonymous
// requests skip the lookup when tokens are optional.
func (h *BookingHandler) authorizeBooking(c *gin.Context, id string) bool {
	if !h.RequireAuth && middleware.CallerID(c) == "" {
		return true
	}
	b, err := h.BookingService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
			return false
		}
		utils.RespondError(c, "Could not load booking", err)
		return false
	}
	return middleware.Authorize(c, h.RequireAuth, b.StudentID)
}
