package handlers

import (
	"errors"
	"net/http"

	"studybuddy/middleware"
	"studybuddy/models"
	"studybuddy/services/tutor"
	"studybuddy/utils"

	"github.com/gin-gonic/gin"
)

type TutorHandler struct {
	TutorService tutor.TutorService
	RequireAuth  bool
}

func NewTutorHandler(tutorService tutor.TutorService, requireAuth bool) *TutorHandler {
	return &TutorHandler{TutorService: tutorService, RequireAuth: requireAuth}
}

// GetTutorsHandler handles GET /api/tutors?module=&q=.
func (h *TutorHandler) GetTutorsHandler(c *gin.Context) {
	criteria := models.TutorSearchCriteria{
		Module: c.Query("module"),
		Query:  c.Query("q"),
	}
	tutors, err := h.TutorService.List(c.Request.Context(), criteria)
	if err != nil {
		utils.RespondError(c, "Error fetching tutors", err)
		return
	}
	c.JSON(http.StatusOK, tutors)
}

// GetTutorByIDHandler handles GET /api/tutors/:id.
func (h *TutorHandler) GetTutorByIDHandler(c *gin.Context) {
	t, err := h.TutorService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Tutor not found", "")
			return
		}
		utils.RespondError(c, "Error fetching tutor", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// UpdateTutorHandler handles PUT /api/tutors/:userId. Only the fields present
// in the body change.
func (h *TutorHandler) UpdateTutorHandler(c *gin.Context) {
	userID := c.Param("userId")
	if !middleware.Authorize(c, h.RequireAuth, userID) {
		return
	}

	var update models.TutorUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid profile update", err.Error())
		return
	}

	updated, err := h.TutorService.Update(c.Request.Context(), userID, update)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Tutor profile not found", "")
			return
		}
		utils.RespondError(c, "Failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
