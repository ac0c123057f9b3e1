package handlers

import (
	"errors"
	"net/http"

	"studybuddy/models"
	"studybuddy/services/user"
	"studybuddy/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(userService user.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

// RegisterUserHandler handles POST /api/register.
func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid registration request", err.Error())
		return
	}

	created, err := h.UserService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			utils.JSONError(c, http.StatusBadRequest, "User already exists", "")
			return
		}
		utils.RespondError(c, "Error registering user", err)
		return
	}

	getLogger(c).Info("Registration complete", zap.String("userID", created.ID))
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// LoginHandler handles POST /api/login.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid credentials", err.Error())
		return
	}

	resp, err := h.UserService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, utils.ErrValidation) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid credentials", "")
			return
		}
		utils.RespondError(c, "Server error during login", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
