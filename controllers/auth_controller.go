package controllers

import (
	"net/http"
	"strings"

	"hotel-management/middleware"
	"hotel-management/services"
	"hotel-management/utils"

	"github.com/gin-gonic/gin"
)

type registerPayload struct {
	Username     string `json:"username" binding:"required,max=150"`
	Email        string `json:"email" binding:"required,email"`
	PhoneNumber  string `json:"phone_number" binding:"omitempty,phone10"`
	FirstName    string `json:"first_name" binding:"max=150"`
	LastName     string `json:"last_name" binding:"max=150"`
	Password     string `json:"password" binding:"required"`
	IsHotelOwner bool   `json:"is_hotel_owner"`
	IsCustomer   bool   `json:"is_customer"`
}

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// Register handles POST /api/users/register.
func (ctrl *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	user, err := ctrl.Auth.Register(c.Request.Context(), services.RegisterInput{
		Username:     payload.Username,
		Email:        payload.Email,
		PhoneNumber:  strings.TrimSpace(payload.PhoneNumber),
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Password:     payload.Password,
		IsHotelOwner: payload.IsHotelOwner,
		IsCustomer:   payload.IsCustomer,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /api/auth/login.
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	res, err := ctrl.Auth.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
		"redirect":   res.Redirect,
		"user":       toUserResponse(res.User),
	})
}

// Logout handles POST /api/auth/logout.
func (ctrl *AuthController) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	claims := middleware.CurrentClaims(c)
	if err := ctrl.Auth.Logout(c.Request.Context(), user.ID, claims); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "logged out"})
}
