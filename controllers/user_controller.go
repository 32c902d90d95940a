package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"hotel-management/middleware"
	"hotel-management/models"
	"hotel-management/services"
	"hotel-management/utils"

	"github.com/gin-gonic/gin"
)

type profilePayload struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,phone10"`
	FirstName   *string `json:"first_name" binding:"omitempty,max=150"`
	LastName    *string `json:"last_name" binding:"omitempty,max=150"`
}

type userIDsPayload struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

type UserController struct {
	Users  *services.UserService
	Groups *services.GroupService
}

func NewUserController(users *services.UserService, groups *services.GroupService) *UserController {
	return &UserController{Users: users, Groups: groups}
}

func (ctrl *UserController) profile(c *gin.Context, id uint) {
	ctx := c.Request.Context()
	p, err := ctrl.Users.Profile(ctx, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	groups, err := ctrl.Groups.GroupNames(ctx, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toProfileResponse(p, groups))
}

// Me handles GET /api/users/me.
func (ctrl *UserController) Me(c *gin.Context) {
	ctrl.profile(c, middleware.CurrentUser(c).ID)
}

// UpdateMe handles PUT /api/users/me.
func (ctrl *UserController) UpdateMe(c *gin.Context) {
	var payload profilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	me := middleware.CurrentUser(c)
	_, err := ctrl.Users.UpdateProfile(c.Request.Context(), me.ID, services.ProfileInput{
		Email:       payload.Email,
		PhoneNumber: payload.PhoneNumber,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctrl.profile(c, me.ID)
}

// DeleteMe handles DELETE /api/users/me.
func (ctrl *UserController) DeleteMe(c *gin.Context) {
	me := middleware.CurrentUser(c)
	if err := ctrl.Users.Delete(c.Request.Context(), me, me.ID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func optionalBool(c *gin.Context, key string) *bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// List handles GET /api/users for superusers.
func (ctrl *UserController) List(c *gin.Context) {
	filter := services.UserFilter{
		Search:      c.Query("search"),
		Role:        models.Role(strings.TrimSpace(c.Query("role"))),
		IsSuperuser: optionalBool(c, "is_superuser"),
		IsActive:    optionalBool(c, "is_active"),
	}
	if filter.Role != "" && !filter.Role.Valid() {
		utils.RespondError(c, &models.FieldError{Field: "role", Err: models.ErrInvalidRole})
		return
	}

	users, err := ctrl.Users.List(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *UserController) setActive(c *gin.Context, active bool) {
	var payload userIDsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	n, err := ctrl.Users.SetActive(c.Request.Context(), middleware.CurrentUser(c), payload.IDs, active)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": n})
}

// Deactivate handles POST /api/users/deactivate.
func (ctrl *UserController) Deactivate(c *gin.Context) { ctrl.setActive(c, false) }

// Activate handles POST /api/users/activate.
func (ctrl *UserController) Activate(c *gin.Context) { ctrl.setActive(c, true) }
