package middleware

import (
	"log"
	"net/http"
	"strings"

	"hotel-management/models"
	"hotel-management/services"
	"hotel-management/utils"

	"github.com/gin-gonic/gin"
)

const (
	currentUserKey = "currentUser"
	claimsKey      = "tokenClaims"
)

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth requires a valid, unrevoked bearer token for an active user.
func Auth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			utils.JSONError(c, http.StatusUnauthorized, "missing_token", "authorization header required", "")
			return
		}
		user, claims, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.Set(currentUserKey, user)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// CurrentUser returns the user set by Auth. It is nil on public routes.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

func CurrentClaims(c *gin.Context) *services.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if cl, ok := v.(*services.Claims); ok {
			return cl
		}
	}
	return nil
}

func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.IsSuperuser {
			utils.RespondError(c, models.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequirePermission checks the user's groups for perm and answers with denied
// when none grants it. Superusers pass.
func RequirePermission(groups *services.GroupService, perm string, denied error) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			utils.RespondError(c, models.ErrInvalidToken)
			return
		}
		if u.IsSuperuser {
			c.Next()
			return
		}
		ok, err := groups.HasPermission(c.Request.Context(), u.ID, perm)
		if err != nil {
			log.Printf("permission check %s for user %d: %v", perm, u.ID, err)
			utils.RespondError(c, err)
			return
		}
		if !ok {
			utils.RespondError(c, denied)
			return
		}
		c.Next()
	}
}
