package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-management/controllers"
	"hotel-management/middleware"
	"hotel-management/models"
	"hotel-management/services"
	"hotel-management/utils"
)

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter wires the controllers behind CORS, request logging and the
// token check.
func SetupRouter(
	corsOrigins []string,
	auth *services.AuthService,
	groups *services.GroupService,
	ac *controllers.AuthController,
	uc *controllers.UserController,
	hc *controllers.HotelController,
	bc *controllers.BookingController,
) *gin.Engine {
	utils.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), cors.New(corsConfig(corsOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.Auth(auth)
	perm := func(p string, denied error) gin.HandlerFunc {
		return middleware.RequirePermission(groups, p, denied)
	}

	api := r.Group("/api")
	{
		api.POST("/users/register", ac.Register)
		api.POST("/auth/login", ac.Login)
		api.POST("/auth/logout", requireAuth, ac.Logout)

		users := api.Group("/users", requireAuth)
		{
			users.GET("/me", uc.Me)
			users.PUT("/me", uc.UpdateMe)
			users.DELETE("/me", uc.DeleteMe)

			admin := users.Group("", middleware.RequireSuperuser())
			admin.GET("", uc.List)
			admin.POST("/deactivate", uc.Deactivate)
			admin.POST("/activate", uc.Activate)
		}

		hotels := api.Group("/hotels")
		{
			hotels.GET("", hc.List)
			hotels.GET("/dashboard", requireAuth, hc.Dashboard)
			hotels.GET("/:id", hc.Get)
			hotels.POST("", requireAuth, perm("hotel.add", models.ErrNotHotelOwner), hc.Create)
			hotels.PUT("/:id", requireAuth, perm("hotel.change", models.ErrForbidden), hc.Update)
			hotels.PATCH("/:id/price", requireAuth, perm("hotel.change", models.ErrForbidden), hc.UpdatePrice)
			hotels.DELETE("/:id", requireAuth, perm("hotel.delete", models.ErrForbidden), hc.Delete)
		}

		bookings := api.Group("/bookings", requireAuth)
		{
			bookings.GET("", bc.GetBookings)
			bookings.POST("", perm("booking.add", models.ErrNotCustomer), bc.CreateBooking)
			bookings.GET("/:id", bc.GetBookingDetails)
			bookings.PATCH("/:id", perm("booking.change", models.ErrForbidden), bc.UpdateDates)
			bookings.POST("/:id/confirm", perm("booking.change", models.ErrForbidden), bc.ConfirmBooking)
			bookings.POST("/:id/cancel", perm("booking.change", models.ErrForbidden), bc.CancelBooking)
			bookings.POST("/:id/freeze-price", perm("booking.change", models.ErrForbidden), bc.FreezePrice)
		}
	}

	return r
}
