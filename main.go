package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hotel-management/config"
	"hotel-management/controllers"
	"hotel-management/routes"
	"hotel-management/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}
	gin.SetMode(settings.GinMode)

	if err := config.ConnectDatabase(settings); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	log.Printf("✅ Database (%s) connected, migrations applied, groups seeded.", settings.DBDriver)
	if !settings.StrictMutations {
		log.Println("⚠️  STRICT_MUTATIONS=false: invalid prices and over-capacity releases are ignored")
	}

	// Initialize services
	userService := services.NewUserService(db)
	groupService := services.NewGroupService(db)
	hotelService := services.NewHotelService(db, settings.StrictMutations)
	bookingService := services.NewBookingService(db, hotelService)
	authService := services.NewAuthService(db, userService, groupService, settings.JWTSecret, settings.TokenTTL)
	reportService, err := services.NewReportService(db)
	if err != nil {
		log.Fatalf("❌ Report service: %v", err)
	}

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(userService, groupService)
	hotelController := controllers.NewHotelController(hotelService, reportService)
	bookingController := controllers.NewBookingController(bookingService)

	router := routes.SetupRouter(settings.CorsOrigins, authService, groupService,
		authController, userController, hotelController, bookingController)

	addr := ":" + settings.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("✅ Server stopped gracefully")
}
