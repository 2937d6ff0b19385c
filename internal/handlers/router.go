package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rahhaltours/admin-backend/internal/config"
	"github.com/rahhaltours/admin-backend/internal/middleware"
	"github.com/rahhaltours/admin-backend/internal/monitoring"
	"github.com/rahhaltours/admin-backend/pkg/jwt"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *AuthHandler
	Trip    *TripHandler
	Booking *BookingHandler
	User    *UserHandler
	Catalog *CatalogHandler
	Stats   *StatsHandler
}

// SetupRouter builds the gin engine with CORS, metrics and the
// versioned API routes. Everything except login, refresh, health and
// metrics sits behind the admin gate.
func SetupRouter(cfg *config.Config, jwtService *jwt.Service, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(jwtService), middleware.RequireAdmin())
	{
		trips := admin.Group("/trips")
		{
			trips.GET("", h.Trip.ListTrips)
			trips.POST("", h.Trip.CreateTrip)
			trips.POST("/expire", h.Trip.ExpireTrips)
			trips.GET("/:id", h.Trip.GetTrip)
			trips.PUT("/:id", h.Trip.UpdateTrip)
			trips.DELETE("/:id", h.Trip.DeleteTrip)
			trips.GET("/:id/users", h.Booking.ListBookedUsers)
			trips.GET("/:id/bookings", h.Booking.ListBookingsForTrip)
		}

		bookings := admin.Group("/bookings")
		{
			bookings.GET("", h.Booking.ListBookings)
			bookings.POST("", h.Booking.CreateBooking)
			bookings.POST("/custom", h.Booking.CreateCustomBooking)
			bookings.GET("/:id", h.Booking.GetBooking)
			bookings.PUT("/:id", h.Booking.EditBooking)
			bookings.DELETE("/:id", h.Booking.DeleteBooking)
		}

		users := admin.Group("/users")
		{
			users.GET("", h.User.ListUsers)
			users.POST("", h.User.CreateUser)
			users.GET("/:id", h.User.GetUser)
			users.PUT("/:id", h.User.UpdateUser)
			users.DELETE("/:id", h.User.DeleteUser)
		}

		cities := admin.Group("/cities")
		{
			cities.GET("", h.Catalog.ListCities)
			cities.POST("", h.Catalog.CreateCity)
			cities.PUT("/:id", h.Catalog.UpdateCity)
			cities.DELETE("/:id", h.Catalog.DeleteCity)
		}

		catalog := admin.Group("/catalog/:collection")
		{
			catalog.GET("", h.Catalog.ListItems)
			catalog.POST("", h.Catalog.CreateItem)
			catalog.PUT("/:id", h.Catalog.UpdateItem)
			catalog.DELETE("/:id", h.Catalog.DeleteItem)
		}

		stats := admin.Group("/stats")
		{
			stats.GET("/summary", h.Stats.DashboardSummary)
			stats.GET("/cities", h.Stats.CityActivity)
		}

		admin.GET("/audit-logs", h.Stats.ListAuditLogs)
	}

	return router
}
