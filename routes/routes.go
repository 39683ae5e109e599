package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"reserva/handlers"
	"reserva/middleware"
)

// RegisterBookingRoutes sets up the reservation endpoints. Creation and
// tracking are public; lifecycle actions require authentication.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		// Guests may book and track without a token.
		api.POST("", hb.CreateBooking)
		api.GET("/track/:bookingNumber", hb.TrackBooking)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.GET("/:id", hb.GetBooking)
		protected.POST("/:id/accept", hb.AcceptBooking)
		protected.POST("/:id/reject", hb.RejectBooking)
		protected.POST("/:id/start", hb.StartBooking)
		protected.POST("/:id/complete", hb.CompleteBooking)
		protected.POST("/:id/cancel", hb.CancelBooking)
		protected.POST("/:id/no-show", hb.NoShowBooking)
		protected.POST("/:id/messages", hb.AddMessage)
	}
}

// RegisterProviderRoutes sets up schedule management and availability
// endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		// Availability lookup is public so clients can render pickers.
		api.GET("/:providerId/availability", hb.DayAvailability)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("provider"))
		protected.PUT("/:providerId/schedule", hb.SetupSchedule)
		protected.POST("/:providerId/exceptions", hb.AddException)
		protected.POST("/:providerId/blocked", hb.AddBlockedPeriod)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Reserva"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
}
