package routes

import (
	"net/http"
	"time"

	"wildhaven/handlers"
	"wildhaven/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterFlowRoutes sets up the booking flow endpoints.
func RegisterFlowRoutes(r *gin.Engine) {
	api := r.Group("/api/flow")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", handlers.StartFlow)
		api.GET("/:flowID", handlers.GetFlow)
		api.PUT("/:flowID/stay", handlers.UpdateStay)
		api.POST("/:flowID/confirm-dates", handlers.ConfirmDates)
		api.POST("/:flowID/submit", handlers.SubmitDetails)
		api.POST("/:flowID/pay", handlers.Pay)
		api.POST("/:flowID/back", handlers.StepBack)
		api.DELETE("/:flowID", handlers.CancelFlow)
	}
}

// RegisterPropertyRoutes sets up the listing catalogue endpoints.
func RegisterPropertyRoutes(r *gin.Engine) {
	api := r.Group("/api/properties")
	{
		// Public: guests browse listings before authenticating.
		api.GET("/:propertyID", handlers.GetProperty)

		// Owner-only management endpoints.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireOwner())
		protected.GET("", handlers.ListMyProperties)
		protected.POST("", handlers.CreateProperty)
		protected.PUT("/:propertyID", handlers.UpdateProperty)
		protected.POST("/:propertyID/photos", handlers.UploadPropertyPhoto)
		protected.DELETE("/:propertyID", handlers.DeleteProperty)
	}
}

// RegisterBookingRoutes sets up the guest booking archive endpoints.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", handlers.ListMyBookings)
		api.GET("/:bookingID", handlers.GetBooking)
	}
}

// RegisterDeviceRoutes sets up push-token registration.
func RegisterDeviceRoutes(r *gin.Engine) {
	api := r.Group("/api/devices")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", handlers.RegisterDevice)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Wildhaven"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterFlowRoutes(r)
	RegisterPropertyRoutes(r)
	RegisterBookingRoutes(r)
	RegisterDeviceRoutes(r)
	RegisterHealthRoute(r)
}
