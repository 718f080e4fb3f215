package routes

import (
	"net/http"

	"detailstudio-backend/cache"
	"detailstudio-backend/config"
	"detailstudio-backend/controllers"
	"detailstudio-backend/metrics"
	"detailstudio-backend/services"
	"detailstudio-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the long-lived collaborators the handlers need.
type Dependencies struct {
	Config   config.Config
	Logger   *zap.Logger
	Bookings *services.BookingService
	Catalog  cache.Store
	Images   services.ImageStore
}

func SetupRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(utils.Recovery())

	origins := d.Config.AllowedOrigins()
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	logger := d.Logger
	if logger == nil {
		logger = zap.L()
	}
	r.Use(config.PerformanceLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())
	if d.Config.UploadDir != "" {
		r.Static("/uploads", d.Config.UploadDir)
	}

	secret := d.Config.JWTSecret
	limiter := utils.NewIPRateLimiter(d.Config.RateLimitPerMinute, d.Config.RateLimitBurst)
	catalog := &controllers.CatalogController{Cache: d.Catalog, TTL: d.Config.CatalogCacheTTL()}
	bookings := &controllers.BookingController{Bookings: d.Bookings}
	uploads := &controllers.UploadController{Store: d.Images}

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", limiter.Middleware(), controllers.Register)
		auth.POST("/login", limiter.Middleware(), controllers.Login)
		auth.POST("/logout", controllers.Logout)
		auth.GET("/me", utils.AuthMiddleware(secret), controllers.Me)
	}

	// Catalog routes
	api.GET("/services", catalog.GetServices)
	api.GET("/services/:id", catalog.GetService)
	api.GET("/categories", catalog.GetCategories)

	// Booking routes
	booking := api.Group("/bookings")
	{
		booking.GET("/available-slots", bookings.AvailableSlots)
		booking.POST("", limiter.Middleware(), utils.OptionalAuthMiddleware(secret), bookings.CreateBooking)
		booking.GET("", utils.AuthMiddleware(secret), bookings.GetBookings)
	}

	// Content routes
	api.GET("/testimonials", controllers.GetTestimonials)
	api.POST("/testimonials", limiter.Middleware(), utils.OptionalAuthMiddleware(secret), controllers.CreateTestimonial)
	api.GET("/gallery", controllers.GetGallery)
	api.POST("/consultations", limiter.Middleware(), controllers.CreateConsultation)

	admin := api.Group("/admin")
	admin.Use(utils.AuthMiddleware(secret), utils.RequireAdmin())
	{
		admin.GET("/dashboard", controllers.GetDashboardOverview)

		admin.POST("/services", catalog.CreateService)
		admin.PUT("/services/:id", catalog.UpdateService)
		admin.DELETE("/services/:id", catalog.DeleteService)
		admin.POST("/categories", catalog.CreateCategory)
		admin.DELETE("/categories/:id", catalog.DeleteCategory)

		admin.PUT("/bookings/:id/status", bookings.UpdateBookingStatus)
		admin.GET("/bookings/export", bookings.ExportBookings)

		admin.GET("/consultations", controllers.GetConsultations)
		admin.PUT("/consultations/:id/status", controllers.UpdateConsultationStatus)

		admin.GET("/testimonials", controllers.GetAllTestimonials)
		admin.PUT("/testimonials/:id/approve", controllers.ApproveTestimonial)
		admin.DELETE("/testimonials/:id", controllers.DeleteTestimonial)

		admin.POST("/gallery", controllers.CreateGalleryImage)
		admin.DELETE("/gallery/:id", controllers.DeleteGalleryImage)

		admin.POST("/upload", uploads.Upload)
	}

	return r
}
