package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

type RouterConfig struct {
	Bookings       *BookingHandler
	Feedback       *FeedbackHandler
	Packages       *PackageHandler
	Auth           *AuthHandler
	Tokens         ports.TokenService
	Log            logrus.FieldLogger
	AllowedOrigins []string
	Metrics        http.Handler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(cfg.Log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", cfg.Auth.Register)
		authRoutes.POST("/login", cfg.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(Authenticate(cfg.Tokens, cfg.Log))
	{
		protected.GET("/packages", cfg.Packages.ListPackages)
		protected.POST("/packages", RequireRole(domain.RoleAgency), cfg.Packages.CreatePackage)

		protected.GET("/bookings", cfg.Bookings.ListBookings)
		protected.POST("/bookings", RequireRole(domain.RoleTourist), cfg.Bookings.CreateBooking)
		protected.PUT("/bookings/:id", cfg.Bookings.EditBooking)
		protected.PATCH("/bookings/:id/status", cfg.Bookings.UpdateStatus)
		protected.DELETE("/bookings/:id", RequireRole(domain.RoleAdmin), cfg.Bookings.DeleteBooking)

		protected.GET("/feedback", cfg.Feedback.ListFeedback)
		protected.GET("/feedback/eligible-bookings", cfg.Feedback.ListEligibleBookings)
		protected.POST("/feedback", cfg.Feedback.CreateFeedback)
	}

	return router
}
