package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/atelierlibre/paroisse-api/internal/clock"
	"github.com/atelierlibre/paroisse-api/internal/config"
	"github.com/atelierlibre/paroisse-api/internal/handlers"
	"github.com/atelierlibre/paroisse-api/internal/logger"
	"github.com/atelierlibre/paroisse-api/internal/mailer"
	"github.com/atelierlibre/paroisse-api/internal/middleware"
	"github.com/atelierlibre/paroisse-api/internal/services"
	"github.com/atelierlibre/paroisse-api/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	db         *gorm.DB
}

// New creates a new server instance
func New(cfg *config.Config, db *gorm.DB) *Server {
	return &Server{
		config: cfg,
		db:     db,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.Server.GinMode)

	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	clk := clock.NewSystem()
	notifier := mailer.NewNotifier(mailer.NewSMTPSender(s.config))

	eventRepo := postgres.NewGormEventRepository(s.db)
	regRepo := postgres.NewGormRegistrationRepository(s.db)
	subRepo := postgres.NewGormSubscriberRepository(s.db)
	nlRepo := postgres.NewGormNewsletterRepository(s.db)
	userRepo := postgres.NewGormUserRepository(s.db)

	eventService := services.NewEventService(eventRepo, subRepo, notifier, clk, s.config.Server.BaseURL)
	registrationService := services.NewRegistrationService(eventRepo, regRepo, subRepo, userRepo, clk)
	subscriberService := services.NewSubscriberService(subRepo, clk)
	newsletterService := services.NewNewsletterService(nlRepo, subRepo, notifier, clk)
	authService := services.NewAuthService(userRepo, s.config.JWT.Secret, s.config.JWT.ExpiryHours, clk)

	eventHandler := handlers.NewEventHandler(eventService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	subscriberHandler := handlers.NewSubscriberHandler(subscriberService)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService)
	authHandler := handlers.NewAuthHandler(authService)

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		if err := postgres.HealthCheck(s.db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"message": "Paroisse API is degraded",
				"status":  "unhealthy",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Paroisse API is running",
			"status":  "healthy",
		})
	})

	s.setupAPIRoutes(router, eventHandler, registrationHandler, subscriberHandler, newsletterHandler, authHandler)

	return router
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	eventHandler *handlers.EventHandler,
	registrationHandler *handlers.RegistrationHandler,
	subscriberHandler *handlers.SubscriberHandler,
	newsletterHandler *handlers.NewsletterHandler,
	authHandler *handlers.AuthHandler,
) {
	requireAuth := middleware.Authenticate(s.config.JWT.Secret)
	optionalAuth := middleware.OptionalAuth(s.config.JWT.Secret)
	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		events := api.Group("/evenements")
		{
			events.GET("", eventHandler.List)
			events.GET("/:id", eventHandler.GetByID)
			events.GET("/slug/:slug", eventHandler.GetBySlug)

			events.POST("", requireAuth, eventHandler.Create)
			events.PUT("/:id", requireAuth, eventHandler.Update)
			events.DELETE("/:id", requireAuth, eventHandler.Cancel)

			events.GET("/:id/inscriptions", requireAuth, registrationHandler.ListByEvent)
			events.DELETE("/:id/inscriptions/:inscriptionId", requireAuth, registrationHandler.Remove)

			events.POST("/:id/inscription", limiter.Limit(), optionalAuth, registrationHandler.RegisterByID)
			events.POST("/slug/:slug/inscription", limiter.Limit(), optionalAuth, registrationHandler.RegisterBySlug)
		}

		subscribers := api.Group("/abonnes")
		{
			subscribers.POST("", limiter.Limit(), subscriberHandler.Subscribe)
			subscribers.POST("/desabonnement", limiter.Limit(), subscriberHandler.Unsubscribe)
		}

		newsletters := api.Group("/newsletters", requireAuth)
		{
			newsletters.GET("", newsletterHandler.List)
			newsletters.GET("/:id", newsletterHandler.GetByID)
			newsletters.POST("", newsletterHandler.Create)
			newsletters.POST("/:id/programmation", newsletterHandler.Schedule)
			newsletters.POST("/:id/envoi", newsletterHandler.Send)
			newsletters.POST("/traitement-programmees", newsletterHandler.ProcessScheduled)
		}
	}
}
