package main

// @title AutoIGDM API
// @version 1.0
// @description Demo Instagram outreach automation: accounts, campaigns, demo leads and AI-drafted messages.

// @host localhost:5000
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autoigdm/api/config"
	"github.com/autoigdm/api/pkg/api/handlers"
	custommw "github.com/autoigdm/api/pkg/api/middleware"
	"github.com/autoigdm/api/pkg/container"
	custommiddleware "github.com/autoigdm/api/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("ℹ️  No .env file found, using environment")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.APIEnvironment)

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 1.0,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	c, err := container.New(initCtx, cfg, prometheus.DefaultRegisterer)
	cancelInit()
	if err != nil {
		log.Fatalf("❌ Failed to initialize services: %v", err)
	}
	defer c.Close()
	log.Printf("✅ Services initialized (store: %s)", cfg.Store)

	e := newServer(c)

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("🚀 AutoIGDM API starting on %s", address)
	log.Printf("📝 Log level: %s", cfg.LogLevel)
	log.Printf("🔐 JWT expiration: %d hours", cfg.JWTExpirationHours)
	log.Printf("🌍 CORS: %v", cfg.CORSAllowedOrigins)

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
		return
	}

	log.Println("✅ Server gracefully stopped")
}

// newServer builds the Echo instance with middleware and routes
func newServer(c *container.Container) *echo.Echo {
	cfg := c.Config

	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[%s] %s - Status: %d", c.Request().Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Sentry error tracking middleware (if configured)
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	if c.Metrics != nil {
		e.Use(c.Metrics.Middleware())
	}

	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(cfg.CORSAllowedOrigins)))
	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())
	e.Use(custommiddleware.SecurityHeaders(custommiddleware.DefaultSecurityHeadersConfig()))

	// Prometheus metrics endpoint (public)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.GET("/health", handlers.Health)
	api.GET("/health/ready", func(ec echo.Context) error {
		ctx, cancel := context.WithTimeout(ec.Request().Context(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			return ec.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return ec.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})

	authHandler := handlers.NewAuthHandler(c.Auth)
	instagramHandler := handlers.NewInstagramHandler(c.Accounts)
	campaignHandler := handlers.NewCampaignHandler(c.Campaigns)
	analyticsHandler := handlers.NewAnalyticsHandler(c.Analytics)

	jwt := custommw.JWTMiddlewareWithBlacklist(cfg.JWTSecret, c.Blacklist)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authHandler.Me, jwt)
		authGroup.POST("/logout", authHandler.Logout, jwt)
	}

	instagramGroup := api.Group("/instagram", jwt)
	{
		instagramGroup.GET("", instagramHandler.ListAccounts)
		instagramGroup.POST("", instagramHandler.CreateAccount)
		instagramGroup.DELETE("/:id", instagramHandler.DeleteAccount)
	}

	campaignGroup := api.Group("/campaigns", jwt)
	{
		campaignGroup.GET("", campaignHandler.ListCampaigns)
		campaignGroup.POST("", campaignHandler.CreateCampaign)
		campaignGroup.GET("/:id", campaignHandler.GetCampaign)
		campaignGroup.GET("/:id/leads", campaignHandler.ListLeads)
		campaignGroup.GET("/:id/messages", campaignHandler.ListMessages)
		campaignGroup.POST("/:id/activate", campaignHandler.ActivateCampaign)
		campaignGroup.POST("/:id/pause", campaignHandler.PauseCampaign)
		campaignGroup.DELETE("/:id", campaignHandler.DeleteCampaign)
	}

	api.GET("/analytics", analyticsHandler.GetSummary, jwt)

	return e
}
