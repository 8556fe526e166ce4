package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dsrealty/estate-api/docs" // Swagger docs
	"github.com/dsrealty/estate-api/internal/config"
	"github.com/dsrealty/estate-api/internal/database"
	"github.com/dsrealty/estate-api/internal/handlers"
	"github.com/dsrealty/estate-api/internal/jobs"
	"github.com/dsrealty/estate-api/internal/middleware"
	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/dsrealty/estate-api/internal/services"
	"github.com/dsrealty/estate-api/internal/storage"
	"github.com/dsrealty/estate-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title DS Realty API
// @version 1.0
// @description REST API for the DS Realty plot booking and payment ledger system

// @contact.name API Support
// @contact.email support@dsrealty.in

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Set them in .env and ensure the From domain is verified in Resend dashboard.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("Migrations applied")

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, repos)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Password recovery (public)
		v1.POST("/users/send_recovery_code", h.User.SendRecoveryCode)
		v1.POST("/users/verify_recovery_code", h.User.VerifyRecoveryCode)
		v1.POST("/users/update_password_with_code", h.User.UpdatePasswordWithCode)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.DELETE("/users/:id", h.User.Delete)
				admin.POST("/users/:id/restore", h.User.Restore)
				admin.PATCH("/users/:id/toggle-status", h.User.ToggleStatus)

				// Destructive deletes and restores cascade through the
				// ledger, so they stay admin-only.
				admin.DELETE("/projects/:id", h.Project.Delete)
				admin.POST("/projects/:id/restore", h.Project.Restore)
				admin.DELETE("/customers/:id", h.Customer.Delete)
				admin.POST("/customers/:id/restore", h.Customer.Restore)
				admin.DELETE("/brokers/:id", h.Broker.Delete)
				admin.POST("/brokers/:id/restore", h.Broker.Restore)
				admin.DELETE("/bookings/:id", h.Booking.Delete)
				admin.POST("/bookings/:id/restore", h.Booking.Restore)
				admin.DELETE("/payments/:id", h.Payment.Delete)
				admin.POST("/payments/:id/restore", h.Payment.Restore)
				admin.DELETE("/broker-payouts/:id", h.Broker.DeletePayout)

				// Audit trail
				admin.GET("/audits", h.Audit.Index)

				// Worker status
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Write routes (admin, manager or employee)
			write := protected.Group("")
			write.Use(middleware.RequireWriteAccess())
			{
				write.POST("/projects", h.Project.Create)
				write.PUT("/projects/:id", h.Project.Update)

				write.POST("/customers", h.Customer.Create)
				write.PUT("/customers/:id", h.Customer.Update)

				write.POST("/brokers", h.Broker.Create)
				write.PUT("/brokers/:id", h.Broker.Update)
				write.POST("/brokers/:id/payouts", h.Broker.RecordPayout)

				write.POST("/bookings", h.Booking.Create)
				write.PUT("/bookings/:id", h.Booking.Update)
				write.POST("/bookings/:id/cancel", h.Booking.Cancel)
				write.POST("/bookings/:id/reinstate", h.Booking.Reinstate)
				write.POST("/bookings/:id/registry", h.Booking.CompleteRegistry)
				write.POST("/bookings/:id/payments", h.Payment.Record)

				write.PUT("/payments/:id", h.Payment.Edit)
			}

			// Read routes (any authenticated user)
			protected.GET("/projects", h.Project.Index)
			protected.GET("/projects/:id", h.Project.Show)

			protected.GET("/customers", h.Customer.Index)
			protected.GET("/customers/:id", h.Customer.Show)

			protected.GET("/brokers", h.Broker.Index)
			protected.GET("/brokers/:id", h.Broker.Show)
			protected.GET("/brokers/:id/balance", h.Broker.Balance)
			protected.GET("/brokers/:id/payouts", h.Broker.ListPayouts)

			protected.GET("/bookings", h.Booking.Index)
			protected.GET("/bookings/:id", h.Booking.Show)
			protected.GET("/bookings/:id/balance", h.Booking.Balance)
			protected.GET("/bookings/:id/payments", h.Booking.Payments)

			protected.GET("/payments", h.Payment.Index)
			protected.GET("/payments/:id", h.Payment.Show)

			// Reports
			reports := protected.Group("/reports")
			{
				reports.GET("/dashboard", h.Report.Dashboard)
				reports.GET("/bookings", h.Report.BookingsXLSX)
				reports.GET("/collections", h.Report.CollectionsCSV)
				reports.GET("/commissions", h.Report.CommissionsCSV)
				reports.GET("/customers/:id/statement", h.Report.CustomerStatementPDF)
				reports.GET("/payments/:id/receipt", h.Report.ReceiptPDF)
			}

			// Profile access: admin or the account owner
			protected.GET("/users/:id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PUT("/users/:id", middleware.RequireAdminOrOwner(), h.User.Update)
			protected.POST("/users/:id/change-password", h.User.ChangePassword)

			// Notifications (users manage their own)
			// Static route first so "read-all" is not matched as :id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/read-all", h.Notification.MarkAllAsRead)
				notifications.POST("/:id/read", h.Notification.MarkAsRead)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, repos *repository.Repositories) {
	// Nightly ledger audit: re-sum every active booking's payments and flag
	// any booking whose ledger exceeds its total amount.
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Auditing booking ledgers...")
		return svcs.Booking.AuditLedgers(ctx)
	})

	// Daily registry reminders for settled bookings without registry.
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Notifying pending registries...")
		return svcs.Booking.NotifyPendingRegistries(ctx)
	})

	// Purge expired refresh tokens hourly.
	worker.ScheduleEveryImmediate(1*time.Hour, func(ctx context.Context) error {
		deleted, err := repos.RefreshToken.DeleteExpired(ctx)
		if err != nil {
			return err
		}
		if deleted > 0 {
			logger.Info("[Job] Purged expired refresh tokens", "count", deleted)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
