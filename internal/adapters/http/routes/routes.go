package routes

import (
	"admitdesk/internal/adapters/http/handlers"
	"admitdesk/internal/adapters/http/middleware"
	"admitdesk/internal/adapters/persistence/repositories"
	"admitdesk/internal/config"
	"admitdesk/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	programRepo := repositories.NewProgramRepository(db)
	certTypeRepo := repositories.NewCertificateTypeRepository(db)
	requirementRepo := repositories.NewRequirementRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	historyRepo := repositories.NewStatusHistoryRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	fileRepo := repositories.NewFileUploadRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, programRepo, cfg)
	catalogService := services.NewCatalogService(programRepo, certTypeRepo, requirementRepo)
	requirementService := services.NewRequirementService(requirementRepo, programRepo, certTypeRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo)
	applicationService := services.NewApplicationService(applicationRepo, historyRepo, programRepo, notificationService)
	documentService := services.NewDocumentService(applicationRepo, documentRepo, requirementRepo, fileRepo)
	fileService := services.NewFileService(fileRepo, documentRepo, cfg.Storage.MaxUploadMb, cfg.Storage.AllowedTypes)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	requirementHandler := handlers.NewRequirementHandler(requirementService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	uploadHandler := handlers.NewUploadHandler(fileService, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public + protected)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (admin only)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	userRoutes.Get("/", authHandler.ListUsers)
	userRoutes.Post("/", authHandler.CreateUser)
	userRoutes.Put("/:id", authHandler.UpdateUser)

	// Program catalog routes (public reads, admin writes)
	programRoutes := apiV1.Group("/programs")
	setupProgramRoutes(programRoutes, catalogHandler, requirementHandler, cfg)

	// Certificate type routes (public reads, admin writes)
	certTypeRoutes := apiV1.Group("/certificate-types")
	setupCertificateTypeRoutes(certTypeRoutes, catalogHandler, cfg)

	// Application routes (authenticated)
	applicationRoutes := apiV1.Group("/applications")
	applicationRoutes.Use(middleware.AuthMiddleware(cfg))
	setupApplicationRoutes(applicationRoutes, applicationHandler, documentHandler)

	// Notification routes (authenticated)
	notificationRoutes := apiV1.Group("/notifications")
	notificationRoutes.Use(middleware.AuthMiddleware(cfg))
	setupNotificationRoutes(notificationRoutes, notificationHandler)

	// Upload routes (authenticated, stricter rate limit)
	uploadRoutes := apiV1.Group("/uploads")
	uploadRoutes.Use(middleware.AuthMiddleware(cfg))
	uploadRoutes.Post("/", middleware.UploadRateLimiter(), uploadHandler.Upload)
	uploadRoutes.Get("/:id", uploadHandler.Download)
	uploadRoutes.Delete("/:id", uploadHandler.Delete)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes, rate limited against brute force
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupProgramRoutes configures program catalog and requirement routes
func setupProgramRoutes(router fiber.Router, catalog *handlers.CatalogHandler, requirement *handlers.RequirementHandler, cfg *config.Config) {
	// Public reads
	router.Get("/", catalog.ListPrograms)
	router.Get("/:id", catalog.GetProgram)
	router.Get("/:id/requirements", requirement.List)

	// Admin writes
	router.Post("/", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), catalog.CreateProgram)
	router.Put("/:id", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), catalog.UpdateProgram)
	router.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), catalog.DeleteProgram)

	// Requirement management (staff)
	router.Get("/:id/requirements/available", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), requirement.Available)
	router.Post("/:id/requirements", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), requirement.Create)
	router.Patch("/:id/requirements/reorder", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), requirement.Reorder)
	router.Put("/:id/requirements/:reqId", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), requirement.Update)
	router.Delete("/:id/requirements/:reqId", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), requirement.Delete)
}

// setupCertificateTypeRoutes configures certificate type routes
func setupCertificateTypeRoutes(router fiber.Router, catalog *handlers.CatalogHandler, cfg *config.Config) {
	// Public reads
	router.Get("/", catalog.ListCertificateTypes)
	router.Get("/:id", catalog.GetCertificateType)

	// Admin writes
	router.Post("/", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), catalog.CreateCertificateType)
	router.Put("/:id", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), catalog.UpdateCertificateType)
	router.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), catalog.DeleteCertificateType)
}

// setupApplicationRoutes configures application and document routes.
// Statistics registers before /:id so the literal path wins.
func setupApplicationRoutes(router fiber.Router, application *handlers.ApplicationHandler, document *handlers.DocumentHandler) {
	router.Get("/statistics", application.Statistics)

	router.Get("/", application.List)
	router.Post("/", application.Create)
	router.Get("/:id", application.Get)
	router.Put("/:id", application.Update)
	router.Post("/:id/submit", application.Submit)
	router.Get("/:id/history", application.History)

	// Documents
	router.Get("/:id/documents/verification-status", document.VerificationStatus)
	router.Get("/:id/documents/available-types", document.AvailableTypes)
	router.Get("/:id/documents", document.List)
	router.Post("/:id/documents", document.Attach)
	router.Put("/:id/documents/:docId", document.Update)
	router.Delete("/:id/documents/:docId", document.Delete)
	router.Patch("/:id/documents/:docId/verify", document.Verify)
}

// setupNotificationRoutes configures notification routes
func setupNotificationRoutes(router fiber.Router, handler *handlers.NotificationHandler) {
	router.Get("/", handler.List)
	router.Get("/unread-count", handler.UnreadCount)
	router.Patch("/read-all", handler.MarkAllRead)
	router.Patch("/:id/read", handler.MarkRead)
	router.Post("/bulk", middleware.AdminOnly(), handler.BulkCreate)
}
