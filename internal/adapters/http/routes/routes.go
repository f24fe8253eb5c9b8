package routes

import (
	"context"
	"strings"
	"time"

	"donoryuk/internal/adapters/http/handlers"
	"donoryuk/internal/adapters/http/middleware"
	"donoryuk/internal/adapters/persistence/repositories"
	"donoryuk/internal/adapters/storage"
	"donoryuk/internal/config"
	"donoryuk/internal/core/services"
	"donoryuk/internal/pkg/metrics"
	"donoryuk/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Version is reported by the API info endpoint
const Version = "1.0.0"

// Deps are the process-wide collaborators the routes are built from
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Storage  storage.Storage
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Deps) {
	cfg := deps.Config
	log := deps.Logger

	// Initialize repositories
	userRepo := repositories.NewUserRepository(deps.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(deps.DB)
	adminRepo := repositories.NewAdminRepository(deps.DB)
	donorRepo := repositories.NewDonorRepository(deps.DB)
	verificationRepo := repositories.NewVerificationRepository(deps.DB)

	// Initialize services
	validate := validator.New()
	authService := services.NewAuthService(userRepo, refreshTokenRepo, donorRepo, cfg.JWT, log.Named("auth"))
	donorService := services.NewDonorService(donorRepo, deps.Storage, validate, deps.Metrics, log.Named("donor"))
	verificationService := services.NewVerificationService(verificationRepo, adminRepo, deps.Storage, cfg.ProofURLExpiry, deps.Metrics, log.Named("verification"))
	searchService := services.NewSearchService(donorRepo, deps.Metrics)
	adminService := services.NewAdminService(donorRepo, verificationRepo, userRepo, adminRepo, log.Named("admin"))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, Version, func(ctx context.Context) error {
		return config.HealthCheck(ctx, deps.DB)
	})
	authHandler := handlers.NewAuthHandler(authService, validate, cfg)
	donorHandler := handlers.NewDonorHandler(donorService)
	searchHandler := handlers.NewSearchHandler(searchService)
	adminHandler := handlers.NewAdminHandler(adminService, donorService, verificationService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	setupFileRoutes(app, deps.Storage, cfg)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, cfg)
	setupPublicRoutes(apiV1, searchHandler)
	setupDonorRoutes(apiV1.Group("/donors"), donorHandler, cfg)

	adminRoutes := apiV1.Group("/admin",
		middleware.AuthMiddleware(cfg.JWT.Secret),
		middleware.AdminOnly(),
		middleware.NoCacheHeaders(),
	)
	setupAdminRoutes(adminRoutes, adminHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	auth := middleware.AuthMiddleware(cfg.JWT.Secret)
	router.Get("/me", auth, middleware.NoCacheHeaders(), handler.Me)
	router.Post("/logout-all", auth, handler.LogoutAll)
}

// setupPublicRoutes configures search and the compatibility lookup
func setupPublicRoutes(router fiber.Router, handler *handlers.SearchHandler) {
	router.Get("/compatibility", middleware.CacheControl(time.Hour), handler.CompatibilityTable)
	router.Get("/compatibility/:type", middleware.CacheControl(time.Hour), handler.Compatibility)

	// public, unlike the other /donors routes
	router.Get("/donors/search", middleware.NoCacheHeaders(), handler.Search)
}

// setupDonorRoutes configures the signed-in user's donor profile routes
func setupDonorRoutes(router fiber.Router, handler *handlers.DonorHandler, cfg *config.Config) {
	auth := middleware.AuthMiddleware(cfg.JWT.Secret)

	router.Post("/", auth, middleware.UploadRateLimiter(), handler.Register)
	router.Get("/me", auth, middleware.PrivateCacheHeaders(0), handler.GetMine)
	router.Put("/me", auth, handler.UpdateMine)
}

// setupAdminRoutes configures administrator routes
func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler) {
	router.Get("/donors", handler.ListDonors)
	router.Get("/stats", handler.Stats)
	router.Put("/donors/:id/donated", handler.MarkDonated)
	router.Put("/donors/:id/deactivate", handler.Deactivate)
	router.Put("/donors/:id/reactivate", handler.Reactivate)

	router.Post("/verifications/:id/approve", handler.ApproveVerification)
	router.Post("/verifications/:id/reject", handler.RejectVerification)
	router.Get("/verifications/:id/proof", handler.ProofURL)
	router.Get("/verifications/:id/proof/file", handler.ProofFile)

	router.Post("/users/:id/promote", handler.Promote)
}

// setupFileRoutes serves locally stored donor cards to administrators
func setupFileRoutes(app *fiber.App, store storage.Storage, cfg *config.Config) {
	local, ok := store.(*storage.LocalStorage)
	if !ok {
		return
	}
	prefix := cfg.Storage.PublicURL
	if !strings.HasPrefix(prefix, "/") {
		return
	}

	files := app.Group(prefix,
		middleware.AuthMiddleware(cfg.JWT.Secret),
		middleware.AdminOnly(),
		middleware.NoCacheHeaders(),
	)
	files.Static("/", local.BasePath(), fiber.Static{Browse: false})
}
