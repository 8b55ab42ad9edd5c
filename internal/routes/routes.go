package routes

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-onboarding/internal/audit"
	"github.com/BruksfildServices01/salon-onboarding/internal/cache"
	"github.com/BruksfildServices01/salon-onboarding/internal/config"
	"github.com/BruksfildServices01/salon-onboarding/internal/diagnostics"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/handlers"
	"github.com/BruksfildServices01/salon-onboarding/internal/httperr"
	infraRepo "github.com/BruksfildServices01/salon-onboarding/internal/infra/repository"
	"github.com/BruksfildServices01/salon-onboarding/internal/metrics"
	"github.com/BruksfildServices01/salon-onboarding/internal/middleware"
	ucOnboarding "github.com/BruksfildServices01/salon-onboarding/internal/usecase/onboarding"
)

// Deps carries the process-wide singletons built in main. Cache and Images
// may be nil.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Cache    *cache.Client
	Images   handlers.ImageStore
	Audit    audit.Sink
	Reporter diagnostics.Reporter
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.HandleMethodNotAllowed = true
	r.NoMethod(httperr.MethodNotAllowed)
	r.NoRoute(func(c *gin.Context) {
		httperr.NotFound(c, "route_not_found", "Route not found.")
	})

	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middleware.Logging(d.Logger))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	profileRepo := infraRepo.NewProfileGormRepository(d.DB)
	catalog := cache.NewCatalog(d.Cache, profileRepo, cfg.CatalogCacheTTL)
	// the catalog may have just been seeded
	catalog.Invalidate(context.Background())

	deps := ucOnboarding.Deps{
		Repo:    profileRepo,
		Audit:   d.Audit,
		Metrics: d.Metrics,
	}

	// ======================================================
	// USE CASES
	// ======================================================
	registerUC := ucOnboarding.NewRegisterUser(deps)
	acceptTermsUC := ucOnboarding.NewAcceptTerms(deps)
	replaceHairstylesUC := ucOnboarding.NewReplaceHairstyles(deps)
	registrationPaymentUC := ucOnboarding.NewRecordRegistrationPayment(deps, cfg.RegistrationFee)
	appointmentPaymentUC := ucOnboarding.NewRecordAppointmentPayment(deps)
	getProfileUC := ucOnboarding.NewGetProfile(deps, cfg.RequireHairdresserApproval)
	recordLoginUC := ucOnboarding.NewRecordLogin(deps)
	listCatalogUC := ucOnboarding.NewListCatalog(catalog)
	listUsersUC := ucOnboarding.NewListUsers(deps)
	approveUC := ucOnboarding.NewApproveHairdresser(deps)
	listTransactionsUC := ucOnboarding.NewListTransactions(deps)

	// ======================================================
	// HANDLERS
	// ======================================================
	profileHandler := handlers.NewProfileHandler(getProfileUC, recordLoginUC, d.Reporter)
	registrationHandler := handlers.NewRegistrationHandler(registerUC, acceptTermsUC, registrationPaymentUC, d.Reporter)
	hairstylesHandler := handlers.NewHairstylesHandler(listCatalogUC, replaceHairstylesUC, d.Reporter)
	uploadHandler := handlers.NewUploadHandler(d.Images, d.Audit, d.Metrics, d.Reporter)
	adminHandler := handlers.NewAdminHandler(listUsersUC, approveUC, listTransactionsUC, appointmentPaymentUC, d.Reporter)

	// ======================================================
	// PLATFORM
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		api.GET("/hairstyles", hairstylesHandler.Catalog)

		// ------------------------------
		// USERS
		// ------------------------------
		users := api.Group("/users")
		{
			users.GET("/profile", profileHandler.Get)
			users.POST("/record-login", profileHandler.RecordLogin)

			users.POST("/register-client", registrationHandler.RegisterClient)
			users.POST("/register-hairdresser", registrationHandler.RegisterHairdresser)
			users.POST("/client-accept-terms", registrationHandler.ClientAcceptTerms)
			users.POST("/hairdresser-accept-terms", registrationHandler.HairdresserAcceptTerms)
			users.POST("/hairdresser-payment", registrationHandler.HairdresserPayment)

			users.POST("/hairdresser-hairstyles", hairstylesHandler.Replace)
			users.POST("/portfolio-images", uploadHandler.Upload)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(profileRepo, onboarding.UserTypeAdmin))
		{
			admin.GET("/users", adminHandler.Users)
			admin.POST("/hairdressers/approve", adminHandler.Approve)
			admin.GET("/transactions", adminHandler.Transactions)
			admin.POST("/transactions/appointment", adminHandler.AppointmentPayment)
		}
	}
}
