// Package handlers wires the HTTP surface: route registration, request
// binding and error-to-status mapping.
package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/payoff-app/payoff-backend/cmd/docs"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/middleware"
	"github.com/payoff-app/payoff-backend/internal/platform/config"
	"github.com/payoff-app/payoff-backend/internal/utils"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	registerValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerAuthRoutes(r, cfg, services)
	setupAPIRoutes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// registerValidators installs the custom binding validators used by the DTOs.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phpamount", func(fl validator.FieldLevel) bool {
			return utils.IsValidPHP(fl.Field().String())
		})
	}
}

// registerAuthRoutes sets up the public authentication routes. They share an
// in-memory IP rate limit to slow down credential stuffing.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services, cfg)

	rate, err := limiter.NewRateFromFormatted(cfg.AuthRateLimit)
	if err != nil {
		slog.Warn("Invalid AUTH_RATE_LIMIT, falling back to 20-M", slog.String("value", cfg.AuthRateLimit))
		rate, _ = limiter.NewRateFromFormatted("20-M")
	}
	ipLimiter := limiter.New(limitermemory.NewStore(), rate)
	limited := middleware.RateLimit(ipLimiter)

	api := r.Group("/api")
	{
		api.POST("/guest", limited, h.Guest)
		api.POST("/register", limited, h.Register)
		api.POST("/login", limited, h.Login)
		api.POST("/refresh", limited, h.Refresh)

		google := api.Group("/auth/google")
		google.GET("/login", limited, h.GoogleLogin)
		google.GET("/callback", h.GoogleCallback)
	}
}

// setupAPIRoutes configures the authenticated /api group.
func setupAPIRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	api := r.Group("/api", middleware.AuthMiddleware(cfg.JWTSecret))

	userHandler := NewUserHandler(services.User, services.Debt)
	api.GET("/user", userHandler.GetUser)

	debtHandler := NewDebtHandler(services.Debt)
	debts := api.Group("/debts")
	{
		debts.GET("", debtHandler.ListDebts)
		debts.POST("", debtHandler.CreateDebt)
		debts.PUT("/update", debtHandler.UpdateDebt)
		debts.DELETE("/delete-debt", debtHandler.DeleteDebt)
		debts.POST("/payment", debtHandler.RecordPayment)
		debts.POST("/transactions", debtHandler.SaveTransaction)
	}

	notificationHandler := NewNotificationHandler(services.Notification, services.User, services.Reminder)
	notifications := api.Group("/notifications")
	{
		notifications.GET("", notificationHandler.GetInbox)
		notifications.POST("/read", notificationHandler.MarkRead)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)
		notifications.POST("/read-selected", notificationHandler.MarkSelectedRead)
		notifications.POST("/select", notificationHandler.ToggleSelect)
		notifications.POST("/select-all", notificationHandler.ToggleSelectAll)
		notifications.DELETE("/selected", notificationHandler.DeleteSelected)
		notifications.POST("/email-summary", notificationHandler.EmailSummary)
	}

	backupHandler := NewBackupHandler(services.Backup)
	api.POST("/backup", backupHandler.CreateBackup)
	api.GET("/backup/latest", backupHandler.LatestBackup)
}

// setupSwaggerRoutes serves the generated API docs outside production.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
