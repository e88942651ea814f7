package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fretenota/docs"
	"fretenota/internal/domain"
	"fretenota/internal/handler"
	"fretenota/internal/middleware"
	"fretenota/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	invoiceH *handler.InvoiceHandler,
	fileH *handler.FileHandler,
	statsH *handler.StatsHandler,
	reportH *handler.ReportHandler,
	userH *handler.UserHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Invoice routes
	invoices := protected.Group("/invoices")
	invoices.POST("/upload", invoiceH.Upload)
	invoices.GET("", invoiceH.List)
	invoices.GET("/export", invoiceH.ExportCSV)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.GET("/:id/validate", invoiceH.Validate)
	invoices.PATCH("/:id", invoiceH.Update)
	invoices.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), invoiceH.Delete)
	invoices.POST("/:id/sync", invoiceH.SyncNow)
	invoices.POST("/resync", middleware.RequireRole(domain.RoleAdmin), invoiceH.ResyncAll)

	// File routes
	files := protected.Group("/files")
	files.GET("", fileH.List)
	files.GET("/:id", fileH.GetByID)
	files.GET("/:id/download", fileH.Download)

	// Stats and reports
	protected.GET("/stats/dashboard", statsH.Dashboard)
	protected.GET("/reports/whatsapp", reportH.WhatsApp)
	protected.POST("/reports/whatsapp", reportH.Send)

	// User management
	users := protected.Group("/users")
	users.POST("", middleware.RequireRole(domain.RoleAdmin), userH.Create)
	users.GET("", middleware.RequireRole(domain.RoleAdmin), userH.List)
	users.GET("/:id", userH.GetByID)
	users.PUT("/:id", middleware.RequireRole(domain.RoleAdmin), userH.Update)
	users.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), userH.Delete)

	return r
}
