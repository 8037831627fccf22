package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
	"github.com/mamadbah2/cattlehealth/internal/metrics"
	"github.com/mamadbah2/cattlehealth/internal/server/handlers"
	"github.com/mamadbah2/cattlehealth/internal/server/middleware"
)

// Options carries the router's infrastructure dependencies.
type Options struct {
	Tokens         middleware.TokenValidator
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	AuthLimiter    *rate.Limiter
	Logger         *zap.Logger
}

// New wires the Gin engine with required routes and middlewares.
func New(h *handlers.Handler, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(opts.Logger))
	r.Use(middleware.Metrics(opts.Metrics))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(opts.AllowedOrigins))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	authRoutes := r.Group("/api/auth")
	if opts.AuthLimiter != nil {
		authRoutes.Use(middleware.RateLimit(opts.AuthLimiter))
	}
	authRoutes.POST("/login", h.Login)
	authRoutes.POST("/register", h.Register)

	api := r.Group("/api", middleware.Authenticate(opts.Tokens))
	{
		api.GET("/cattle", h.ListCattle)
		api.GET("/cattle/:rfid/resume", h.CattleResume)
		api.GET("/logs", h.ListLogs)
		api.GET("/milk", h.ListMilk)
		api.GET("/owners", h.ListOwners)
		api.GET("/health", h.ListHealth)
		api.GET("/health/alerts", h.ListHealthAlerts)
		api.GET("/treatments", h.ListTreatments)
		api.GET("/dashboard", h.Dashboard)
		api.GET("/analytics/milk", h.MilkAnalytics)
		api.GET("/analytics/health", h.HealthAnalytics)
		api.GET("/export/:dataset", h.Export)

		herdWriters := api.Group("", middleware.RequireRole(models.RoleFarmer, models.RoleAdmin))
		herdWriters.POST("/cattle", h.AddCattle)
		herdWriters.PATCH("/cattle/:rfid", h.UpdateCattle)
		herdWriters.DELETE("/cattle/:rfid", h.DeleteCattle)
		herdWriters.POST("/milk", h.AddMilkRecord)

		vets := api.Group("", middleware.RequireRole(models.RoleVet, models.RoleAdmin))
		vets.POST("/health", h.AddHealthRecord)
		vets.POST("/treatments", h.AddTreatment)

		admin := api.Group("/admin", middleware.RequireRole(models.RoleAdmin))
		admin.GET("/overview", h.Overview)
		admin.GET("/users", h.ListUsers)
		admin.POST("/owners", h.AddOwner)
		admin.POST("/rfid", h.AddRFIDCattle)
		admin.POST("/users", h.AddUser)
		admin.PATCH("/users/:id", h.UpdateUser)
		admin.POST("/users/:id/deactivate", h.DeactivateUser)
		admin.GET("/reports", h.ListReports)
		admin.GET("/reports/today", h.TodayReport)
		admin.POST("/notify", h.Notify)
	}

	if opts.Logger != nil {
		opts.Logger.Info("router initialized")
	}

	return r
}
