package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-multicurrency/internal/config"
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/handler"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/middleware"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
	"github.com/sangkips/pos-multicurrency/pkg/metrics"
	"github.com/sangkips/pos-multicurrency/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Config   *handler.ConfigHandler
	Currency *handler.CurrencyHandler
	Order    *handler.OrderHandler
	Payment  *handler.PaymentHandler
	Session  *handler.SessionHandler
	RPC      *handler.RPCHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Log             *logger.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.CompanyRateLimiter
	RPCMetrics      *metrics.RPCMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewCompanyRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: deps.Cfg.RateLimit.RequestsPerSecond(),
			BurstSize:         deps.Cfg.RateLimit.Requests,
		})
	}
	authenticated := []gin.HandlerFunc{
		middleware.AuthMiddleware(deps.JWTManager),
		middleware.CompanyMiddleware(deps.Log),
		rateLimiter.Middleware(),
	}

	// POS client calls, answered without the API envelope.
	rpc := router.Group("/pos/multi_currency", authenticated...)
	{
		rpc.POST("/rates", middleware.RPCMetrics(deps.RPCMetrics, "get_multi_currency_rates"), h.RPC.Rates)
		rpc.POST("/statistics", middleware.RPCMetrics(deps.RPCMetrics, "get_multi_currency_statistics"), h.RPC.Statistics)
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h, authenticated)

		protected := v1.Group("", authenticated...)
		registerConfigRoutes(protected, h, deps)
		registerCurrencyRoutes(protected, h)
		registerSessionRoutes(protected, h, deps)
		registerOrderRoutes(protected, h)
		registerPaymentRoutes(protected, h)
		protected.GET("/printer/status", h.Printer.GetStatus)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, authenticated []gin.HandlerFunc) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.Group("", authenticated...).GET("/me", h.Auth.Me)
	}
}

func registerConfigRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	configs := protected.Group("/pos/configs/:id")
	{
		configs.GET("", h.Config.Get)
		configs.POST("/load", h.Config.LoadPosData)
		configs.PUT("/multi_currency", middleware.RequireGroup(entity.GroupPosManager), h.Config.UpdateMultiCurrency)

		configs.POST("/multi_currency/config", middleware.RPCMetrics(deps.RPCMetrics, "get_multi_currency_config"), h.Config.MultiCurrencyConfig)
		configs.POST("/multi_currency/rates", middleware.RPCMetrics(deps.RPCMetrics, "config_multi_currency_rates"), h.Config.Rates)
		configs.POST("/multi_currency/statistics", middleware.RPCMetrics(deps.RPCMetrics, "config_multi_currency_statistics"), h.Config.Statistics)

		configs.POST("/sessions", h.Session.Open)
	}
}

func registerCurrencyRoutes(protected *gin.RouterGroup, h *Handlers) {
	currencies := protected.Group("/currencies")
	{
		currencies.GET("", h.Currency.List)
		currencies.GET("/conversion", h.Currency.Conversion)
		currencies.POST("/:id/rates", middleware.RequireGroup(entity.GroupPosManager), h.Currency.AddRate)
	}
}

func registerSessionRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sessions := protected.Group("/pos/sessions/:id")
	{
		sessions.GET("", h.Session.Get)
		sessions.GET("/foreign-payments", h.Session.ForeignPayments)
		sessions.POST("/close", h.Session.Close)

		// Clients retry order pushes, so every sync carries a key.
		sessions.POST("/orders", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}), h.Order.Sync)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	orders := protected.Group("/pos/orders/:id")
	{
		orders.GET("/ui", h.Order.ExportForUI)
		orders.GET("/foreign-payments", h.Order.ForeignPayments)
		orders.GET("/currency-breakdown", h.Order.CurrencyBreakdown)
		orders.GET("/receipt", h.Order.Receipt)
		orders.POST("/receipt/print", h.Printer.PrintReceipt)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers) {
	payments := protected.Group("/pos/payments/:id")
	{
		payments.GET("", h.Payment.Get)
		payments.PUT("", h.Payment.Update)
		payments.DELETE("", h.Payment.Delete)
	}
}
