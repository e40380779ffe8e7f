package handler

import (
	"pago-gateway/internal/adapter/http/middleware"
	redisStore "pago-gateway/internal/adapter/storage/redis"
	"pago-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	CheckoutSvc    ports.CheckoutService
	SettlementSvc  ports.SettlementService
	RequestSvc     ports.RequestService
	SessionSvc     ports.SessionService
	ReportingSvc   ports.ReportingService
	AuditSvc       ports.AuditService         // nil = audit logging disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	SecureCookies  bool
	OpenAPISpec    []byte
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20))

	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swaggerHandler := NewSwaggerHandler(deps.OpenAPISpec)
	r.GET("/swagger", swaggerHandler.UI)
	r.GET("/swagger/spec", swaggerHandler.Spec)

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Public routes ---
	checkoutHandler := NewCheckoutHandler(deps.CheckoutSvc)
	requestHandler := NewRequestHandler(deps.SettlementSvc, deps.RequestSvc, deps.ReportingSvc)
	sessionHandler := NewSessionHandler(deps.SessionSvc, deps.SecureCookies)

	v1.GET("/checkouts/:checkout", rl("checkout"), checkoutHandler.Checkout)
	v1.GET("/requests/:reference", rl("verify"), requestHandler.Verify)
	v1.POST("/me", rl("session"), sessionHandler.Start)

	// --- Agent routes (ID token or session cookie) ---
	auth := middleware.IdentityAuth(deps.SessionSvc, deps.Logger)
	dashboardHandler := NewDashboardHandler(deps.ReportingSvc)

	requests := v1.Group("/requests", auth)
	{
		requests.POST("", rl("requests"), requestHandler.Create)
		requests.GET("", rl("dashboard"), requestHandler.List)
	}

	dashboard := v1.Group("/dashboard", auth)
	{
		dashboard.GET("/stats", rl("dashboard"), dashboardHandler.GetStats)
	}

	return r
}
