package handler

import (
	"chappi-wallet/internal/adapter/http/middleware"
	"chappi-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc        ports.WalletService
	PaymentExecutor  ports.PaymentExecutor
	PaymentLog       ports.PaymentLogRepository
	Directory        ports.Directory
	SigSvc           ports.SignatureService
	NonceStore       ports.NonceStore
	TokenSvc         ports.TokenService
	RateLimitStore   ports.RateLimitStore // nil = rate limiting disabled
	FederationSecret string               // empty = /federation/register disabled
	HealthCheckers   []ports.HealthChecker
	AuditSvc         ports.AuditService // nil = audit logging disabled
	Logger           zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(64 << 10)) // 64 KB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
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

	// --- Federation protocol (public lookup, signed peer registration) ---
	federationHandler := NewFederationHandler(deps.Directory)
	r.GET("/federation", rl("federation"), federationHandler.Lookup)
	if deps.FederationSecret != "" {
		hmacAuth := middleware.FederationHMAC(deps.FederationSecret, deps.SigSvc, deps.NonceStore, deps.Logger)
		r.POST("/federation/register", rl("federation_register"), hmacAuth, federationHandler.Register)
	}

	// --- Operator API (JWT-authenticated) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	v1 := r.Group("/api/v1", jwtAuth)

	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("", rl("wallets"), walletHandler.Generate)
		wallets.POST("/import", rl("wallets"), walletHandler.Import)
	}

	usernames := v1.Group("/usernames")
	{
		usernames.GET("/validate", rl("usernames"), walletHandler.ValidateUsername)
		usernames.POST("", rl("usernames"), walletHandler.RegisterUsername)
	}

	v1.GET("/resolve", rl("resolve"), walletHandler.Resolve)

	accountHandler := NewAccountHandler(deps.WalletSvc, deps.PaymentLog)
	accounts := v1.Group("/accounts/:id")
	{
		accounts.GET("/balances", rl("accounts"), accountHandler.GetBalances)
		accounts.GET("/transactions", rl("accounts"), accountHandler.GetTransactions)
		accounts.GET("/payments", rl("accounts"), accountHandler.ListPayments)
		accounts.POST("/fund", rl("accounts_fund"), accountHandler.Fund)
	}

	paymentHandler := NewPaymentHandler(deps.PaymentExecutor, deps.PaymentLog)
	payments := v1.Group("/payments")
	{
		payments.POST("", rl("payments"), paymentHandler.Send)
		payments.GET("/:id", rl("accounts"), paymentHandler.Get)
	}

	return r
}
