package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chappi-wallet/config"
	"chappi-wallet/internal/adapter/federation"
	httpHandler "chappi-wallet/internal/adapter/http/handler"
	"chappi-wallet/internal/adapter/ledger"
	fileStorage "chappi-wallet/internal/adapter/storage/file"
	memStorage "chappi-wallet/internal/adapter/storage/memory"
	pgStorage "chappi-wallet/internal/adapter/storage/postgres"
	redisStorage "chappi-wallet/internal/adapter/storage/redis"
	"chappi-wallet/internal/core/ports"
	"chappi-wallet/internal/service"
	"chappi-wallet/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CHAPPI_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("network", cfg.Stellar.Network).
		Str("federation_domain", cfg.Federation.Domain).
		Msg("Starting Chappi wallet service")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var healthCheckers []ports.HealthChecker

	// Initialize PostgreSQL pool (optional)
	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		pool, err = pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		if err := pgStorage.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply schema")
		}
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
		log.Info().Msg("PostgreSQL connected")
	}

	// Initialize Redis client (optional)
	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		rdb, err = redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
		log.Info().Msg("Redis connected")
	}

	// Durable stores, falling back to process memory
	var (
		outbox     ports.SyncOutbox
		paymentLog ports.PaymentLogRepository
		auditRepo  ports.AuditRepository
	)
	if pool != nil {
		outbox = pgStorage.NewOutboxRepo(pool)
		paymentLog = pgStorage.NewPaymentRepo(pool)
		auditRepo = pgStorage.NewAuditRepo(pool)
	} else {
		outbox = memStorage.NewOutbox()
		paymentLog = memStorage.NewPaymentLog()
		log.Warn().Msg("PostgreSQL disabled: sync outbox and payment log are kept in memory")
	}

	var (
		guard          ports.PaymentGuard
		resultCache    ports.PaymentResultCache
		nonceStore     ports.NonceStore
		rateLimitStore ports.RateLimitStore
	)
	if rdb != nil {
		guard = redisStorage.NewPaymentGuard(rdb)
		resultCache = redisStorage.NewPaymentResultCache(rdb)
		nonceStore = redisStorage.NewNonceStore(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
	} else {
		guard = memStorage.NewPaymentGuard()
		resultCache = memStorage.NewPaymentResultCache()
		nonceStore = memStorage.NewNonceStore()
		rateLimitStore = memStorage.NewRateLimitStore()
	}

	var directoryStore ports.DirectoryStore
	switch cfg.Directory.Backend {
	case "redis":
		directoryStore = redisStorage.NewDirectoryStore(rdb, cfg.Directory.RedisKey)
	case "postgres":
		directoryStore = pgStorage.NewDirectoryRepo(pool)
	default:
		directoryStore = fileStorage.NewDirectoryStore(cfg.Directory.Path)
	}

	// Initialize core services
	sigSvc := service.NewHMACSignatureService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	keys := service.NewStellarKeyManager(cfg.Stellar.Passphrase())

	var remote ports.FederationResolver
	if cfg.Federation.ServerURL != "" {
		remote = federation.NewClient(federation.Config{
			BaseURL:      cfg.Federation.ServerURL,
			ReadTimeout:  cfg.Federation.ReadTimeout,
			WriteTimeout: cfg.Federation.WriteTimeout,
			SharedSecret: cfg.Federation.SharedSecret,
		}, &http.Client{}, sigSvc, log)
		log.Info().Str("server_url", cfg.Federation.ServerURL).Msg("Remote federation server configured")
	}

	gateway := ledger.NewHorizonGateway(ledger.GatewayConfig{
		HorizonURL:     cfg.Stellar.HorizonURL,
		FaucetURL:      cfg.Stellar.FaucetURL,
		Public:         cfg.Stellar.IsPublic(),
		RequestTimeout: cfg.Stellar.RequestTimeout,
		FaucetTimeout:  cfg.Stellar.FaucetTimeout,
	}, nil, log)
	healthCheckers = append(healthCheckers, ledger.NewHealthCheck(gateway))

	directory, err := service.NewDirectoryService(ctx, directoryStore, remote, outbox, service.DirectoryOptions{
		Domain:   cfg.Federation.Domain,
		FailOpen: cfg.Federation.FailOpen,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load federation directory")
	}

	executor := service.NewPaymentService(keys, directory, remote, gateway, guard, resultCache, paymentLog, service.PaymentOptions{
		BaseFee:            cfg.Stellar.BaseFee,
		TxTimeout:          cfg.Stellar.TxTimeout,
		SerializePerWallet: cfg.Payments.SerializePerWallet,
		InflightTTL:        cfg.Payments.InflightTTL,
		ResultTTL:          cfg.Payments.ResultTTL,
	}, log)
	walletSvc := service.NewWalletService(keys, directory, remote, gateway, cfg.Stellar.FundOnCreate, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Background outbox drain
	if remote != nil {
		worker := service.NewFederationSyncWorker(outbox, remote, cfg.Federation.SyncInterval, log)
		go worker.Run(ctx)
	}

	if cfg.Federation.SharedSecret == "" {
		log.Warn().Msg("federation.shared_secret not set: POST /federation/register is disabled")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:        walletSvc,
		PaymentExecutor:  executor,
		PaymentLog:       paymentLog,
		Directory:        directory,
		SigSvc:           sigSvc,
		NonceStore:       nonceStore,
		TokenSvc:         tokenSvc,
		RateLimitStore:   rateLimitStore,
		FederationSecret: cfg.Federation.SharedSecret,
		HealthCheckers:   healthCheckers,
		AuditSvc:         auditSvc,
		Logger:           log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
