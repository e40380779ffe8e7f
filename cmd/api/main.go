package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pago-gateway/config"
	apidocs "pago-gateway/docs/api"
	httpHandler "pago-gateway/internal/adapter/http/handler"
	solanaLedger "pago-gateway/internal/adapter/ledger/solana"
	"pago-gateway/internal/adapter/messaging/rabbitmq"
	memStorage "pago-gateway/internal/adapter/storage/memory"
	"pago-gateway/internal/adapter/storage/mongodb"
	pgStorage "pago-gateway/internal/adapter/storage/postgres"
	redisStorage "pago-gateway/internal/adapter/storage/redis"
	"pago-gateway/internal/core/ports"
	"pago-gateway/internal/service"
	"pago-gateway/pkg/logger"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("PAGO_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("driver", cfg.Database.Driver).
		Msg("Starting Pago Gateway")

	ctx := context.Background()
	var checkers []ports.HealthChecker

	// Storage
	var (
		intentRepo ports.IntentRepository
		walletRepo ports.WalletRepository
		agentRepo  ports.AgentRepository
		vaultRepo  ports.KeyVaultRepository
	)
	switch cfg.Database.Driver {
	case "memory":
		wallets := memStorage.NewWalletRepo()
		intentRepo = memStorage.NewIntentRepo()
		walletRepo = wallets
		agentRepo = memStorage.NewAgentRepo(wallets)
		vaultRepo = memStorage.NewKeyVault()
		log.Warn().Msg("Using in-memory storage, intents are lost on restart")
	default:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		log.Info().Msg("PostgreSQL connected")

		timeout := cfg.Database.QueryTimeout
		intentRepo = pgStorage.NewIntentRepo(pool, timeout)
		walletRepo = pgStorage.NewWalletRepo(pool, timeout)
		agentRepo = pgStorage.NewAgentRepo(pool, timeout)
		vaultRepo = pgStorage.NewKeyVaultRepo(pool, timeout)
		checkers = append(checkers, pgStorage.NewHealthCheck(pool))
	}

	// Cache and rate limiting
	var (
		cache          ports.IntentCache
		rateLimitStore *redisStorage.RateLimitStore
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		cache = redisStorage.NewIntentCache(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		checkers = append(checkers, redisStorage.NewHealthCheck(rdb))
	} else {
		cache = memStorage.NewIntentCache()
		log.Warn().Msg("Redis disabled, using process-local cache without rate limiting")
	}

	// Ledger
	ledger := solanaLedger.NewClient(rpc.New(cfg.Solana.RPCURL), solanaLedger.Config{
		Commitment: cfg.Solana.Commitment,
		Timeout:    cfg.Solana.Timeout,
		Lookback:   cfg.Solana.SignatureLookback,
	}, logger.Component(log, "ledger"))
	checkers = append(checkers, ledger)

	// Events
	var publisher ports.EventPublisher
	if cfg.RabbitMQ.Enabled {
		conn, ch, err := rabbitmq.Dial(cfg.RabbitMQ.URL, "pago-api")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		defer conn.Close()
		if err := rabbitmq.DeclareExchange(ch, cfg.RabbitMQ.Exchange); err != nil {
			log.Fatal().Err(err).Msg("Failed to declare RabbitMQ exchange")
		}
		publisher = rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange, logger.Component(log, "publisher"))
		log.Info().Str("exchange", cfg.RabbitMQ.Exchange).Msg("RabbitMQ connected")
	}

	// Key custody
	var custodian ports.KeyCustodian
	switch cfg.Custody.Mode {
	case "sealed":
		encSvc, err := service.NewAESEncryptionService(cfg.Custody.Key)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize encryption service")
		}
		custodian = service.NewSealedCustodian(encSvc, vaultRepo)
	default:
		custodian = service.NewDiscardCustodian(log)
	}

	// Identity
	httpClient := &http.Client{Timeout: 10 * time.Second}
	certs := service.NewHTTPCertSource(cfg.Identity.CertsURL, httpClient, cfg.Identity.KeyCacheTTL)
	verifier := service.NewIDTokenVerifier(certs, cfg.Identity.ProjectID, cfg.Identity.Issuer())

	// Business services
	keyGen := service.NewSolanaKeyGenerator()
	walletSvc := service.NewWalletService(walletRepo, keyGen, custodian, logger.Component(log, "wallets"))
	agentSvc := service.NewAgentService(agentRepo, walletSvc)
	issuer := service.NewIntentIssuer(intentRepo, keyGen, publisher, cfg.Solana.SPLToken, logger.Component(log, "issuer"))
	checkoutSvc := service.NewCheckoutService(intentRepo, cache, walletSvc, issuer, service.CheckoutConfig{
		AgentID:     cfg.Checkout.AgentID,
		WalletLabel: cfg.Checkout.WalletLabel,
		Label:       cfg.Checkout.Label,
		Message:     cfg.Checkout.Message,
		CacheTTL:    cfg.Redis.CacheTTL,
	}, logger.Component(log, "checkout"))
	settlementSvc := service.NewSettlementService(intentRepo, ledger, cache, publisher, logger.Component(log, "settlement"))
	requestSvc := service.NewRequestService(issuer)
	sessionSvc := service.NewSessionService(verifier, agentSvc, cfg.Identity.SessionMaxAge)
	reportingSvc := service.NewReportingService(intentRepo)

	// Audit entries always reach the structured log; mongo persistence is optional.
	var auditRepo ports.AuditRepository
	if cfg.Mongo.Enabled {
		mc, err := mongodb.Connect(ctx, cfg.Mongo.URI, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer func() { _ = mc.Disconnect(context.Background()) }()
		auditRepo = mongodb.NewAuditRepo(mc.Database(cfg.Mongo.Database))
		checkers = append(checkers, mongodb.NewHealthCheck(mc))
	}
	auditSvc := service.NewAuditService(auditRepo, logger.Component(log, "audit"))

	gin.SetMode(cfg.Server.Mode)
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		CheckoutSvc:    checkoutSvc,
		SettlementSvc:  settlementSvc,
		RequestSvc:     requestSvc,
		SessionSvc:     sessionSvc,
		ReportingSvc:   reportingSvc,
		AuditSvc:       auditSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: checkers,
		SecureCookies:  cfg.Server.Production(),
		OpenAPISpec:    apidocs.OpenAPI,
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
