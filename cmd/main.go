package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	grpcctx "github.com/dtroode/attestkeeper-server/internal/api/grpc/context"
	"github.com/dtroode/attestkeeper-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/attestkeeper-server/internal/api/grpc/server"
	httpapi "github.com/dtroode/attestkeeper-server/internal/api/http"
	"github.com/dtroode/attestkeeper-server/internal/attest"
	"github.com/dtroode/attestkeeper-server/internal/cache/memory"
	"github.com/dtroode/attestkeeper-server/internal/cache/object"
	"github.com/dtroode/attestkeeper-server/internal/cache/redis"
	"github.com/dtroode/attestkeeper-server/internal/config"
	"github.com/dtroode/attestkeeper-server/internal/filecheck"
	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/metrics"
	"github.com/dtroode/attestkeeper-server/internal/model"
	"github.com/dtroode/attestkeeper-server/internal/repository/postgres"
	"github.com/dtroode/attestkeeper-server/internal/server"
	"github.com/dtroode/attestkeeper-server/internal/service"
	storage "github.com/dtroode/attestkeeper-server/internal/storage/minio"
	"github.com/dtroode/attestkeeper-server/internal/token"
	"github.com/dtroode/attestkeeper-server/internal/vault"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		logger.Fatal("failed to register metrics", "error", err)
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, postgres.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	sealer, err := vault.New(cfg.Vault.Secret, vault.WithSalt(cfg.Vault.Salt), vault.WithIterations(cfg.Vault.Iterations))
	if err != nil {
		logger.Fatal("failed to initialize vault", "error", err)
	}

	checks := map[string]httpapi.HealthCheck{"postgres": db.Ping}
	tiers := []model.CacheTier{memory.New(cfg.Cache.MemoryTTL)}

	if cfg.Redis.Enabled {
		redisTier, err := redis.New(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Cache.RedisTTL,
		})
		if err != nil {
			logger.Fatal("failed to initialize redis cache", "error", err)
		}
		defer redisTier.Close()
		tiers = append(tiers, redisTier)
		checks["redis"] = redisTier.Ping
	}

	if cfg.Storage.Enabled {
		storageClient, err := storage.NewFromOptions(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
		})
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		tiers = append(tiers, object.New(storageClient))
		checks["minio"] = storageClient.Ping
	}

	keyRepo := postgres.NewKeyRepository(db)
	attestationRepo := postgres.NewAttestationRepository(db)
	totpRepo := postgres.NewTOTPRepository(db)

	keyService := service.NewKeys(keyRepo, sealer, tiers, logger, m, service.WithTierTimeout(cfg.Cache.TierTimeout))

	engine, err := attest.NewEngine(attestationRepo, keyService, attest.Config{
		Mode:            model.SignatureMode(cfg.Signing.Mode),
		MaxCodeAttempts: cfg.Signing.MaxCodeAttempts,
	}, logger, m)
	if err != nil {
		logger.Fatal("failed to initialize attestation engine", "error", err)
	}
	logger.Info("Attestation engine: signature mode", "mode", engine.Mode())
	if engine.Mode() == model.SignatureModeKeyedHash {
		logger.Warn("Attestation engine: keyed-hash signatures can only be checked for shape by third parties")
	}

	policies, err := filecheck.NewPolicyStore(cfg.Upload.PoliciesFile, logger)
	if err != nil {
		logger.Fatal("failed to load upload policies", "error", err)
	}
	if err := policies.Watch(ctx); err != nil {
		logger.Warn("failed to watch upload policies, hot reload disabled", "error", err)
	}

	attestationService := service.NewAttestations(keyService, engine, attestationRepo, filecheck.NewValidator(logger, m), policies, logger)
	twoFactorService := service.NewTwoFactor(totpRepo, sealer, cfg.TOTP.Issuer, logger, m, service.WithWindow(cfg.TOTP.Window))

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	ctxMgr := grpcctx.NewManager()

	r := router.New(attestationService, keyService, twoFactorService, tokenManager, ctxMgr, logger)
	servers := []model.Server{
		grpcServer.NewGRPCServer(r.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port)),
		httpapi.NewServer(httpapi.NewRouter(attestationService, httpapi.Options{
			Checks:       checks,
			Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		}, logger), cfg.HTTP.Addr, cfg.HTTP.ReadHeaderTimeout),
	}

	sl := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	keyService.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
