// Command server runs the consent-aware patient disclosure service.
//
// main wires configuration, stores, the audit trail, and the HTTP surface.
// Business logic lives in the internal services packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sigilo/internal/audit"
	jwttoken "sigilo/internal/jwt_token"
	"sigilo/internal/lookup"
	lookuphandler "sigilo/internal/lookup/handler"
	lookupmetrics "sigilo/internal/lookup/metrics"
	"sigilo/internal/patient"
	"sigilo/internal/platform/config"
	"sigilo/internal/platform/httpserver"
	"sigilo/internal/platform/logger"
	"sigilo/internal/platform/metrics"
	"sigilo/internal/platform/redis"
	httptransport "sigilo/internal/transport/http"
	"sigilo/pkg/platform/circuit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var (
		patientRepo patient.Repository
		auditStore  audit.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		breaker := circuit.New("patients", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2))
		patientRepo = patient.NewBreakerRepository(patient.NewPostgresStore(pool), breaker, log)
		auditStore = audit.NewPostgresStore(pool)
		log.Info("using postgres stores")
	} else {
		patientRepo = patient.NewMemoryStore()
		auditStore = audit.NewMemoryStore()
		log.Warn("no database configured, using in-memory stores")
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		patientRepo = patient.NewCachedRepository(patientRepo, redisClient.Raw(), cfg.Redis.CacheTTL, log)
		log.Info("patient lookup cache enabled", "ttl", cfg.Redis.CacheTTL.String())
	}

	var mirrors []audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		mirrors = append(mirrors, publisher)
		log.Info("audit mirroring enabled", "topic", cfg.AuditTopic)
	}

	recorder := audit.NewRecorder(audit.NewFanoutSink(auditStore, log, mirrors...))
	service := lookup.NewService(patientRepo, recorder, auditStore, log, lookupmetrics.New(), cfg.AuditFailClosed)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        metrics.New(),
		TokenValidator: jwttoken.NewJWTService(cfg.JWTSigningKey, "sigilo"),
		RequestTimeout: cfg.LookupTimeout,
		Handlers: []httptransport.Registrar{
			lookuphandler.New(service, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
