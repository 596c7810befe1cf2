package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukaan-app/otp-api/internal/application/otp"
	"github.com/dukaan-app/otp-api/internal/config"
	"github.com/dukaan-app/otp-api/internal/infrastructure/dynamo"
	"github.com/dukaan-app/otp-api/internal/infrastructure/firebase"
	"github.com/dukaan-app/otp-api/internal/infrastructure/geocode"
	"github.com/dukaan-app/otp-api/internal/infrastructure/memory"
	"github.com/dukaan-app/otp-api/internal/infrastructure/redisstore"
	"github.com/dukaan-app/otp-api/internal/infrastructure/sms"
	"github.com/dukaan-app/otp-api/internal/logging"
	transporthttp "github.com/dukaan-app/otp-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Credential store. Lifecycle is tied to server startup and shutdown; no
	// ambient global state.
	var store interface {
		otp.CredentialStore
		Ping(context.Context) error
	}
	switch cfg.StoreBackend {
	case "dynamo":
		client := dynamo.NewClient(cfg)
		dynamo.Bootstrap(ctx, client, cfg.DynamoTable)
		store = dynamo.NewStore(client, cfg.DynamoTable)
	case "redis":
		client, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis store: %v", err)
		}
		defer client.Close()
		store = redisstore.NewStore(client)
	default:
		mem := memory.NewStore()
		// Bound memory under sustained issue volume without verification.
		mem.StartReaper(ctx, 10*time.Minute)
		store = mem
	}

	// SMS sender. A missing Fast2SMS key keeps the service bootable: the
	// diagnostic issuance path works without real delivery.
	var sender sms.Sender
	smsReady := false
	switch cfg.SMSProvider {
	case "sns":
		s, err := sms.NewSNSSender(cfg.SNSRegion)
		if err != nil {
			log.Fatalf("sns sender: %v", err)
		}
		sender = s
		smsReady = true
	case "log":
		sender = sms.NewLogSender(logger)
	default:
		sender = sms.NewFast2SMSSender(cfg.Fast2SMSAPIKey, cfg.Fast2SMSSenderID)
		smsReady = cfg.Fast2SMSAPIKey != ""
	}

	// Assertion issuer is optional; without signing credentials verifications
	// still succeed, just without a token.
	var issuer otp.AssertionIssuer
	if i, err := firebase.NewIssuer(cfg); err == nil {
		issuer = i
	} else {
		slog.Warn("assertion issuer not available, verifications succeed without tokens", "err", err)
	}

	deps := &transporthttp.Deps{
		Store:     store,
		StoreOps:  store,
		SMSSender: sender,
		SMSReady:  smsReady,
		Issuer:    issuer,
		Geocoder:  geocode.NewClient(cfg.GeocodeBaseURL),
	}
	if cfg.FirebaseProjectID != "" {
		deps.Verifier = firebase.NewVerifier(cfg.FirebaseProjectID)
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	slog.Info("server stopped")
}
