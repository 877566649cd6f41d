package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-verify-link/internal/config"
	"github.com/go-verify-link/internal/infrastructure/audit"
	"github.com/go-verify-link/internal/infrastructure/discord"
	"github.com/go-verify-link/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-verify-link/internal/infrastructure/jwt"
	"github.com/go-verify-link/internal/infrastructure/scratch"
	snsinfra "github.com/go-verify-link/internal/infrastructure/sns"
	transporthttp "github.com/go-verify-link/internal/transport/http"
	"github.com/go-verify-link/internal/verify"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	// Bootstrap the DynamoDB pairing table (created if it doesn't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)
	pairingRepo := dynamo.NewPairingRepo(dynamoClient, cfg.DynamoTables.Pairings)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available, API runs unauthenticated: %v", err)
	}

	// SNS event publisher (optional — enabled by SNS_TOPIC_ARN).
	var events snsinfra.EventPublisher
	if cfg.SNSTopicARN != "" {
		if p, err := snsinfra.NewPublisher(cfg); err == nil {
			events = p
		} else {
			log.Printf("WARN: SNS publisher not available: %v", err)
		}
	}

	discordClient := discord.NewClient(cfg)
	scratchClient := scratch.NewClient(cfg)
	auditLog := audit.NewLog(cfg.AuditLogPath)

	store := verify.NewStore()
	verifySvc := verify.NewService(store, cfg.CodeLength, cfg.VerifyTTL)
	outcomes := verify.NewOutcomes(auditLog, pairingRepo, discordClient, discordClient, events)
	reconciler := verify.NewReconciler(store, scratchClient, outcomes, cfg.PollInterval, cfg.FetchTimeout)

	loopCtx, stopLoop := context.WithCancel(context.Background())
	go reconciler.Run(loopCtx)

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		VerifyService: verifySvc,
		PairingRepo:   pairingRepo,
		JWTProvider:   jwtProvider,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, poll=%s, ttl=%s)", cfg.AppPort, cfg.AppEnv, cfg.PollInterval, cfg.VerifyTTL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	stopLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
