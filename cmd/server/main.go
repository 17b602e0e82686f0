package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/preference/backend/internal/realtime"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/anonto42/preference/backend/internal/router"
	"github.com/anonto42/preference/backend/internal/validators"
	"github.com/anonto42/preference/backend/migrations"
	"github.com/anonto42/preference/backend/pkg/config"
	"github.com/anonto42/preference/backend/pkg/firebase"
	"github.com/anonto42/preference/backend/pkg/push"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	if cfg.MigrateOnStart {
		url := cfg.MigrationsURL
		if url == "" {
			url = cfg.PostgresUrl
		}
		if err := migrations.Up(url); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Database migrations applied.")
	} else if !cfg.IsProduction() {
		if err := repositories.AutoMigrate(db.Postgres); err != nil {
			log.Fatalf("Failed to auto migrate models: %v", err)
		}
		log.Println("PostgreSQL auto-migrations completed for all models.")
	}

	deps := router.Deps{DB: db.Postgres, Config: cfg}

	// Firebase is optional: without it invites stay local and uploads are disabled.
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	if err != nil {
		log.Printf("Firebase disabled: %v", err)
	} else {
		deps.Accounts = firebase.NewAuthAccounts(firebaseApp.AuthClient)
		if uploader := firebase.NewBucketUploader(firebaseApp); uploader != nil {
			deps.Uploader = uploader
		}
	}

	messageRepo := repositories.NewMongoMessageRepository(db.Chat)
	if err := messageRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("Failed to create message indexes: %v", err)
	}
	deps.Messages = messageRepo

	hub := realtime.NewHub()
	go hub.Run(ctx)
	deps.Hub = hub
	deps.Publisher = hub
	if cfg.RealtimePGBridge {
		bridge := realtime.NewPGBridge(db.Postgres, cfg.PostgresUrl, hub)
		go bridge.Run(ctx)
		deps.Publisher = bridge
		log.Println("Realtime events bridged through Postgres LISTEN/NOTIFY.")
	}

	pusher := push.NewSender(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject)
	if !pusher.Enabled() {
		log.Println("VAPID keys not set, Web Push disabled.")
	}
	deps.Pusher = pusher

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	config.SetupMiddleware(e)
	router.SetupRoutes(e, deps)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
