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

	"github.com/joho/godotenv"

	"github.com/pixelsmith/playground/internal/config"
	"github.com/pixelsmith/playground/internal/handler"
	aiHandler "github.com/pixelsmith/playground/internal/handler/ai"
	"github.com/pixelsmith/playground/internal/repository/sessions"
	"github.com/pixelsmith/playground/internal/repository/users"
	aiService "github.com/pixelsmith/playground/internal/service/ai"
	authService "github.com/pixelsmith/playground/internal/service/auth"
	sessionService "github.com/pixelsmith/playground/internal/service/session"
	"github.com/pixelsmith/playground/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := storage.Open(ctx, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	authSvc := authService.NewService(users.NewPostgresRepository(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	sessionSvc := sessionService.NewService(sessions.NewPostgresRepository(db))

	// The AI proxy is optional: without upstream credentials the generate
	// endpoint answers 503 and everything else keeps working.
	var generator aiHandler.Generator
	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to create chat model: %v", err)
		} else if svc, err := aiService.NewService(ctx, chatModel); err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
		} else {
			generator = svc
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("AI credentials not configured, generation endpoint disabled")
	}

	router := handler.NewRouter(authSvc, sessionSvc, generator, cfg.CORS.AllowedOrigins)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("playground backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
