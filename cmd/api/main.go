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

	"github.com/manojpracturu/first-aid/internal/config"
	"github.com/manojpracturu/first-aid/internal/handler"
	"github.com/manojpracturu/first-aid/internal/service/ai"
	"github.com/manojpracturu/first-aid/internal/service/session"
	"github.com/manojpracturu/first-aid/internal/store"
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

	// The local cache tier is mandatory: transcripts live there and the
	// profile path falls back to it when the remote store is unreachable.
	local, err := store.NewSQLiteCache(ctx, cfg.Store.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open local store at %s: %v", cfg.Store.SQLitePath, err)
	}
	defer local.Close()

	var remote store.DocumentStore
	if cfg.Store.RedisURL != "" {
		redisStore, err := store.NewRedisStore(ctx, cfg.Store.RedisURL)
		if err != nil {
			log.Printf("warning: remote store unavailable: %v", err)
			log.Println("continuing with local storage only")
		} else {
			remote = redisStore
			defer redisStore.Close()
			log.Println("remote document store connected")
		}
	} else {
		log.Println("REDIS_URL not set, using local storage only")
	}

	gateway := store.NewGateway(remote, local, store.DefaultTierPolicy())

	// Initialize AI service
	var gen ai.Generator
	if cfg.AI.Enabled() {
		client, err := ai.NewGeminiClient(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI client: %v", err)
			log.Println("continuing without AI functionality - check GEMINI_API_KEY")
		} else {
			gen = client
			log.Printf("AI service initialized, model=%s", cfg.AI.Model)
		}
	} else {
		log.Println("GEMINI_API_KEY not set, assistant replies will report the missing credential")
	}
	aiSvc := ai.NewService(gen)

	sessions := session.NewManager(aiSvc, gateway)

	router := handler.NewRouter(sessions, aiSvc, gateway, cfg.Chat.DefaultLanguage)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("first-aid backend listening on %s", addr)
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
