// Ron - persona chat responder for Telegram and WhatsApp.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/ron-bot/internal/channel/telegram"
	"github.com/ashureev/ron-bot/internal/channel/whatsapp"
	"github.com/ashureev/ron-bot/internal/config"
	"github.com/ashureev/ron-bot/internal/logsink"
	"github.com/ashureev/ron-bot/internal/persona"
	"github.com/ashureev/ron-bot/internal/provider"
	"github.com/ashureev/ron-bot/internal/responder"
	"github.com/ashureev/ron-bot/internal/session"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "provider", cfg.Provider)

	// Persona facts are loaded once; the store is read-only afterwards.
	personaStore := persona.New()
	if cfg.PersonaFacts != "" {
		personaStore, err = persona.NewFromFile(cfg.PersonaFacts)
		if err != nil {
			slog.Error("Failed to load persona facts", "path", cfg.PersonaFacts, "error", err)
			os.Exit(1)
		}
		slog.Info("Persona facts loaded", "path", cfg.PersonaFacts)
	}

	// Backend selection happens once, here. Nothing downstream inspects
	// the provider name except for logging.
	var backend provider.Provider
	switch cfg.Provider {
	case config.ProviderOllama:
		backend = provider.NewOllama(cfg.OllamaURL, cfg.OllamaModel, cfg.OllamaTimeout)
	default:
		backend = provider.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITimeout)
	}

	var sink logsink.Sink = logsink.Nop{}
	if cfg.InteractionLog.Enabled {
		sqliteSink, err := logsink.NewSQLite(cfg.InteractionLog.DBPath, cfg.InteractionLog.QueueSize)
		if err != nil {
			slog.Error("Failed to initialize interaction log", "error", err)
			os.Exit(1)
		}
		sink = sqliteSink
		slog.Info("Interaction log ready", "path", cfg.InteractionLog.DBPath)
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil {
			slog.Error("Failed to close interaction log", "error", closeErr)
		}
	}()

	sessions := session.NewStore()
	core := responder.New(backend, sessions, personaStore, sink)

	// Setup router.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"service":"ron-wa"}`))
	})

	sender := whatsapp.NewSender(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.SendTimeout)
	waHandler := whatsapp.NewHandler(core, sender, cfg.WhatsApp.VerifyToken)
	waHandler.RegisterRoutes(r)

	// Note: webhook replies wait on the completion backend, so writes can
	// take minutes; no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TelegramToken != "" {
		bot, err := telegram.New(cfg.TelegramToken, core)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
			os.Exit(1)
		}
		go bot.Run(ctx)
	} else {
		slog.Info("Telegram adapter disabled (TELEGRAM_BOT_TOKEN not set)")
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
