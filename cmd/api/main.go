package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/engine"
	"github.com/MrJamesThe3rd/invoicer/internal/extractor/gemini"
	invoicerHttp "github.com/MrJamesThe3rd/invoicer/internal/http"
	extractHandler "github.com/MrJamesThe3rd/invoicer/internal/http/extract"
	sessionHandler "github.com/MrJamesThe3rd/invoicer/internal/http/session"
	"github.com/MrJamesThe3rd/invoicer/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	profile, err := config.LoadProfile(cfg.Profile.Path)
	if err != nil {
		slog.Error("failed to load profile", "error", err)
		os.Exit(1)
	}

	if cfg.GeminiKey() == "" {
		slog.Warn("no GEMINI_API_KEY or GOOGLE_API_KEY set, conversational turns will fail")
	}

	extractor := gemini.New(gemini.Config{
		APIKey:  cfg.GeminiKey(),
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	})

	var (
		store          = session.NewStore(engine.WithProfile(profile))
		sessionService = session.NewService(store, extractor)
	)

	var (
		sessionH = sessionHandler.NewHandler(sessionService, sessionHandler.WithTurnTimeout(cfg.Gemini.Timeout))
		extractH = extractHandler.NewHandler(extractor)
	)

	router := invoicerHttp.New(cfg.Server.CORSOrigins, sessionH, extractH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout + cfg.Gemini.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
