// main is the entry point of the EduTrack registration dashboard.
//
// STARTUP SEQUENCE:
//  1. Load configuration (defaults, optional YAML file, .env, environment)
//  2. Initialise the logger
//  3. Build the submission handler bound to the backend base URL
//  4. Register the dashboard routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING:
//
//	API_URL=http://localhost:8081 go run ./cmd/edutrack
//
// or with a config file:
//
//	go run ./cmd/edutrack --config=config/local.yaml
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

	"github.com/aanand-mishra/edutrack/internal/config"
	"github.com/aanand-mishra/edutrack/internal/http/handlers/dashboard"
	"github.com/aanand-mishra/edutrack/internal/submission"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting edutrack", slog.String("env", cfg.Env))

	// The base URL is resolved once here and bound to the handler; nothing
	// below reads the environment again.
	submitter := submission.New(cfg.APIURL,
		submission.WithTimeout(cfg.RequestTimeout),
		submission.WithLogger(log),
	)
	log.Info("submitting to backend", slog.String("api_url", submitter.BaseURL()))

	renderer, err := dashboard.NewRenderer(cfg.Env)
	if err != nil {
		log.Error("failed to initialise renderer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: newRouter(submitter, renderer),

		ReadTimeout: 10 * time.Second,
		// The write deadline has to outlive one backend round trip.
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// newRouter maps the dashboard routes:
//
//	GET  /                 registration form
//	POST /                 submit the form, render feedback
//	POST /api/submissions  JSON variant of the same flow
//	GET  /healthz          liveness probe
func newRouter(submitter dashboard.Submitter, renderer *dashboard.Renderer) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /{$}", dashboard.Index(renderer))
	router.HandleFunc("POST /{$}", dashboard.Submit(submitter, renderer))
	router.HandleFunc("POST /api/submissions", dashboard.SubmitJSON(submitter))
	router.HandleFunc("GET /healthz", dashboard.Health())

	return router
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}
}
