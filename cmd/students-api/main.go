// main is the entry point of the Student Directory API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (.env, optional YAML file, environment, defaults)
//  2. Initialise the logger
//  3. Build the student directory and insert the sample records
//  4. Register all HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api
//
// or with a config file:
//
//	go run ./cmd/students-api --config=config/local.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/student-directory/internal/config"
	"github.com/aanand-mishra/student-directory/internal/http/router"
	"github.com/aanand-mishra/student-directory/internal/storage"
	"github.com/aanand-mishra/student-directory/internal/storage/memory"
	"github.com/aanand-mishra/student-directory/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Installed as the default so handlers can log through slog.Info.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting student directory",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise the Directory ───────────────────────────────────────
	store, closeStore, err := openStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver))

	if !cfg.DisableSeed {
		if err := storage.Seed(store); err != nil {
			log.Error("failed to seed sample students",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info("sample students added",
			slog.Int("count", len(storage.SampleStudents)))
	}

	// ── 4. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router.New(cfg, store, log),

		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 5. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe returns http.ErrServerClosed when Shutdown() is
	// called. That's expected — we don't want to log it as an error.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// openStorage builds the backend named by cfg.Storage.Driver. The returned
// close function is always safe to call.
func openStorage(cfg *config.Config) (storage.Storage, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		return memory.New(), func() {}, nil
	case "sqlite":
		db, err := sqlite.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
