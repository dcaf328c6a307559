package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tatangdev/Mern-Invoice-App/internal/config"
	"github.com/tatangdev/Mern-Invoice-App/internal/db"
	"github.com/tatangdev/Mern-Invoice-App/internal/server"
)

var migrateOnly = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	conn, err := db.Connect(db.Options{
		DSN:        cfg.DB.DSN,
		Debug:      cfg.DB.Debug,
		Migrations: cfg.DB.Migrations,
	})
	if err != nil {
		slog.Error("connect database", "error", err)
		os.Exit(1)
	}
	if *migrateOnly {
		slog.Info("migrations completed, exiting as requested")
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(conn, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}
