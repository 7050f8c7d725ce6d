package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/controlfin/internal/config"
	"github.com/MrJamesThe3rd/controlfin/internal/database"
	"github.com/MrJamesThe3rd/controlfin/internal/export"
	finHttp "github.com/MrJamesThe3rd/controlfin/internal/http"
	exportHandler "github.com/MrJamesThe3rd/controlfin/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/controlfin/internal/http/importlegacy"
	ledgerHandler "github.com/MrJamesThe3rd/controlfin/internal/http/ledger"
	"github.com/MrJamesThe3rd/controlfin/internal/importer"
	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
	"github.com/MrJamesThe3rd/controlfin/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logging.ToContext(ctx, logger)

	conn, err := database.Connect(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to backend", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	notifier := ledger.NotifierFunc(func(n ledger.Notification) {
		logger.Debug("notification", "level", n.Level, "message", n.Message)
	})

	var (
		ledgerService = ledger.NewService(conn.Repository, notifier)
		importService = importer.NewService(ledgerService)
		exportService = export.NewService(ledgerService)
	)

	// The server starts with empty lists when the first load fails.
	if err := ledgerService.Reload(ctx); err != nil {
		slog.Warn("initial load failed", "error", err)
	}

	var (
		ledgerH = ledgerHandler.NewHandler(ledgerService)
		importH = importHandler.NewHandler(importService)
		exportH = exportHandler.NewHandler(exportService)
	)

	router := finHttp.New(logger, ledgerH, importH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "backend", conn.Kind)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
