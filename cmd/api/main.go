package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/finboard/internal/app"
	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/database"
	finboardHttp "github.com/MrJamesThe3rd/finboard/internal/http"
	accountHandler "github.com/MrJamesThe3rd/finboard/internal/http/account"
	dashboardHandler "github.com/MrJamesThe3rd/finboard/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/finboard/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/finboard/internal/http/matching"
	reportHandler "github.com/MrJamesThe3rd/finboard/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/finboard/internal/http/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format).With().Str("app", cfg.App.Name).Logger()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	svc := app.NewServices(db, loc)

	router := finboardHttp.New(finboardHttp.Handlers{
		Dashboard:    dashboardHandler.NewHandler(svc.Dashboard),
		Accounts:     accountHandler.NewHandler(svc.Accounts),
		Transactions: txHandler.NewHandler(svc.Transactions, svc.Subscriptions, loc),
		Import:       importHandler.NewHandler(svc.Importer, svc.Transactions, loc),
		Matching:     matchingHandler.NewHandler(svc.Matching),
		Export:       exportHandler.NewHandler(svc.Export, loc),
		Reports:      reportHandler.NewHandler(svc.Reports, loc),
	}, finboardHttp.Options{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         log,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	return serve(ctx, server, log, cfg.Server.Timeout)
}

func serve(ctx context.Context, server *http.Server, log zerolog.Logger, grace time.Duration) error {
	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
