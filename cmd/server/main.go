package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/courierdesk/ledger/internal/api"
	"github.com/courierdesk/ledger/internal/config"
	"github.com/courierdesk/ledger/internal/ingestion"
	"github.com/courierdesk/ledger/internal/logger"
	"github.com/courierdesk/ledger/internal/reconciliation"
	"github.com/courierdesk/ledger/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	// Amounts go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	log.Info("initializing database", zap.String("path", cfg.DB.Path))
	db, err := repository.InitDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	defer db.Close()

	// Create repositories.
	orderRepo := repository.NewOrderRepo(db)
	importRepo := repository.NewImportRepo(db)

	// Create services.
	loc := cfg.Report.Location()
	reconSvc := reconciliation.NewService(reconciliation.ServiceConfig{
		Source:   orderRepo,
		Holds:    orderRepo,
		Logger:   log.Named("reconciliation"),
		Location: loc,
	})
	ingestionSvc := ingestion.NewService(orderRepo, importRepo, log.Named("ingestion"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed orders if DB is empty.
	count, err := orderRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if count == 0 {
		log.Info("database is empty, seeding orders")
		if err := seedOrders(ctx, ingestionSvc, cfg.Seed.Path, log); err != nil {
			log.Warn("failed to seed orders", zap.Error(err))
		}
	} else {
		log.Info("database already has orders, skipping seed", zap.Int("orders", count))
	}

	router := api.NewRouter(api.Deps{
		Recon:           reconSvc,
		Orders:          orderRepo,
		Ingestion:       ingestionSvc,
		Logger:          log.Named("http"),
		Location:        loc,
		IncludeHoldFees: cfg.Report.IncludeHoldFees,
		MaxUpload:       cfg.HTTP.MaxUpload,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("courier ledger listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func seedOrders(ctx context.Context, svc *ingestion.Service, path string, log *zap.Logger) error {
	// Try multiple possible locations for testdata.
	candidates := []string{path}
	if path == "" {
		candidates = []string{
			filepath.Join("testdata", "orders.json"),
		}
		if exe, err := os.Executable(); err == nil {
			dir := filepath.Dir(exe)
			candidates = append(candidates,
				filepath.Join(dir, "testdata", "orders.json"),
				filepath.Join(dir, "..", "..", "testdata", "orders.json"),
			)
		}
	}

	var data []byte
	var loadErr error
	var found string
	for _, p := range candidates {
		data, loadErr = os.ReadFile(p)
		if loadErr == nil {
			found = p
			break
		}
	}
	if loadErr != nil {
		return fmt.Errorf("could not find a seed export in any candidate path: %w", loadErr)
	}

	format := ingestion.FormatJSON
	if strings.EqualFold(filepath.Ext(found), ".csv") {
		format = ingestion.FormatCSV
	}

	res, err := svc.IngestOrders(ctx, data, format)
	if err != nil {
		return err
	}
	log.Info("seeded orders",
		zap.String("path", found),
		zap.Int("orders", res.OrdersWritten),
		zap.Bool("already_imported", res.AlreadyImported))
	return nil
}
