package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/denisok6893-rgb/property-recommender/internal/config"
	"github.com/denisok6893-rgb/property-recommender/internal/currency"
	httpapi "github.com/denisok6893-rgb/property-recommender/internal/http"
	"github.com/denisok6893-rgb/property-recommender/internal/logging"
	"github.com/denisok6893-rgb/property-recommender/internal/matching"
	"github.com/denisok6893-rgb/property-recommender/internal/predictor"
	"github.com/denisok6893-rgb/property-recommender/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.Logging)
	logger := logging.Component("api")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	norm := currency.NewNormalizer(cfg.Currency.UFRate)

	deps := matching.Dependencies{Currency: norm}
	switch cfg.Predictor.Mode {
	case "http":
		client, err := predictor.NewClient(cfg.Predictor.HTTP, logging.Component("predictor"))
		if err != nil {
			return fmt.Errorf("predictor client: %w", err)
		}
		deps.Predictor = client
	case "heuristic":
		deps.Predictor = predictor.Heuristic{}
	}
	if deps.Predictor != nil {
		deps.Schema = predictor.NewSchemaV1(nil, norm)
	}

	engine, err := matching.NewEngine(cfg.Engine, deps, logging.Logger())
	if err != nil {
		return err
	}

	weights, err := matching.LoadWeightsFromFile(cfg.Storage.WeightsPath)
	if err != nil {
		logger.Warn().Err(err).Msg("using default weights")
	}

	opts := httpapi.Options{
		Engine:         engine,
		DefaultWeights: weights,
		Logger:         logging.Component("http"),
	}

	switch cfg.Storage.Driver {
	case "sqlite":
		st, err := openCatalog(ctx, cfg.Storage, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		opts.Source = st
		opts.Catalog = &httpapi.SQLiteCandidatesRepo{Store: st}
	case "json":
		items, err := storage.LoadCandidatesFromFile(cfg.Storage.JSONPath)
		if err != nil {
			return fmt.Errorf("load candidates: %w", err)
		}
		logger.Info().Int("candidates", len(items)).Str("path", cfg.Storage.JSONPath).Msg("candidates loaded")
		opts.Source = storage.NewMemorySource(items)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      httpapi.NewServer(opts).Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address).
			Str("storage", cfg.Storage.Driver).
			Str("predictor", cfg.Predictor.Mode).
			Msg("API listening")
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

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openCatalog opens the SQLite store and seeds it when it is empty.
func openCatalog(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (*storage.SQLiteStore, error) {
	st, err := storage.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	n, err := st.CountCandidates(ctx)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("count candidates: %w", err)
	}
	if n > 0 || cfg.SeedPath == "" {
		return st, nil
	}

	items, err := storage.LoadCandidatesFromFile(cfg.SeedPath)
	if err != nil {
		logger.Warn().Err(err).Msg("skip seeding")
		return st, nil
	}
	if err := st.UpsertMany(ctx, items); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("seed candidates: %w", err)
	}
	logger.Info().Int("candidates", len(items)).Str("path", cfg.SeedPath).Msg("catalog seeded")
	return st, nil
}
