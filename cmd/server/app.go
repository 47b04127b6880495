package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"carprice/internal/catalog"
	"carprice/internal/config"
	"carprice/internal/encoder"
	"carprice/internal/features"
	"carprice/internal/metrics"
	"carprice/internal/predictor"
	"carprice/internal/repository"
	"carprice/internal/service"
)

// app holds everything loaded once at startup
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	metrics    *metrics.Metrics
	encoders   *encoder.Set
	predictor  predictor.Predictor
	catalog    *catalog.Catalog
	prediction *service.PredictionService
}

// loadApp reads every artifact and the catalog. Any failure is fatal for
// the caller; the service never starts half-loaded.
func loadApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	paths := cfg.Artifacts.Paths()

	if err := features.LoadOrder(paths.Features); err != nil {
		return nil, err
	}

	encoders, err := encoder.LoadSet(paths)
	if err != nil {
		return nil, err
	}
	logger.Info("encoders loaded", "dir", cfg.Artifacts.Dir)

	regressor, err := predictor.Load(paths.Regressor, predictor.Options{
		ONNXLibraryPath: cfg.Artifacts.ONNXLibraryPath,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("model loaded", "path", paths.Regressor, "model", fmt.Sprint(regressor))

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		closePredictor(regressor)
		return nil, err
	}
	logger.Info("catalog loaded", "source", cfg.Catalog.Source, "rows", cat.Len(), "brands", len(cat.Brands()))

	m := metrics.New()
	m.SetCatalogRows(cat.Len())

	a := &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
		encoders:  encoders,
		predictor: regressor,
		catalog:   cat,
	}
	a.prediction = service.NewPredictionService(service.PredictionServiceConfig{
		Builder:      features.NewBuilder(encoders),
		Predictor:    regressor,
		Catalog:      cat,
		Vocabulary:   encoders,
		Metrics:      m,
		Logger:       logger,
		EnforcePairs: cfg.Catalog.EnforcePairs,
	})
	return a, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Source != config.CatalogSourcePostgres {
		return catalog.LoadFile(cfg.Catalog.Path)
	}

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.Catalog.Table,
		cfg.Catalog.OrderBy,
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		return nil, err
	}
	// The catalog is static once read, so the pool is not kept open.
	defer repo.Close()

	return catalog.FromSource(ctx, repo)
}

// Close releases the model runtime, if it holds one
func (a *app) Close() error {
	return closePredictor(a.predictor)
}

func closePredictor(p predictor.Predictor) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
