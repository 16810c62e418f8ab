package cmd

import (
	"context"

	"dealpipe/config"
	"dealpipe/pkg/cache"
	"dealpipe/pkg/logger"
	"dealpipe/pkg/metrics"
	"dealpipe/pkg/postgres"
	"dealpipe/pkg/storage"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type AppDependency struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *postgres.DB
	cache     cache.Cache
	docStore  storage.DocumentStore
	metrics   *metrics.Metrics
	validator *goValidator.Validate
	echo      *echo.Echo
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	docStore, err := storage.NewDocumentStore(cfg.Storage, log)
	if err != nil {
		log.Error("Failed to create document store", zap.Error(err))
		return nil, err
	}

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		db:        db,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		docStore:  docStore,
		metrics:   metrics.New(prometheus.DefaultRegisterer),
		validator: goValidator.New(),
		echo:      echo.New(),
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
