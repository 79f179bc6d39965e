package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/VamsiDavuluri/vendor-inventory/api/routes"
	"github.com/VamsiDavuluri/vendor-inventory/internal/catalog"
	"github.com/VamsiDavuluri/vendor-inventory/internal/gallery"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/config"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/db"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/logger"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/metrics"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/migrate"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/redis"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var cacheClient *redis.Client
	if cfg.Redis.Enabled() {
		cacheClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := cacheClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Info(context.Background(), "redis not configured, vendor status cache disabled")
	}

	storeClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}

	directory, err := loadCatalog(cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to load product catalog", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	galleryService, err := gallery.NewService(gallery.ServiceParams{
		Catalog:      directory,
		Index:        gallery.NewRepository(dbClient.DB()),
		Store:        storeClient,
		Normalizer:   gallery.WebPNormalizer{Quality: cfg.Media.WebPQuality},
		Bucket:       cfg.GCS.BucketName,
		SignedURLTTL: cfg.Media.SignedURLTTL,
		Cache:        cacheFor(cacheClient),
		CacheTTL:     cfg.Media.StatusCacheTTL,
		Metrics:      metrics.NewGalleryMetrics(registry),
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create gallery service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"bucket": cfg.GCS.BucketName,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.New(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			Gallery:  galleryService,
			Catalog:  directory,
			DB:       dbClient,
			Cache:    cacheClient,
			Store:    storeClient,
			Registry: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func loadCatalog(cfg *config.Config) (catalog.Directory, error) {
	if cfg.Catalog.Path != "" {
		return catalog.LoadFile(cfg.Catalog.Path)
	}
	return catalog.NewStatic(catalog.DefaultSeed()), nil
}

// cacheFor avoids handing the service a non-nil interface wrapping a nil
// *redis.Client.
func cacheFor(c *redis.Client) gallery.StatusCache {
	if c == nil {
		return nil
	}
	return c
}
