package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"commerce-sync/core/config"
	"commerce-sync/core/database"
	"commerce-sync/core/lock"
	"commerce-sync/core/logger"
	"commerce-sync/core/reconcile"
	"commerce-sync/core/storage"
	"commerce-sync/feature/customers"
	"commerce-sync/feature/erp"
	"commerce-sync/feature/orchestrator"
	"commerce-sync/feature/orders"
	"commerce-sync/feature/products"
	"commerce-sync/feature/snapshot"
	"commerce-sync/feature/storefront"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// wiring is everything a command needs, built from the configuration.
type wiring struct {
	cfg      *config.Config
	logger   *zap.Logger
	fs       afero.Fs
	stores   *orchestrator.Stores
	service  *orchestrator.Service
	uploader *snapshot.Uploader
	closers  []func()
}

// Close releases connections opened by bootstrap.
func (r *wiring) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	_ = r.logger.Sync()
}

// loadConfig loads configuration and builds the logger. requireAPIs makes
// missing API credentials fatal; offline commands skip that check.
func loadConfig(requireAPIs bool) (*config.Config, *zap.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if requireAPIs {
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logg)
	return cfg, logg
}

// bootstrap wires stores, API clients, adapters, the run guard, the run log
// and the snapshot archive into a Service.
func bootstrap(ctx context.Context, requireAPIs bool) (*wiring, error) {
	cfg, logg := loadConfig(requireAPIs)
	rt := &wiring{cfg: cfg, logger: logg, fs: afero.NewOsFs()}

	if err := rt.fs.MkdirAll(cfg.Sync.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", cfg.Sync.DataDir, err)
	}
	rt.stores = orchestrator.OpenStores(rt.fs, cfg.Sync.DataDir, logg)

	erpClient := erp.NewClient(cfg.ERP, logg)
	storeClient := storefront.NewClient(cfg.Store, logg)
	pages := cfg.Sync.PageOptions()
	adapters := []reconcile.Adapter{
		products.NewAdapter(erpClient, storeClient, pages, logg),
		customers.NewAdapter(storeClient, erpClient, pages, logg),
		orders.NewAdapter(storeClient, erpClient, rt.stores.Mappings, pages, logg),
	}

	guard := lock.Chain{lock.NewLocal()}
	if cfg.Lock.Enabled() {
		rdb := lock.NewRedisClient(cfg.Lock)
		rt.closers = append(rt.closers, func() { _ = rdb.Close() })
		guard = append(guard, lock.NewRedis(rdb, cfg.Lock, logg))
		logg.Info("Redis run lock enabled", zap.String("addr", cfg.Lock.RedisAddr), zap.String("key", cfg.Lock.Key))
	}

	runLog, runLogFile := openRunLog(ctx, rt, logg)

	var archiver orchestrator.Archiver
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		files := rt.stores.Files()
		if runLogFile != "" {
			files = append(files, runLogFile)
		}
		rt.uploader = snapshot.NewUploader(client, rt.fs, snapshot.Options{
			Bucket: cfg.Storage.Bucket,
			Region: cfg.Storage.Region,
			Prefix: cfg.Storage.Prefix,
			Keep:   cfg.Storage.Keep,
			Files:  files,
		}, logg)
		archiver = rt.uploader
	}

	rt.service = orchestrator.NewService(orchestrator.Deps{
		Stores:      rt.stores,
		Adapters:    adapters,
		Guard:       guard,
		RunLog:      runLog,
		Archiver:    archiver,
		Logger:      logg,
		BaseContext: ctx,
	})
	return rt, nil
}

// openRunLog prefers the database sink when enabled and reachable. It returns
// the file path of the run log, or "" when runs go to the database.
func openRunLog(ctx context.Context, rt *wiring, logg *zap.Logger) (orchestrator.RunLog, string) {
	cfg := rt.cfg
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Warn("Optional database connection failed, using the file run log", zap.Error(err))
		} else {
			gl := orchestrator.NewGormRunLog(db)
			if err := gl.Migrate(ctx); err != nil {
				logg.Warn("Run log migration failed, using the file run log", zap.Error(err))
			} else {
				if sqlDB, err := db.DB(); err == nil {
					rt.closers = append(rt.closers, func() { _ = sqlDB.Close() })
				}
				logg.Info("Run log stored in database", zap.String("driver", cfg.Database.Driver))
				return gl, ""
			}
		}
	}

	path := filepath.Join(cfg.Sync.DataDir, orchestrator.RunLogFile)
	return orchestrator.NewFileRunLog(rt.fs, path, cfg.Sync.RunLogCapacity, logg), path
}
