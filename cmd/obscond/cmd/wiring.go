package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"obscond/internal/adapters/secondary/atmosphere"
	"obscond/internal/adapters/secondary/postgres"
	"obscond/internal/adapters/secondary/resultfile"
	"obscond/internal/adapters/secondary/skymodel"
	"obscond/internal/adapters/secondary/throughputs"
	"obscond/internal/config"
	"obscond/internal/core/photometry"
	ports "obscond/internal/core/ports/output"
	"obscond/internal/core/services"
)

func loadBandpasses(cfg *config.Config) (*throughputs.Bandpasses, error) {
	opts := throughputs.DefaultOptions(cfg.Throughputs.Dir)
	opts.MinWavelen = cfg.Throughputs.MinWavelen
	opts.MaxWavelen = cfg.Throughputs.MaxWavelen
	opts.Step = cfg.Throughputs.Step

	bp, err := throughputs.Load(opts)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"dir":     cfg.Throughputs.Dir,
		"filters": bp.Hardware.Filters(),
	}).Info("Throughputs loaded")
	return bp, nil
}

func transmissionStore(cfg *config.Config) (ports.TransmissionStore, error) {
	store := atmosphere.NewDirStore(cfg.Atmosphere.Dir)
	if cfg.Atmosphere.CacheSize == 0 {
		return store, nil
	}
	return atmosphere.NewCachedStore(store, cfg.Atmosphere.CacheSize)
}

// bandpassService wires the transmission store to the hardware bandpasses.
func bandpassService(cfg *config.Config) (*services.BandpassService, *throughputs.Bandpasses, error) {
	bp, err := loadBandpasses(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := transmissionStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return services.NewBandpassService(store, bp.Hardware), bp, nil
}

// skyCalculator builds a calculator with its own sky model client.
func skyCalculator(cfg *config.Config, bandpasses *services.BandpassService, bp *throughputs.Bandpasses) (*services.SkyCalculator, ports.SkyModel) {
	sky := skymodel.NewSkyModelClient(&cfg.SkyModel)
	return services.NewSkyCalculator(sky, bandpasses, bp.Hardware, photometry.DefaultParameters()), sky
}

// openResults returns the configured result store and a function releasing
// it.
func openResults(ctx context.Context, cfg *config.Config) (ports.ResultRepository, func(), error) {
	switch cfg.Results.Backend {
	case "postgres":
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewResultRepository(pool), pool.Close, nil
	default:
		repo, err := resultfile.NewResultRepository(cfg.Results.Dir)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}

func openPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(db.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(db.MaxOpenConns)
	poolCfg.MinConns = int32(db.MaxIdleConns)
	poolCfg.MaxConnLifetime = db.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	log.Info("database connection established")
	return pool, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
