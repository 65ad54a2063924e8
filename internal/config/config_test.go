package config

import (
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 0.1, cfg.Throughputs.Step)
	assert.Equal(t, 16, cfg.Atmosphere.CacheSize)
	assert.Equal(t, 30*time.Second, cfg.SkyModel.Timeout)
	assert.Equal(t, "file", cfg.Results.Backend)
	assert.Equal(t, 40, cfg.Recalc.Partitions)
	assert.Equal(t, 1000, cfg.Recalc.ProgressEvery)
	assert.True(t, cfg.Recalc.SkyMags)
	assert.Equal(t, 59579.6, cfg.Survey.StartMJD)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RECALC_PARTITIONS", "4")
	t.Setenv("SKYMODEL_TIMEOUT", "5s")
	t.Setenv("RESULTS_BACKEND", "postgres")
	t.Setenv("RECALC_DEPTHS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Recalc.Partitions)
	assert.Equal(t, 5*time.Second, cfg.SkyModel.Timeout)
	assert.Equal(t, "postgres", cfg.Results.Backend)
	assert.False(t, cfg.Recalc.Depths)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Setenv("SERVER_PORT", "0")
	t.Setenv("RESULTS_BACKEND", "hdf")
	t.Setenv("RECALC_WORKERS", "0")

	_, err := Load()
	require.Error(t, err)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 3)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5432, Name: "obscond", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/obscond?sslmode=disable", d.DSN())
}
