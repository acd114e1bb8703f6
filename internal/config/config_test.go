package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[server]
http_port = 9090

[database]
host = "db"
user = "sauna"
password = "secret"
dbname = "infusion"

[logs]
level = "debug"

[metrics]
enabled = false

[scheduling]
enforce_daily_load = true
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse(sample)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, "logs/app.log", cfg.Logs.File)
	assert.False(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Scheduling.EnforceDailyLoad)
	assert.Equal(t, "host=db port=5432 user=sauna password=secret dbname=infusion sslmode=disable", cfg.Database.DSN())
}

func TestParse_DailyLoadOffByDefault(t *testing.T) {
	cfg, err := Parse("[database]\ndbname = \"infusion\"\n")
	require.NoError(t, err)
	assert.False(t, cfg.Scheduling.EnforceDailyLoad)
	assert.False(t, Default().Scheduling.EnforceDailyLoad)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "no dbname", data: "[database]\nhost = \"db\"\n"},
		{name: "bad port", data: "[server]\nhttp_port = 0\n[database]\ndbname = \"x\"\n"},
		{name: "idle above open", data: "[database]\ndbname = \"x\"\nmax_open_conns = 2\nmax_idle_conns = 3\n"},
		{name: "metrics without path", data: "[database]\ndbname = \"x\"\n[metrics]\npath = \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Parse("[server\n")
	assert.ErrorIs(t, err, ErrLoadConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "infusion", cfg.Database.DBName)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrLoadConfig)
}
