package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))

	assert.Equal(t, DefaultOptions(), GetGameOptions())
	assert.Equal(t, "8080", GetServerConfig().Port)
	assert.Equal(t, 100*time.Millisecond, GetServerConfig().SendInterval)
	assert.Equal(t, time.Minute, GetServerConfig().Retention)
}

func TestLoad_WithConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"game": { "mapWidth": 4000, "enemyRate": "500ms", "waveMinutesPerWave": 2 },
		"ledger": { "driver": "postgres", "dsn": "host=db" },
		"metrics": { "enabled": true }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(cfg), 0644))

	require.NoError(t, Load(dir))

	opts := GetGameOptions()
	assert.Equal(t, 4000.0, opts.MapWidth)
	assert.Equal(t, 2000.0, opts.MapHeight)
	assert.Equal(t, 500*time.Millisecond, opts.EnemyRate)
	assert.Equal(t, 2.0, opts.WaveMinutesPerWave)

	lc := GetLedgerConfig()
	assert.Equal(t, "postgres", lc.Driver)
	assert.Equal(t, "host=db", lc.DSN)
	assert.True(t, GetMetricsConfig().Enabled)
	assert.Equal(t, "token-strike", GetMetricsConfig().ServiceName)
}

func TestLoad_BrokenFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{ not json`), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("TS_GAME_PLAYERMAXHEALTH", "9")

	require.NoError(t, Load(t.TempDir()))
	assert.Equal(t, 9, GetGameOptions().PlayerMaxHealth)
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	tests := []struct {
		name   string
		mutate func(o *Options)
	}{
		{"zero map", func(o *Options) { o.MapWidth = 0 }},
		{"zero tick", func(o *Options) { o.TickInterval = 0 }},
		{"zero fire rate", func(o *Options) { o.BulletRate = 0 }},
		{"inverted spawn ring", func(o *Options) { o.EnemySpawnMin = 600 }},
		{"no ore threshold", func(o *Options) { o.OresPerUpgrade = 0 }},
		{"no health", func(o *Options) { o.PlayerMaxHealth = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			assert.Error(t, o.Validate())
		})
	}
}
