package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidateDefaults checks that Validate fills every default on an
// empty config.
func TestValidateDefaults(t *testing.T) {
	t.Parallel()

	cfg := new(Config)
	require.NoError(t, Validate(cfg))

	require.Equal(t, DefaultListenAddress, cfg.ListenAddress)
	require.Equal(t, "file", cfg.Store.Backend)
	require.Equal(t, DefaultStorePath, cfg.Store.Path)
	require.Equal(t, DefaultMaxAlarms, cfg.MaxAlarms)
	require.Equal(t, DefaultRingDuration, cfg.RingDuration)
	require.Equal(t, DefaultLoopInterval, cfg.LoopInterval)
	require.Equal(t, DefaultNTPServer, cfg.NTPServer)
	require.Equal(t, DefaultToneHz, cfg.Buzzer.ToneHz)
}

// TestValidateRejections covers bad listen addresses, unknown store
// backends and output name problems.
func TestValidateRejections(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	cfg := &Config{ListenAddress: "not-an-address:foo"}
	require.Error(t, Validate(cfg))

	cfg = &Config{Store: StoreConfig{Backend: "postgres"}}
	require.Error(t, Validate(cfg))

	cfg = &Config{Outputs: []OutputConfig{{Pin: 5}}}
	require.Error(t, Validate(cfg))

	cfg = &Config{Outputs: []OutputConfig{
		{Name: "led1", Pin: 5},
		{Name: "led1", Pin: 4},
	}}
	require.Error(t, Validate(cfg))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		ListenAddress: "127.0.0.1:9090",
		Store:         StoreConfig{Backend: "sqlite", Path: filepath.Join(dir, "state.db")},
		Outputs: []OutputConfig{
			{Name: "led1", Pin: 5},
			{Name: "led2", Pin: 4},
		},
		Buzzer:       BuzzerConfig{Pin: 12, Passive: true, ToneHz: 2500},
		MaxAlarms:    8,
		RingDuration: 2 * time.Second,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ListenAddress, loaded.ListenAddress)
	require.Equal(t, cfg.Store, loaded.Store)
	require.Equal(t, cfg.Outputs, loaded.Outputs)
	require.Equal(t, cfg.Buzzer, loaded.Buzzer)
	require.Equal(t, cfg.MaxAlarms, loaded.MaxAlarms)
	require.Equal(t, cfg.RingDuration, loaded.RingDuration)
	require.True(t, loaded.SQLiteStore())
}

// TestDefault covers the reference board wiring.
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Len(t, cfg.Outputs, 2)
	require.Equal(t, uint8(12), cfg.Buzzer.Pin)
	require.False(t, cfg.Buzzer.Passive)
}
