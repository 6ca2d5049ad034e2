package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the controller settings.
type Config struct {
	// ListenAddress is the HTTP listen address for the control endpoints.
	ListenAddress string `yaml:"listen_addr"`
	// Store selects and locates the persistent key-value backend.
	Store StoreConfig `yaml:"store"`
	// Outputs are the digital outputs exposed over HTTP, in display order.
	Outputs []OutputConfig `yaml:"outputs"`
	// Buzzer configures the audible actuator.
	Buzzer BuzzerConfig `yaml:"buzzer"`
	// MaxAlarms bounds the stored alarm set.
	MaxAlarms int `yaml:"max_alarms"`
	// RingDuration is the fixed buzzer activation window.
	RingDuration time.Duration `yaml:"ring_duration"`
	// LoopInterval is the control loop tick period.
	LoopInterval time.Duration `yaml:"loop_interval"`
	// NTPServer is queried until the wall clock synchronizes.
	NTPServer string `yaml:"ntp_server"`
	// UTCOffset is the fixed offset applied to synchronized time.
	UTCOffset time.Duration `yaml:"utc_offset"`
	// GPIO enables real pins via go-rpio; off means in-memory actuators.
	GPIO bool `yaml:"gpio"`
	// LogLevel is the minimum level for daemon logs.
	LogLevel string `yaml:"log_level"`
}

// StoreConfig locates the persistent key-value store.
type StoreConfig struct {
	// Backend is either "file" or "sqlite".
	Backend string `yaml:"backend"`
	// Path is the store file or database location.
	Path string `yaml:"path"`
}

// OutputConfig names one digital output and its pin.
type OutputConfig struct {
	// Name identifies the output in routes and status snapshots.
	Name string `yaml:"name"`
	// Pin is the GPIO pin number driving the output.
	Pin uint8 `yaml:"pin"`
}

// BuzzerConfig configures the buzzer actuator.
type BuzzerConfig struct {
	// Pin is the GPIO pin number driving the buzzer.
	Pin uint8 `yaml:"pin"`
	// Passive selects a tone-driven buzzer instead of a plain level.
	Passive bool `yaml:"passive"`
	// ToneHz is the tone frequency for passive buzzers.
	ToneHz int `yaml:"tone_hz"`
}

const (
	// DefaultConfigFilename is the default filename for controller settings.
	DefaultConfigFilename = "buzzerd-settings.yaml"

	// DefaultStorePath is the default location of the file store.
	DefaultStorePath = "buzzerd-state.json"

	// DefaultListenAddress is the default HTTP listen address.
	DefaultListenAddress = ":8080"

	// DefaultMaxAlarms bounds the stored alarm set.
	DefaultMaxAlarms = 20

	// DefaultRingDuration is the fixed buzzer activation window.
	DefaultRingDuration = 1800 * time.Millisecond

	// DefaultLoopInterval is the control loop tick period.
	DefaultLoopInterval = 10 * time.Millisecond

	// DefaultNTPServer is the default time source.
	DefaultNTPServer = "pool.ntp.org"

	// DefaultToneHz is the default passive buzzer tone frequency.
	DefaultToneHz = 2000

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

const (
	storeBackendFile   = "file"
	storeBackendSQLite = "sqlite"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownStoreBackend is returned for a backend other than file or sqlite.
	errUnknownStoreBackend = errors.New("store backend must be \"file\" or \"sqlite\"")
	// errOutputNameRequired is returned when an output entry has no name.
	errOutputNameRequired = errors.New("output name must be provided")
	// errDuplicateOutputName is returned when two outputs share a name.
	errDuplicateOutputName = errors.New("output names must be unique")
)

// Default returns the settings matching the reference board wiring:
// two LEDs on pins 5 and 4, an active buzzer on pin 12.
func Default() *Config {
	cfg := &Config{
		ListenAddress: DefaultListenAddress,
		Outputs: []OutputConfig{
			{Name: "led1", Pin: 5},
			{Name: "led2", Pin: 4},
		},
		Buzzer: BuzzerConfig{Pin: 12},
	}

	// Validate fills the remaining defaults.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	switch cfg.Store.Backend {
	case "":
		cfg.Store.Backend = storeBackendFile
	case storeBackendFile, storeBackendSQLite:
	default:
		return errUnknownStoreBackend
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}

	seen := make(map[string]struct{}, len(cfg.Outputs))

	for _, output := range cfg.Outputs {
		if output.Name == "" {
			return errOutputNameRequired
		}

		if _, ok := seen[output.Name]; ok {
			return fmt.Errorf("%w: %q", errDuplicateOutputName, output.Name)
		}

		seen[output.Name] = struct{}{}
	}

	if cfg.MaxAlarms <= 0 {
		cfg.MaxAlarms = DefaultMaxAlarms
	}

	if cfg.RingDuration <= 0 {
		cfg.RingDuration = DefaultRingDuration
	}

	if cfg.LoopInterval <= 0 {
		cfg.LoopInterval = DefaultLoopInterval
	}

	if cfg.NTPServer == "" {
		cfg.NTPServer = DefaultNTPServer
	}

	if cfg.Buzzer.ToneHz <= 0 {
		cfg.Buzzer.ToneHz = DefaultToneHz
	}

	return nil
}

// SQLiteStore reports whether the sqlite backend is selected.
func (c *Config) SQLiteStore() bool {
	return c.Store.Backend == storeBackendSQLite
}
