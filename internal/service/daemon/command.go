package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/orabaiah/buzzerd/internal/api/web"
	"github.com/orabaiah/buzzerd/internal/clock"
	"github.com/orabaiah/buzzerd/internal/config"
	"github.com/orabaiah/buzzerd/internal/hardware"
	"github.com/orabaiah/buzzerd/internal/logger"
	"github.com/orabaiah/buzzerd/internal/repository/kvstore"
	"github.com/orabaiah/buzzerd/internal/service/controller"
)

// Options controls the buzzerd process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override.
	ListenAddress string
}

// shutdownTimeout bounds the HTTP server drain on exit.
const shutdownTimeout = 5 * time.Second

// Run starts the controller daemon and blocks until the context is
// canceled. A missing settings file falls back to the reference board
// defaults so a bare device still boots.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "buzzerd")

	cfg, err := loadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.ListenAddress != "" {
		cfg.ListenAddress = opts.ListenAddress
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	outputs, buzzer, closeBoard, err := openHardware(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBoard()

	// Whatever happens, do not leave the buzzer ringing.
	defer buzzer.Disengage()

	systemClock := clock.NewSystemClock(cfg.UTCOffset)
	systemClock.Sync(ctx, cfg.NTPServer)

	engine := controller.NewEngine(ctx, controller.Params{
		Clock:        systemClock,
		Store:        store,
		Buzzer:       buzzer,
		Outputs:      outputs,
		MaxAlarms:    cfg.MaxAlarms,
		RingDuration: cfg.RingDuration,
	})

	go engine.Run(ctx, cfg.LoopInterval)

	server := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           web.NewRouter(engine),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.InfoKV(ctx, "Controller listening",
		"listen_address", cfg.ListenAddress,
		"store_backend", cfg.Store.Backend,
		"gpio", cfg.GPIO)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "HTTP server shutdown failed", "error", err)
		}

		close(done)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}

// loadConfig loads the settings file, falling back to defaults when it
// does not exist.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		logger.InfoKV(ctx, "No settings file, using defaults", "path", path)

		return config.Default(), nil
	}

	return nil, fmt.Errorf("load settings: %w", err)
}

// openStore selects the configured key-value backend.
func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, func(), error) {
	if cfg.SQLiteStore() {
		store, err := kvstore.NewSQLStore(ctx, cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}

		return store, func() {
			if err := store.Close(); err != nil {
				logger.WarnKV(ctx, "Failed to close store", "error", err)
			}
		}, nil
	}

	return kvstore.NewFileStore(cfg.Store.Path), func() {}, nil
}

// openHardware maps GPIO when enabled, otherwise builds the in-memory
// actuators so the daemon runs on hosts without pins.
func openHardware(ctx context.Context, cfg *config.Config) ([]hardware.Output, hardware.Buzzer, func(), error) {
	if !cfg.GPIO {
		logger.Info(ctx, "GPIO disabled, using in-memory actuators")

		outputs := make([]hardware.Output, len(cfg.Outputs))
		for i, oc := range cfg.Outputs {
			outputs[i] = hardware.NewMemOutput(oc.Name)
		}

		return outputs, &hardware.MemBuzzer{}, func() {}, nil
	}

	board, err := hardware.OpenBoard()
	if err != nil {
		return nil, nil, nil, err
	}

	outputs := make([]hardware.Output, len(cfg.Outputs))
	for i, oc := range cfg.Outputs {
		outputs[i] = board.Output(oc.Name, oc.Pin)
	}

	var buzzer hardware.Buzzer
	if cfg.Buzzer.Passive {
		buzzer = board.PassiveBuzzer(cfg.Buzzer.Pin, cfg.Buzzer.ToneHz)
	} else {
		buzzer = board.ActiveBuzzer(cfg.Buzzer.Pin)
	}

	closeBoard := func() {
		if err := board.Close(); err != nil {
			logger.WarnKV(ctx, "Failed to close GPIO", "error", err)
		}
	}

	return outputs, buzzer, closeBoard, nil
}
