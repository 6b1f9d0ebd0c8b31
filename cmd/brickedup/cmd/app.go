package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/brickedup/sessionkit/pkg/config"
	"github.com/brickedup/sessionkit/pkg/gateway"
	"github.com/brickedup/sessionkit/pkg/kvs"
	"github.com/brickedup/sessionkit/pkg/localstore"
	"github.com/brickedup/sessionkit/pkg/logging"
	"github.com/brickedup/sessionkit/pkg/manager"
)

// app bundles everything a command needs to talk to the service.
type app struct {
	cfg     *config.Config
	logger  logging.Logger
	store   kvs.Store
	manager *manager.Manager
}

// newApp loads the configuration and wires the store, gateway and
// session manager. The returned app holds an open store; callers must
// Close it when done.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := kvs.New(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	adapter := localstore.New(store, logger)
	deviceID := manager.EnsureDeviceID(ctx, adapter)

	timeout, err := cfg.API.GetTimeoutDuration()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("invalid api timeout: %w", err)
	}

	gw := gateway.New(cfg.API.BaseURL, logger,
		gateway.WithDeviceID(deviceID),
		gateway.WithHTTPClient(&http.Client{Timeout: timeout}),
	)

	mgr := manager.New(gw, adapter, logger)
	mgr.Hydrate(ctx)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		manager: mgr,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close local store", "error", err)
	}
}

func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); err != nil {
		// No config file: fall back to defaults so the CLI works out
		// of the box against a locally running API.
		if os.IsNotExist(err) && !rootCmd.PersistentFlags().Changed("config") {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}
	return config.NewFileLoader(cfgFile).Load()
}

func defaultConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL: "http://localhost:3100",
			Timeout: "15s",
		},
		Store: kvs.Config{
			Type: "leveldb",
		},
		Logging: config.LoggingConfig{
			Level: "info",
		},
	}
}

func buildLogger(cfg *config.Config) (logging.Logger, error) {
	level := logging.ParseLevel(cfg.Logging.Level)

	var rotation *logging.FileRotationConfig
	if cfg.Logging.File != nil && cfg.Logging.File.Path != "" {
		rotation = &logging.FileRotationConfig{
			Path:       cfg.Logging.File.Path,
			MaxSizeMB:  cfg.Logging.File.MaxSizeMB,
			MaxBackups: cfg.Logging.File.MaxBackups,
			MaxAge:     cfg.Logging.File.MaxAge,
			Compress:   cfg.Logging.File.Compress,
		}
	}

	return logging.NewLoggerWithFile("main", level, cfg.Logging.Color, rotation)
}
