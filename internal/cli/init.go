// Package cli provides the smartfinance command tree and the bootstrap
// helpers it shares between the server and the one-shot commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"

	"smartfinance/internal/backend"
	"smartfinance/internal/config"
	"smartfinance/internal/log"
	"smartfinance/internal/services"
)

// SetupLogger builds the process logger at level, writing text records to
// out, and installs it as the slog default.
func SetupLogger(level string, out io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	cfg.Output = out
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads environment variables from path. Without a path it tries
// ./.env and ignores a missing file, as in production the environment is set
// by the process manager.
func LoadEnvFile(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenApp creates the configured storage backend and loads the application
// state from it. The caller closes the returned BackendResult.
func OpenApp(ctx context.Context, cfg *config.Config, logger *log.Logger, autoAuth bool) (*services.App, *backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}

	app, err := services.New(ctx, res.Store, services.Options{
		AutoAuthenticate: autoAuth,
		Currency:         cfg.Currency,
		Logger:           logger,
	})
	if err != nil {
		_ = res.Close()
		return nil, nil, fmt.Errorf("load application state: %w", err)
	}
	return app, res, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
