package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apphttp "smartfinance/internal/http"
	"smartfinance/internal/log"
)

func newServeCommand(rt *runtime) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				rt.cfg.Port = port
			}
			return rt.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default $PORT or 8081)")
	return cmd
}

// serve runs the HTTP server until a shutdown signal arrives, then drains
// in-flight requests within the configured timeout.
func (rt *runtime) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := SignalContext(parent, rt.logger)
	defer cancel()

	app, res, err := OpenApp(ctx, rt.cfg, rt.logger, rt.cfg.AutoAuthenticate)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := res.Close(); cerr != nil {
			rt.logger.Error("Failed to close store", log.FieldError, cerr)
		}
	}()

	srv := apphttp.NewServer(":"+rt.cfg.Port, app, apphttp.Options{
		MetricsEnabled: rt.cfg.MetricsEnabled,
		Logger:         rt.logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rt.logger.Info("Starting smartfinance server",
			"port", rt.cfg.Port, log.FieldBackend, rt.cfg.DataBackend, "metrics", rt.cfg.MetricsEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			rt.logger.Error("Server shutdown error", log.FieldOperation, log.OpShutdown, log.FieldError, err)
			return err
		}
		rt.logger.Info("Server stopped gracefully")
		return nil
	})
	return g.Wait()
}
