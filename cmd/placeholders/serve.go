package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/placeholders/config"
	"github.com/jonwraymond/placeholders/observe"
	"github.com/jonwraymond/placeholders/server"
)

func newServeCmd(cfgFile *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the image API and the static site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(ctx, *cfgFile)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) (err error) {
	obs, err := observe.NewObserver(ctx, cfg.ObserveConfig())
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errors.Join(err, obs.Shutdown(sctx))
	}()

	logger := obs.Logger()
	logger.Info(ctx, "configuration loaded",
		observe.F("addr", cfg.Server.Addr),
		observe.F("image_host", cfg.Server.ImageHost),
		observe.F("cache_backend", cfg.Cache.Backend),
		observe.F("analytics_sink", cfg.Analytics.Sink),
		observe.F("version", version))

	srv, err := server.New(ctx, cfg, obs, server.Overrides{})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
