package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"usagestats/internal/config"
	"usagestats/internal/events"
	"usagestats/internal/httpapi"
	"usagestats/internal/sender"
	"usagestats/internal/usage"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr     string
		endpoint string
		enabled  bool
	)
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Accept deployment lifecycle events over HTTP and send usage statistics",
		Example: "  usagestatsd serve --config usagestats.yaml\n  usagestatsd serve --enabled --endpoint https://collector.example/v1/events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cfg := fileCfg
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("endpoint") {
				cfg.Endpoint = endpoint
			}
			if cmd.Flags().Changed("enabled") {
				cfg.Enabled = enabled
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, err := opts.logger(cfg.LogLevel)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, fileCfg, opts.configPath, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "HTTP listen address, e.g. :8080")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Collector URL; envelopes are logged when empty")
	cmd.Flags().BoolVar(&enabled, "enabled", false, "Start with usage statistics enabled")
	return cmd
}

// newSender picks the HTTP sender when a collector is configured.
func newSender(cfg config.Config, log zerolog.Logger) (sender.Func, error) {
	if cfg.Endpoint == "" {
		return sender.Of(sender.NewLog(log)), nil
	}
	s, err := sender.NewHTTP(sender.HTTPConfig{
		Endpoint:   cfg.Endpoint,
		Timeout:    time.Duration(cfg.SendTimeoutSeconds) * time.Second,
		RatePerSec: cfg.SendRatePerSec,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}
	return sender.Of(s), nil
}

// enabledToggler is the part of the usage service a config reload may touch.
type enabledToggler interface {
	SetEnabled(on bool)
}

// applyReload follows edits of the file's enabled key only. Other edits leave
// the current state alone, whether it came from --enabled or PUT /usage.
func applyReload(svc enabledToggler, log zerolog.Logger) func(prev, next config.Config) {
	return func(prev, next config.Config) {
		if prev.Enabled == next.Enabled {
			return
		}
		log.Info().Str("event", "usage.toggled_by_config").Bool("enabled", next.Enabled).Msg("usage statistics toggled by config")
		svc.SetEnabled(next.Enabled)
	}
}

// serve runs the HTTP server until ctx is done. fileCfg is the config as read
// from configPath, before flag overrides; reloads are compared against it.
func serve(ctx context.Context, cfg, fileCfg config.Config, configPath string, log zerolog.Logger) error {
	send, err := newSender(cfg, log)
	if err != nil {
		return err
	}
	bus := events.NewBus(log)
	svc, err := usage.NewService(bus, usage.Config{
		OnSend:  send,
		Enabled: cfg.Enabled,
		Logger:  &log,
	})
	if err != nil {
		return fmt.Errorf("usage handler: %w", err)
	}

	httpapi.SetLogger(log)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetEventRateLimit(cfg.EventRateLimit)
	httpapi.SetPublishTimeoutSeconds(int64(cfg.SendTimeoutSeconds))
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("event", "server.start").Str("addr", cfg.Addr).Bool("enabled", cfg.Enabled).
			Str("endpoint", cfg.Endpoint).Msg("usagestatsd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Str("event", "server.shutdown_error").Msg("graceful shutdown error")
		}
		return nil
	})
	if configPath != "" {
		w := &config.Watcher{
			Path:   configPath,
			Logger: log,
			// only the enabled flag is live; other fields need a restart
			OnChange: applyReload(svc, log),
		}
		w.Seed(fileCfg)
		g.Go(func() error { return w.Run(gctx) })
	}
	return g.Wait()
}
