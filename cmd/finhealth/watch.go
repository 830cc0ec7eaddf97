package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type watchCmd struct {
	business int64
	interval time.Duration
	addr     string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh the dashboard periodically and serve metrics" }
func (*watchCmd) Usage() string {
	return `finhealth watch [-business <id>] [-interval <duration>] [-addr <addr>]

  Keeps the dashboard fresh on an interval and exposes /healthz and
  /metrics on addr until interrupted. A session invalidation (any
  authorization-denied response) stops the loop.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.business, "business", 0, "Business id (default: the selected business).")
	f.DurationVar(&c.interval, "interval", 0, "Refresh interval (default: WATCH_INTERVAL).")
	f.StringVar(&c.addr, "addr", "", "Ops listen address (default: WATCH_ADDR).")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return usageError("%v", err)
	}
	defer a.close(ctx)

	if err := a.restore(ctx); err != nil {
		return a.fail(err)
	}
	if err := a.selectBusiness(ctx, c.business); err != nil {
		return a.fail(err)
	}
	if c.interval == 0 {
		c.interval = a.cfg.WatchInterval
	}
	if c.addr == "" {
		c.addr = a.cfg.WatchAddr
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(a.metrics.Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         c.addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		a.logger.Info("ops server starting", zap.String("addr", c.addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal("ops server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	a.logger.Info("watching dashboard",
		zap.Int64("business_id", a.businesses.Selected()),
		zap.Duration("interval", c.interval),
	)

loop:
	for {
		select {
		case <-ticker.C:
			if !a.session.Authenticated() {
				a.logger.Warn("session invalidated, stopping watch")
				break loop
			}
			if err := a.dashboard.Refresh(ctx, a.businesses.Selected()); err != nil {
				a.logger.Warn("periodic refresh failed", zap.Error(err))
			}
		case <-quit:
			break loop
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("ops server forced shutdown", zap.Error(err))
	}

	s := a.metrics.Summary()
	fmt.Printf("Refreshes: %.0f published, %.0f failed, %.0f superseded. Auth denials: %.0f.\n",
		s.RefreshesPublished, s.RefreshesFailed, s.RefreshesSuperseded, s.AuthDenials)
	return subcommands.ExitSuccess
}
