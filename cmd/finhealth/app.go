// Command finhealth is the terminal client for the SME financial-health
// backend: session management, business selection, the aggregated
// dashboard, file ingestion, bank sync, and PDF reports.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/config"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/infra/client"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/infra/observability"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/infra/resilience"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/infra/tokenstore"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/service"

	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// app is the fully wired client graph. Commands build it after flag
// parsing, use it for one operation (or a watch loop), and close it.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
	api     *client.Client

	reporter   *service.Reporter
	dashboard  *service.Dashboard
	businesses *service.BusinessContext
	session    *service.Session
	ingest     *service.Ingest
	banking    *service.Banking

	shutdownTracer func(context.Context) error
}

func newApp() (*app, error) {
	_ = config.LoadDotEnv(".env")
	cfg := config.Load()

	logger := observability.NewLogger(cfg.LogLevel)
	metrics := observability.NewMetrics()

	var shutdownTracer func(context.Context) error
	if cfg.TracingOn {
		var err error
		shutdownTracer, err = observability.InitTracer(cfg.OTLPEndpoint, "finhealth")
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
	}

	cb := resilience.NewCircuitBreaker("finhealth-api")
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	api := client.New(httpClient, cfg.APIBaseURL, cb, metrics, logger)

	store, err := tokenstore.New(cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("token store: %w", err)
	}

	reporter := service.NewReporter(logger)
	dashboard := service.NewDashboard(api, api, reporter, metrics, logger, service.AllOrNothing, cfg.ForecastMonths)
	businesses := service.NewBusinessContext(api, dashboard, reporter, logger)
	session := service.NewSession(api, api, store, businesses, dashboard, reporter, logger)
	api.SetAuthDeniedHook(session.HandleAuthDenied)

	return &app{
		cfg:            cfg,
		logger:         logger,
		metrics:        metrics,
		api:            api,
		reporter:       reporter,
		dashboard:      dashboard,
		businesses:     businesses,
		session:        session,
		ingest:         service.NewIngest(api, businesses, dashboard, reporter, logger, os.ReadFile),
		banking:        service.NewBanking(api, businesses, dashboard, reporter, logger),
		shutdownTracer: shutdownTracer,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if a.shutdownTracer != nil {
		_ = a.shutdownTracer(ctx)
	}
	_ = a.logger.Sync()
}

// restore loads the persisted session and requires it to be present. Most
// commands are meaningless without a session, so they start here.
func (a *app) restore(ctx context.Context) error {
	if err := a.session.Restore(ctx); err != nil {
		return err
	}
	if !a.session.Authenticated() {
		return fmt.Errorf("not signed in; run 'finhealth login' first")
	}
	return nil
}

// selectBusiness applies the -business flag when set; 0 keeps the
// auto-selected business from the restore.
func (a *app) selectBusiness(ctx context.Context, id int64) error {
	if id == 0 {
		return nil
	}
	return a.businesses.Select(ctx, id)
}

// fail prints the operation failure and maps it to an exit status. The
// reporter holds the display message when the failure came through a
// service operation; err itself covers everything else.
func (a *app) fail(err error) subcommands.ExitStatus {
	msg := a.reporter.Message()
	if msg == "" {
		msg = err.Error()
	}
	fmt.Fprintln(os.Stderr, msg)
	return subcommands.ExitFailure
}

var errNoDashboard = errors.New("no dashboard data; create a business and upload data first")

func usageError(f string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	return subcommands.ExitUsageError
}
