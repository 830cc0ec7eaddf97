package service

import (
	"context"
	"io"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Banking covers the remaining business-scoped operations: simulated bank
// sync and the generated PDF report.
type Banking struct {
	connector  port.BankConnector
	businesses *BusinessContext
	dashboard  *Dashboard
	reporter   *Reporter
	logger     *zap.Logger
}

// NewBanking creates the banking service.
func NewBanking(connector port.BankConnector, businesses *BusinessContext, dashboard *Dashboard, reporter *Reporter, logger *zap.Logger) *Banking {
	return &Banking{
		connector:  connector,
		businesses: businesses,
		dashboard:  dashboard,
		reporter:   reporter,
		logger:     logger,
	}
}

// SyncBank pulls recent bank transactions into the selected business and
// refreshes the dashboard so they show up.
func (b *Banking) SyncBank(ctx context.Context) (int, error) {
	b.reporter.Begin()

	ctx, span := tracer.Start(ctx, "Banking.SyncBank")
	defer span.End()

	businessID := b.businesses.Selected()
	if businessID == 0 {
		b.reporter.Fail(domain.ErrNoBusiness)
		return 0, domain.ErrNoBusiness
	}
	span.SetAttributes(attribute.Int64("business.id", businessID))

	result, err := b.connector.BankSync(ctx, businessID)
	if err != nil {
		b.reporter.Fail(err)
		return 0, err
	}
	b.logger.Info("bank sync complete",
		zap.Int64("business_id", businessID),
		zap.Int("synced", result.Synced),
	)

	return result.Synced, b.dashboard.Refresh(ctx, businessID)
}

// DownloadReport streams the PDF report for the selected business to w.
func (b *Banking) DownloadReport(ctx context.Context, w io.Writer) error {
	b.reporter.Begin()

	ctx, span := tracer.Start(ctx, "Banking.DownloadReport")
	defer span.End()

	businessID := b.businesses.Selected()
	if businessID == 0 {
		b.reporter.Fail(domain.ErrNoBusiness)
		return domain.ErrNoBusiness
	}

	if err := b.connector.ReportPDF(ctx, businessID, w); err != nil {
		b.reporter.Fail(err)
		return err
	}
	return nil
}
