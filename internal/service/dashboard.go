package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/infra/observability"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service")

// PublishPolicy decides what happens when some of the eight reads fail.
type PublishPolicy int

const (
	// AllOrNothing publishes only when every read succeeded; a single
	// failure leaves the previous snapshot visible unchanged.
	AllOrNothing PublishPolicy = iota
	// BestEffort publishes every field whose read succeeded and reports
	// the first failure.
	BestEffort
)

// Snapshot is the consistent dashboard view published by a refresh.
type Snapshot struct {
	BusinessID      int64
	Kpis            *domain.KpiSnapshot
	Score           *domain.ScoreResult
	Tone            domain.Tone
	Monthly         []domain.MonthlyRecord
	Forecast        []domain.ForecastRecord
	Risks           []domain.RiskItem
	Recommendations []string
	Summary         string
	Gst             []domain.GstMonthly
	RefreshedAt     time.Time
}

// Dashboard fans out to the eight business-scoped reads and publishes a
// consistent snapshot. Each refresh carries a generation; a refresh whose
// generation is no longer current at join time never publishes, so a slow
// stale response cannot overwrite a newer one.
type Dashboard struct {
	reader     port.DashboardReader
	credential port.Credential
	reporter   *Reporter
	metrics    *observability.Metrics
	logger     *zap.Logger
	policy     PublishPolicy
	horizon    int

	generation atomic.Uint64

	mu         sync.Mutex
	loading    bool
	loadingGen uint64
	snapshot   Snapshot
}

// NewDashboard creates the aggregator. horizon is the forecast horizon in
// months (3 in the observed contract).
func NewDashboard(reader port.DashboardReader, credential port.Credential, reporter *Reporter, metrics *observability.Metrics, logger *zap.Logger, policy PublishPolicy, horizon int) *Dashboard {
	return &Dashboard{
		reader:     reader,
		credential: credential,
		reporter:   reporter,
		metrics:    metrics,
		logger:     logger,
		policy:     policy,
		horizon:    horizon,
	}
}

// Refresh issues the eight reads concurrently and publishes per the policy.
// Overall latency is bounded by the slowest read; the join is the only
// synchronization point.
func (d *Dashboard) Refresh(ctx context.Context, businessID int64) error {
	d.reporter.Begin()

	if d.credential != nil && !d.credential.HasToken() {
		d.reporter.Fail(domain.ErrNoSession)
		return domain.ErrNoSession
	}

	ctx, span := tracer.Start(ctx, "Dashboard.Refresh")
	defer span.End()
	span.SetAttributes(attribute.Int64("business.id", businessID))

	gen := d.generation.Add(1)

	d.mu.Lock()
	d.loading = true
	d.loadingGen = gen
	d.mu.Unlock()

	var (
		kpis     *domain.KpiSnapshot
		score    *domain.ScoreResult
		monthly  []domain.MonthlyRecord
		forecast *domain.ForecastResponse
		risks    []domain.RiskItem
		recs     []string
		summary  *domain.AISummary
		gst      []domain.GstMonthly
	)

	// Every read settles before the join; a failure must not cancel its
	// siblings, so errors are recorded instead of returned to the group.
	errs := make([]error, 8)
	var g errgroup.Group
	g.Go(func() error { kpis, errs[0] = d.reader.Kpis(ctx, businessID); return nil })
	g.Go(func() error { score, errs[1] = d.reader.Score(ctx, businessID); return nil })
	g.Go(func() error { monthly, errs[2] = d.reader.MonthlyKpis(ctx, businessID); return nil })
	g.Go(func() error { forecast, errs[3] = d.reader.Forecast(ctx, businessID, d.horizon); return nil })
	g.Go(func() error { risks, errs[4] = d.reader.Risks(ctx, businessID); return nil })
	g.Go(func() error { recs, errs[5] = d.reader.Recommendations(ctx, businessID); return nil })
	g.Go(func() error { summary, errs[6] = d.reader.AISummary(ctx, businessID); return nil })
	g.Go(func() error { gst, errs[7] = d.reader.GstSummary(ctx, businessID); return nil })
	_ = g.Wait()

	var firstErr error
	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	d.mu.Lock()
	if d.loadingGen == gen {
		d.loading = false
	}
	current := d.generation.Load() == gen
	if current {
		switch {
		case failed == 0:
			d.publishLocked(businessID, kpis, score, monthly, forecast.Forecast, risks, recs, summary.Summary, gst)
		case d.policy == BestEffort:
			d.snapshot.BusinessID = businessID
			d.snapshot.RefreshedAt = time.Now()
			if errs[0] == nil {
				d.snapshot.Kpis = kpis
			}
			if errs[1] == nil {
				d.snapshot.Score = score
				d.snapshot.Tone = domain.ParseTone(score.Rating)
			}
			if errs[2] == nil {
				d.snapshot.Monthly = monthly
			}
			if errs[3] == nil {
				d.snapshot.Forecast = forecast.Forecast
			}
			if errs[4] == nil {
				d.snapshot.Risks = risks
			}
			if errs[5] == nil {
				d.snapshot.Recommendations = recs
			}
			if errs[6] == nil {
				d.snapshot.Summary = summary.Summary
			}
			if errs[7] == nil {
				d.snapshot.Gst = gst
			}
		}
	}
	d.mu.Unlock()

	if !current {
		d.metrics.IncrRefresh("superseded")
		d.logger.Debug("refresh superseded, result discarded",
			zap.Int64("business_id", businessID),
			zap.Uint64("generation", gen),
		)
		return nil
	}

	if failed > 0 {
		if d.policy == AllOrNothing || failed == 8 {
			d.metrics.IncrRefresh("failed")
		} else {
			d.metrics.IncrRefresh("published")
		}
		d.reporter.Fail(firstErr)
		d.logger.Warn("dashboard refresh incomplete",
			zap.Int64("business_id", businessID),
			zap.Int("failed_reads", failed),
			zap.Error(firstErr),
		)
		return firstErr
	}

	d.metrics.IncrRefresh("published")
	d.logger.Info("dashboard refreshed",
		zap.Int64("business_id", businessID),
		zap.Int("monthly_records", len(monthly)),
		zap.Int("forecast_records", len(forecast.Forecast)),
	)
	return nil
}

// publishLocked replaces the snapshot wholesale. Callers hold d.mu.
func (d *Dashboard) publishLocked(businessID int64, kpis *domain.KpiSnapshot, score *domain.ScoreResult, monthly []domain.MonthlyRecord, forecast []domain.ForecastRecord, risks []domain.RiskItem, recs []string, summary string, gst []domain.GstMonthly) {
	d.snapshot = Snapshot{
		BusinessID:      businessID,
		Kpis:            kpis,
		Score:           score,
		Tone:            domain.ParseTone(score.Rating),
		Monthly:         monthly,
		Forecast:        forecast,
		Risks:           risks,
		Recommendations: recs,
		Summary:         summary,
		Gst:             gst,
		RefreshedAt:     time.Now(),
	}
}

// Loading reports whether a refresh is in flight. It is a liveness signal,
// not a correctness one.
func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Snapshot returns the currently published view.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot
}

// Reset clears published state and invalidates in-flight refreshes, so a
// refresh started before a logout can never publish after it.
func (d *Dashboard) Reset() {
	d.generation.Add(1)
	d.mu.Lock()
	d.snapshot = Snapshot{}
	d.loading = false
	d.mu.Unlock()
}
