package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
)

// The eight business-scoped reads the dashboard aggregator fans out to.
// Each is independent; the aggregator owns the join.

// Kpis fetches the aggregate KPI snapshot.
func (c *Client) Kpis(ctx context.Context, businessID int64) (*domain.KpiSnapshot, error) {
	var k domain.KpiSnapshot
	if err := c.doJSON(ctx, "kpis", http.MethodGet, "/kpis", businessQuery(businessID), nil, &k); err != nil {
		return nil, err
	}
	return &k, nil
}

// Score fetches the health score and rating label.
func (c *Client) Score(ctx context.Context, businessID int64) (*domain.ScoreResult, error) {
	var s domain.ScoreResult
	if err := c.doJSON(ctx, "score", http.MethodGet, "/score", businessQuery(businessID), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// MonthlyKpis fetches the per-month actuals, sorted by the backend.
func (c *Client) MonthlyKpis(ctx context.Context, businessID int64) ([]domain.MonthlyRecord, error) {
	var out []domain.MonthlyRecord
	if err := c.doJSON(ctx, "kpis.monthly", http.MethodGet, "/kpis/monthly", businessQuery(businessID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Forecast fetches the projection envelope for the given horizon.
func (c *Client) Forecast(ctx context.Context, businessID int64, months int) (*domain.ForecastResponse, error) {
	q := businessQuery(businessID)
	q.Set("months", fmt.Sprintf("%d", months))
	var f domain.ForecastResponse
	if err := c.doJSON(ctx, "forecast", http.MethodGet, "/forecast", q, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Risks fetches the heterogeneous risk list, normalized at decode.
func (c *Client) Risks(ctx context.Context, businessID int64) ([]domain.RiskItem, error) {
	var out []domain.RiskItem
	if err := c.doJSON(ctx, "risks", http.MethodGet, "/risks", businessQuery(businessID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recommendations fetches the ordered recommendation strings.
func (c *Client) Recommendations(ctx context.Context, businessID int64) ([]string, error) {
	var out []string
	if err := c.doJSON(ctx, "recommendations", http.MethodGet, "/recommendations", businessQuery(businessID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AISummary fetches the narrative summary.
func (c *Client) AISummary(ctx context.Context, businessID int64) (*domain.AISummary, error) {
	var s domain.AISummary
	if err := c.doJSON(ctx, "ai.summary", http.MethodGet, "/ai/summary", businessQuery(businessID), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GstSummary fetches monthly GST sales vs purchases.
func (c *Client) GstSummary(ctx context.Context, businessID int64) ([]domain.GstMonthly, error) {
	var out []domain.GstMonthly
	if err := c.doJSON(ctx, "gst.summary", http.MethodGet, "/gst/summary", businessQuery(businessID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
