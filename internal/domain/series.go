package domain

import (
	"fmt"
	"regexp"
	"sort"
)

// MergedSeriesPoint is the union of a MonthlyRecord and/or a ForecastRecord
// sharing the same month key. Pointer fields distinguish "absent" from
// zero: a month may carry only actuals, only forecast values, or both.
type MergedSeriesPoint struct {
	Month               string   `json:"month"`
	Revenue             *float64 `json:"revenue,omitempty"`
	Expenses            *float64 `json:"expenses,omitempty"`
	ProfitSimple        *float64 `json:"profit_simple,omitempty"`
	ForecastRevenue     *float64 `json:"forecast_revenue,omitempty"`
	ForecastNetCashflow *float64 `json:"forecast_net_cashflow,omitempty"`
}

// HasActuals reports whether the point carries historical fields.
func (p MergedSeriesPoint) HasActuals() bool { return p.Revenue != nil }

// HasForecast reports whether the point carries projected fields.
func (p MergedSeriesPoint) HasForecast() bool { return p.ForecastRevenue != nil }

// Month keys must be fixed-width "YYYY-MM" so that lexicographic order is
// chronological order. Any other format would silently mis-sort, so it is
// rejected instead.
var monthKeyRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// MergeSeries merges monthly actuals and forecasts into one chronological
// series. Actuals are inserted first, forecasts second; a forecast for an
// existing month augments the point, never overwrites actual fields (the
// two sources contribute disjoint field names). Duplicate keys within one
// source resolve last-write-wins by iteration order.
//
// The function is deterministic and idempotent: merging identical inputs,
// or re-merging its own output split back into the two shapes, yields a
// structurally identical sequence.
func MergeSeries(monthly []MonthlyRecord, forecast []ForecastRecord) ([]MergedSeriesPoint, error) {
	points := make(map[string]*MergedSeriesPoint, len(monthly)+len(forecast))

	for _, m := range monthly {
		if !monthKeyRe.MatchString(m.Month) {
			return nil, fmt.Errorf("invalid month key %q: want YYYY-MM", m.Month)
		}
		rev, exp, profit := m.Revenue, m.Expenses, m.ProfitSimple
		p, ok := points[m.Month]
		if !ok {
			p = &MergedSeriesPoint{Month: m.Month}
			points[m.Month] = p
		}
		p.Revenue, p.Expenses, p.ProfitSimple = &rev, &exp, &profit
	}

	for _, f := range forecast {
		if !monthKeyRe.MatchString(f.Month) {
			return nil, fmt.Errorf("invalid month key %q: want YYYY-MM", f.Month)
		}
		rev, cf := f.ForecastRevenue, f.ForecastNetCashflow
		p, ok := points[f.Month]
		if !ok {
			p = &MergedSeriesPoint{Month: f.Month}
			points[f.Month] = p
		}
		p.ForecastRevenue, p.ForecastNetCashflow = &rev, &cf
	}

	out := make([]MergedSeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
