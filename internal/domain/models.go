// Package domain holds the types exchanged with the SME financial-health
// backend and the pure logic operating on them.
package domain

// Business is a tenant-scoped entity owned by the signed-in user. All
// financial data and computed analytics attach to a business.
type Business struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Industry    string `json:"industry,omitempty"`
	OwnerUserID int64  `json:"owner_user_id,omitempty"`
	Role        string `json:"role,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// UserProfile is the signed-in user as returned by GET /auth/me.
type UserProfile struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

// KpiSnapshot holds the aggregate numeric facts for one business. It is
// replaced wholesale on each successful dashboard refresh.
//
// ExpenseRatio is null upstream when the business has no revenue.
type KpiSnapshot struct {
	BusinessID        int64    `json:"business_id"`
	TotalTransactions int      `json:"total_transactions"`
	TotalInflow       float64  `json:"total_inflow"`
	TotalOutflow      float64  `json:"total_outflow"`
	NetCashflow       float64  `json:"net_cashflow"`
	TotalRevenue      float64  `json:"total_revenue"`
	TotalExpenses     float64  `json:"total_expenses"`
	NetProfitSimple   float64  `json:"net_profit_simple"`
	ExpenseRatio      *float64 `json:"expense_ratio"`
}

// ScoreResult is the health score with its free-form rating label. The
// label is categorized into a Tone once, at the boundary.
type ScoreResult struct {
	HealthScore float64 `json:"health_score"`
	Rating      string  `json:"rating"`
}

// MonthlyRecord is one historical month of actuals. Month is a "YYYY-MM"
// key, unique within the backend's response.
type MonthlyRecord struct {
	Month        string  `json:"month"`
	Revenue      float64 `json:"revenue"`
	Expenses     float64 `json:"expenses"`
	ProfitSimple float64 `json:"profit_simple"`
}

// ForecastRecord is one projected month. Its fields are disjoint from
// MonthlyRecord so a merged point can carry both without collisions.
type ForecastRecord struct {
	Month               string  `json:"month"`
	ForecastRevenue     float64 `json:"forecast_revenue"`
	ForecastNetCashflow float64 `json:"forecast_net_cashflow"`
}

// ForecastResponse is the envelope of GET /forecast. The dashboard
// publishes the nested Forecast list.
type ForecastResponse struct {
	BusinessID    int64            `json:"business_id"`
	Forecast      []ForecastRecord `json:"forecast"`
	BasedOnMonths []string         `json:"based_on_months,omitempty"`
	Message       string           `json:"message,omitempty"`
}

// GstMonthly is one month of GST sales vs purchases.
type GstMonthly struct {
	Month        string  `json:"month"`
	GstSales     float64 `json:"gst_sales"`
	GstPurchases float64 `json:"gst_purchases"`
}

// AISummary is the narrative summary of GET /ai/summary.
type AISummary struct {
	Summary string `json:"summary"`
	Model   string `json:"model,omitempty"`
}

// UploadPreview is a bounded, read-only sample of an uploaded file. It is
// never persisted by the backend.
type UploadPreview struct {
	Columns  []string         `json:"columns"`
	Preview  []map[string]any `json:"preview"`
	Detected DetectedInfo     `json:"detected"`
}

// DetectedInfo reports what the backend detected in the whole file, not
// just the previewed sample.
type DetectedInfo struct {
	Rows    int    `json:"rows"`
	Message string `json:"message,omitempty"`
}

// UploadCommitResult reports how many rows a commit actually inserted.
type UploadCommitResult struct {
	Inserted int `json:"inserted"`
}

// BankSyncResult reports how many transactions a bank sync pulled in.
type BankSyncResult struct {
	Synced int `json:"synced"`
}
