package service_test

import (
	"context"
	"io"
	"sync"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/port"
)

// --- Fixtures ---

func fixtureKpis() *domain.KpiSnapshot {
	ratio := 40.0
	return &domain.KpiSnapshot{
		BusinessID:        1,
		TotalTransactions: 42,
		TotalInflow:       1000,
		TotalOutflow:      400,
		NetCashflow:       600,
		TotalRevenue:      1000,
		TotalExpenses:     400,
		NetProfitSimple:   600,
		ExpenseRatio:      &ratio,
	}
}

func fixtureMonthly() []domain.MonthlyRecord {
	return []domain.MonthlyRecord{
		{Month: "2024-01", Revenue: 500, Expenses: 200, ProfitSimple: 300},
		{Month: "2024-02", Revenue: 500, Expenses: 200, ProfitSimple: 300},
	}
}

func fixtureForecast() *domain.ForecastResponse {
	return &domain.ForecastResponse{
		BusinessID: 1,
		Forecast: []domain.ForecastRecord{
			{Month: "2024-03", ForecastRevenue: 500, ForecastNetCashflow: 300},
		},
		BasedOnMonths: []string{"2024-01", "2024-02"},
	}
}

// --- Dashboard reader stub ---

// stubReader serves happy-path fixtures; individual operations can be
// overridden with an error or a blocking gate per test.
type stubReader struct {
	mu    sync.Mutex
	errOn map[string]error
	calls map[string]int
	// gate, when non-nil, is received from before every read returns.
	gate chan struct{}
}

func newStubReader() *stubReader {
	return &stubReader{errOn: map[string]error{}, calls: map[string]int{}}
}

func (r *stubReader) enter(op string) error {
	r.mu.Lock()
	r.calls[op]++
	err := r.errOn[op]
	gate := r.gate
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (r *stubReader) callCount(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *stubReader) Kpis(_ context.Context, _ int64) (*domain.KpiSnapshot, error) {
	if err := r.enter("kpis"); err != nil {
		return nil, err
	}
	return fixtureKpis(), nil
}

func (r *stubReader) Score(_ context.Context, _ int64) (*domain.ScoreResult, error) {
	if err := r.enter("score"); err != nil {
		return nil, err
	}
	return &domain.ScoreResult{HealthScore: 80, Rating: "Excellent"}, nil
}

func (r *stubReader) MonthlyKpis(_ context.Context, _ int64) ([]domain.MonthlyRecord, error) {
	if err := r.enter("monthly"); err != nil {
		return nil, err
	}
	return fixtureMonthly(), nil
}

func (r *stubReader) Forecast(_ context.Context, _ int64, _ int) (*domain.ForecastResponse, error) {
	if err := r.enter("forecast"); err != nil {
		return nil, err
	}
	return fixtureForecast(), nil
}

func (r *stubReader) Risks(_ context.Context, _ int64) ([]domain.RiskItem, error) {
	if err := r.enter("risks"); err != nil {
		return nil, err
	}
	return []domain.RiskItem{{Type: "no_major_risks", Severity: "info", Message: "No major risks detected"}}, nil
}

func (r *stubReader) Recommendations(_ context.Context, _ int64) ([]string, error) {
	if err := r.enter("recommendations"); err != nil {
		return nil, err
	}
	return []string{"Track KPIs monthly"}, nil
}

func (r *stubReader) AISummary(_ context.Context, _ int64) (*domain.AISummary, error) {
	if err := r.enter("summary"); err != nil {
		return nil, err
	}
	return &domain.AISummary{Summary: "Maintain positive cashflow."}, nil
}

func (r *stubReader) GstSummary(_ context.Context, _ int64) ([]domain.GstMonthly, error) {
	if err := r.enter("gst"); err != nil {
		return nil, err
	}
	return []domain.GstMonthly{{Month: "2024-01", GstSales: 100, GstPurchases: 60}}, nil
}

// --- Credential / token store fakes ---

type fakeCredential struct {
	mu    sync.Mutex
	token string
}

func (c *fakeCredential) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *fakeCredential) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

func (c *fakeCredential) HasToken() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

type fakeStore struct {
	mu    sync.Mutex
	token string
	saves int
}

func (s *fakeStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.saves++
	return nil
}

func (s *fakeStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *fakeStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// --- Exchanger / directory fakes ---

type fakeExchanger struct {
	loginToken    string
	loginErr      error
	registerToken string
	registerErr   error
	user          *domain.UserProfile
	meErr         error
}

func (e *fakeExchanger) Login(_ context.Context, _, _ string) (string, error) {
	return e.loginToken, e.loginErr
}

func (e *fakeExchanger) Register(_ context.Context, _, _, _ string) (string, error) {
	return e.registerToken, e.registerErr
}

func (e *fakeExchanger) Me(_ context.Context) (*domain.UserProfile, error) {
	return e.user, e.meErr
}

type fakeDirectory struct {
	mu      sync.Mutex
	list    []domain.Business
	listErr error
	created *domain.Business
	nextID  int64
	crErr   error
}

func (d *fakeDirectory) ListBusinesses(_ context.Context) ([]domain.Business, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listErr != nil {
		return nil, d.listErr
	}
	out := make([]domain.Business, len(d.list))
	copy(out, d.list)
	return out, nil
}

func (d *fakeDirectory) CreateBusiness(_ context.Context, name, industry string) (*domain.Business, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.crErr != nil {
		return nil, d.crErr
	}
	d.nextID++
	b := domain.Business{ID: d.nextID, Name: name, Industry: industry}
	d.list = append(d.list, b)
	d.created = &b
	return &b, nil
}

// --- Uploader / bank fakes ---

type uploadCall struct {
	businessID int64
	format     port.FileFormat
	filename   string
	content    []byte
}

type fakeUploader struct {
	mu         sync.Mutex
	previews   []uploadCall
	commits    []uploadCall
	preview    *domain.UploadPreview
	previewErr error
	commit     *domain.UploadCommitResult
	commitErr  error
}

func (u *fakeUploader) UploadPreview(_ context.Context, businessID int64, format port.FileFormat, filename string, content []byte) (*domain.UploadPreview, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.previews = append(u.previews, uploadCall{businessID, format, filename, content})
	if u.previewErr != nil {
		return nil, u.previewErr
	}
	if u.preview != nil {
		return u.preview, nil
	}
	return &domain.UploadPreview{
		Columns:  []string{"txn_date", "description", "amount"},
		Preview:  []map[string]any{{"txn_date": "2024-01-05", "amount": 100.0}},
		Detected: domain.DetectedInfo{Rows: 12},
	}, nil
}

func (u *fakeUploader) UploadCommit(_ context.Context, businessID int64, format port.FileFormat, filename string, content []byte) (*domain.UploadCommitResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.commits = append(u.commits, uploadCall{businessID, format, filename, content})
	if u.commitErr != nil {
		return nil, u.commitErr
	}
	if u.commit != nil {
		return u.commit, nil
	}
	return &domain.UploadCommitResult{Inserted: 12}, nil
}

type fakeBank struct {
	synced  int
	syncErr error
	pdf     []byte
	pdfErr  error
}

func (b *fakeBank) BankSync(_ context.Context, _ int64) (*domain.BankSyncResult, error) {
	if b.syncErr != nil {
		return nil, b.syncErr
	}
	return &domain.BankSyncResult{Synced: b.synced}, nil
}

func (b *fakeBank) ReportPDF(_ context.Context, _ int64, w io.Writer) error {
	if b.pdfErr != nil {
		return b.pdfErr
	}
	_, err := w.Write(b.pdf)
	return err
}
