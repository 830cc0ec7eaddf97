// Package port defines the interfaces (ports) the orchestration services
// depend on. Following hexagonal architecture, these ports decouple the
// service layer from the concrete backend client and storage.
package port

import (
	"context"
	"io"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
)

// FileFormat is the closed routing enumeration for uploads, decided once
// from the file name and used for both preview and commit.
type FileFormat int

const (
	FormatTabular FileFormat = iota
	FormatPDF
)

func (f FileFormat) String() string {
	if f == FormatPDF {
		return "pdf"
	}
	return "tabular"
}

// Credential carries the bearer token on outgoing calls. HasToken gates
// business- and dashboard-scoped operations.
type Credential interface {
	SetToken(token string)
	ClearToken()
	HasToken() bool
}

// TokenStore persists the session token across process restarts. The token
// is the only persisted client-side artifact.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// TokenExchanger exchanges credentials for an access token and resolves the
// signed-in user.
type TokenExchanger interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, fullName, email, password string) (string, error)
	Me(ctx context.Context) (*domain.UserProfile, error)
}

// BusinessDirectory lists and creates the businesses visible to the session.
type BusinessDirectory interface {
	ListBusinesses(ctx context.Context) ([]domain.Business, error)
	CreateBusiness(ctx context.Context, name, industry string) (*domain.Business, error)
}

// DashboardReader exposes the eight independent business-scoped reads the
// aggregator fans out to.
type DashboardReader interface {
	Kpis(ctx context.Context, businessID int64) (*domain.KpiSnapshot, error)
	Score(ctx context.Context, businessID int64) (*domain.ScoreResult, error)
	MonthlyKpis(ctx context.Context, businessID int64) ([]domain.MonthlyRecord, error)
	Forecast(ctx context.Context, businessID int64, months int) (*domain.ForecastResponse, error)
	Risks(ctx context.Context, businessID int64) ([]domain.RiskItem, error)
	Recommendations(ctx context.Context, businessID int64) ([]string, error)
	AISummary(ctx context.Context, businessID int64) (*domain.AISummary, error)
	GstSummary(ctx context.Context, businessID int64) ([]domain.GstMonthly, error)
}

// Uploader drives the two-phase file ingestion against the format-specific
// endpoint family.
type Uploader interface {
	UploadPreview(ctx context.Context, businessID int64, format FileFormat, filename string, content []byte) (*domain.UploadPreview, error)
	UploadCommit(ctx context.Context, businessID int64, format FileFormat, filename string, content []byte) (*domain.UploadCommitResult, error)
}

// BankConnector covers the remaining business-scoped write/read surface:
// simulated bank sync and the generated PDF report.
type BankConnector interface {
	BankSync(ctx context.Context, businessID int64) (*domain.BankSyncResult, error)
	ReportPDF(ctx context.Context, businessID int64, w io.Writer) error
}
