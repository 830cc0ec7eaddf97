package service

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// DetectFormat routes a file by its name extension, compared
// case-insensitively. Only PDF names go to the PDF endpoint family;
// everything else is tabular. The decision applies identically to preview
// and commit.
func DetectFormat(filename string) port.FileFormat {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return port.FormatPDF
	}
	return port.FormatTabular
}

// Ingest drives the two-phase (preview/commit) file ingestion. Preview
// fingerprints the file content; commit refuses to ingest content that
// drifted since the preview, closing the gap where an uncorrelated commit
// would silently insert data the user never saw.
type Ingest struct {
	uploader   port.Uploader
	businesses *BusinessContext
	dashboard  *Dashboard
	reporter   *Reporter
	logger     *zap.Logger
	readFile   func(name string) ([]byte, error)

	mu          sync.Mutex
	path        string
	format      port.FileFormat
	preview     *domain.UploadPreview
	fingerprint *[32]byte
}

// NewIngest creates the ingestion pipeline. readFile loads the selected
// file's current content (os.ReadFile in production).
func NewIngest(uploader port.Uploader, businesses *BusinessContext, dashboard *Dashboard, reporter *Reporter, logger *zap.Logger, readFile func(string) ([]byte, error)) *Ingest {
	return &Ingest{
		uploader:   uploader,
		businesses: businesses,
		dashboard:  dashboard,
		reporter:   reporter,
		logger:     logger,
		readFile:   readFile,
	}
}

// SelectFile picks the file to ingest and resets any previous preview
// state. The format is decided here, once.
func (i *Ingest) SelectFile(path string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.path = path
	i.format = DetectFormat(path)
	i.preview = nil
	i.fingerprint = nil
}

// ClearFile drops the selected file and preview state.
func (i *Ingest) ClearFile() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.path = ""
	i.preview = nil
	i.fingerprint = nil
}

// Preview returns the current preview result, if any.
func (i *Ingest) Preview() *domain.UploadPreview {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.preview
}

// load checks preconditions and reads the selected file's current content.
func (i *Ingest) load() (path string, format port.FileFormat, businessID int64, content []byte, err error) {
	i.mu.Lock()
	path, format = i.path, i.format
	i.mu.Unlock()

	if path == "" {
		return "", 0, 0, nil, domain.ErrNoFile
	}
	businessID = i.businesses.Selected()
	if businessID == 0 {
		return "", 0, 0, nil, domain.ErrNoBusiness
	}
	content, err = i.readFile(path)
	if err != nil {
		return "", 0, 0, nil, err
	}
	return path, format, businessID, content, nil
}

// RunPreview uploads the file to the format-specific preview endpoint and
// publishes the bounded sample. No persisted state changes.
func (i *Ingest) RunPreview(ctx context.Context) (*domain.UploadPreview, error) {
	i.reporter.Begin()

	ctx, span := tracer.Start(ctx, "Ingest.RunPreview")
	defer span.End()

	path, format, businessID, content, err := i.load()
	if err != nil {
		i.reporter.Fail(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("upload.format", format.String()))

	preview, err := i.uploader.UploadPreview(ctx, businessID, format, filepath.Base(path), content)
	if err != nil {
		i.reporter.Fail(err)
		return nil, err
	}

	sum := blake2b.Sum256(content)
	i.mu.Lock()
	i.preview = preview
	i.fingerprint = &sum
	i.mu.Unlock()

	i.logger.Info("upload previewed",
		zap.String("file", filepath.Base(path)),
		zap.String("format", format.String()),
		zap.Int("detected_rows", preview.Detected.Rows),
	)
	return preview, nil
}

// RunCommit uploads the file to the format-specific commit endpoint. When a
// preview fingerprint exists and the content has drifted, nothing is sent.
// On success the file and preview state are cleared and the dashboard is
// refreshed so the new data is reflected.
func (i *Ingest) RunCommit(ctx context.Context) (*domain.UploadCommitResult, error) {
	i.reporter.Begin()

	ctx, span := tracer.Start(ctx, "Ingest.RunCommit")
	defer span.End()

	path, format, businessID, content, err := i.load()
	if err != nil {
		i.reporter.Fail(err)
		return nil, err
	}

	i.mu.Lock()
	fingerprint := i.fingerprint
	i.mu.Unlock()
	if fingerprint != nil {
		if sum := blake2b.Sum256(content); sum != *fingerprint {
			i.reporter.Fail(domain.ErrContentDrift)
			return nil, domain.ErrContentDrift
		}
	}

	result, err := i.uploader.UploadCommit(ctx, businessID, format, filepath.Base(path), content)
	if err != nil {
		i.reporter.Fail(err)
		return nil, err
	}

	i.ClearFile()
	i.logger.Info("upload committed",
		zap.String("file", filepath.Base(path)),
		zap.String("format", format.String()),
		zap.Int("inserted", result.Inserted),
	)

	return result, i.dashboard.Refresh(ctx, businessID)
}
