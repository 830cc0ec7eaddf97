package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/port"
)

// Endpoint families per file format. The routing decision is made by the
// ingestion pipeline; the client only maps the enum to paths.
func previewPath(format port.FileFormat) string {
	if format == port.FormatPDF {
		return "/upload/pdf/preview"
	}
	return "/upload/preview"
}

func commitPath(format port.FileFormat) string {
	if format == port.FormatPDF {
		return "/upload/pdf/commit"
	}
	return "/upload/commit"
}

// multipartBody packs the file under the form field name the backend
// expects ("file"), preserving the original filename.
func multipartBody(op, filename string, content []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", &domain.ErrTransport{Operation: op, Err: err}
	}
	if _, err := fw.Write(content); err != nil {
		return nil, "", &domain.ErrTransport{Operation: op, Err: err}
	}
	if err := w.Close(); err != nil {
		return nil, "", &domain.ErrTransport{Operation: op, Err: err}
	}
	return &buf, w.FormDataContentType(), nil
}

// UploadPreview asks the backend for a bounded sample of the file. It never
// causes a persisted mutation.
func (c *Client) UploadPreview(ctx context.Context, businessID int64, format port.FileFormat, filename string, content []byte) (*domain.UploadPreview, error) {
	const op = "upload.preview"
	body, contentType, err := multipartBody(op, filename, content)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, op, http.MethodPost, previewPath(format), businessQuery(businessID), body, contentType)
	if err != nil {
		return nil, err
	}

	var preview domain.UploadPreview
	if err := decodeJSON(op, data, &preview); err != nil {
		return nil, err
	}
	c.metrics.IncrUpload(format.String(), "preview")
	return &preview, nil
}

// UploadCommit performs the actual insert and returns the inserted count.
func (c *Client) UploadCommit(ctx context.Context, businessID int64, format port.FileFormat, filename string, content []byte) (*domain.UploadCommitResult, error) {
	const op = "upload.commit"
	body, contentType, err := multipartBody(op, filename, content)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, op, http.MethodPost, commitPath(format), businessQuery(businessID), body, contentType)
	if err != nil {
		return nil, err
	}

	var result domain.UploadCommitResult
	if err := decodeJSON(op, data, &result); err != nil {
		return nil, err
	}
	c.metrics.IncrUpload(format.String(), "commit")
	return &result, nil
}

// BankSync pulls recent transactions from the connected bank.
func (c *Client) BankSync(ctx context.Context, businessID int64) (*domain.BankSyncResult, error) {
	var r domain.BankSyncResult
	if err := c.doJSON(ctx, "bank.sync", http.MethodPost, "/bank/sync", businessQuery(businessID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ReportPDF streams the generated PDF report to w.
func (c *Client) ReportPDF(ctx context.Context, businessID int64, w io.Writer) error {
	const op = "report.pdf"
	data, err := c.do(ctx, op, http.MethodGet, "/reports/pdf", businessQuery(businessID), nil, "")
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return &domain.ErrTransport{Operation: op, Err: err}
	}
	return nil
}
