// Package service implements the orchestration layer: session lifecycle,
// business selection, dashboard aggregation, and file ingestion.
package service

import (
	"sync"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"

	"go.uber.org/zap"
)

// Reporter holds the single most-recent human-readable failure message.
// Every externally-facing operation calls Begin first, so only the latest
// failure is ever observable; it is not a log or a queue.
type Reporter struct {
	mu     sync.Mutex
	msg    string
	logger *zap.Logger
}

// NewReporter creates an error reporter.
func NewReporter(logger *zap.Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Begin clears the slot at the start of a new operation.
func (r *Reporter) Begin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msg = ""
}

// Fail converts err into its display string and stores it, superseding any
// earlier message.
func (r *Reporter) Fail(err error) {
	if err == nil {
		return
	}
	msg := domain.DisplayMessage(err)
	r.mu.Lock()
	r.msg = msg
	r.mu.Unlock()
	r.logger.Warn("operation failed", zap.String("display", msg), zap.Error(err))
}

// Message returns the current failure message, or "" when the last
// operation succeeded.
func (r *Reporter) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msg
}
