package service

import (
	"context"
	"sync"

	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/domain"
	"github.com/Sharfudeen2004/Finacial-Health-Tool/internal/port"

	"go.uber.org/zap"
)

// BusinessContext tracks the businesses visible to the session and the
// current selection. Changing the selection is the sole trigger for a
// dashboard refresh; it never clears previously displayed data, so a stale
// view persists until the new fetch settles.
type BusinessContext struct {
	directory port.BusinessDirectory
	dashboard *Dashboard
	reporter  *Reporter
	logger    *zap.Logger

	mu       sync.Mutex
	list     []domain.Business
	selected int64
}

// NewBusinessContext creates the business selection state.
func NewBusinessContext(directory port.BusinessDirectory, dashboard *Dashboard, reporter *Reporter, logger *zap.Logger) *BusinessContext {
	return &BusinessContext{
		directory: directory,
		dashboard: dashboard,
		reporter:  reporter,
		logger:    logger,
	}
}

// RefreshList re-fetches the business list. When nothing was selected, the
// first entry in server-returned order becomes the selection, which in turn
// refreshes the dashboard.
func (b *BusinessContext) RefreshList(ctx context.Context) error {
	_, err := b.refreshList(ctx)
	return err
}

func (b *BusinessContext) refreshList(ctx context.Context) (refreshed bool, err error) {
	b.reporter.Begin()

	list, err := b.directory.ListBusinesses(ctx)
	if err != nil {
		b.reporter.Fail(err)
		return false, err
	}

	b.mu.Lock()
	b.list = list
	autoSelect := b.selected == 0 && len(list) > 0
	if autoSelect {
		b.selected = list[0].ID
	}
	selected := b.selected
	b.mu.Unlock()

	b.logger.Info("business list refreshed",
		zap.Int("count", len(list)),
		zap.Int64("selected", selected),
	)

	if autoSelect {
		return true, b.dashboard.Refresh(ctx, selected)
	}
	return false, nil
}

// Select changes the active business and refreshes the dashboard for it.
func (b *BusinessContext) Select(ctx context.Context, id int64) error {
	b.mu.Lock()
	b.selected = id
	b.mu.Unlock()

	b.logger.Info("business selected", zap.Int64("business_id", id))
	return b.dashboard.Refresh(ctx, id)
}

// Create inserts a business, then refreshes both the list and the
// dashboard. With a previously empty list the new business becomes the
// selection via the auto-select rule.
func (b *BusinessContext) Create(ctx context.Context, name, industry string) (*domain.Business, error) {
	b.reporter.Begin()

	created, err := b.directory.CreateBusiness(ctx, name, industry)
	if err != nil {
		b.reporter.Fail(err)
		return nil, err
	}
	b.logger.Info("business created",
		zap.Int64("business_id", created.ID),
		zap.String("name", created.Name),
	)

	refreshed, err := b.refreshList(ctx)
	if err != nil {
		return created, err
	}
	if !refreshed {
		return created, b.dashboard.Refresh(ctx, b.Selected())
	}
	return created, nil
}

// Selected returns the active business id, 0 when none.
func (b *BusinessContext) Selected() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

// Businesses returns a copy of the current list.
func (b *BusinessContext) Businesses() []domain.Business {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Business, len(b.list))
	copy(out, b.list)
	return out
}

// Reset drops the list and selection. Business-scoped entities never
// outlive the session.
func (b *BusinessContext) Reset() {
	b.mu.Lock()
	b.list = nil
	b.selected = 0
	b.mu.Unlock()
}
